package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/denbox/denbox/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

type NoteRepository interface {
	Create(note *model.Note) error
	ByID(id string) (*model.Note, error)
	ByUser(userID string) ([]*model.Note, error)
	Search(userID, query string) ([]*model.Note, error)
	All() ([]*model.Note, error)
	Delete(id string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(note *model.Note) error {
	query := `INSERT INTO notes (id, user_id, title, content, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.CreatedAt,
	)

	return err
}

func (r *noteRepository) ByID(id string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT * FROM notes WHERE id = $1`

	err := r.db.Get(note, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrNoteNotFound
	}

	return note, err
}

func (r *noteRepository) ByUser(userID string) ([]*model.Note, error) {
	var notes []*model.Note
	query := `SELECT * FROM notes WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&notes, query, userID)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// likeEscaper neutralizes LIKE wildcards so the search term is matched
// literally. The term itself is always a bound parameter, never query text.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *noteRepository) Search(userID, search string) ([]*model.Note, error) {
	var notes []*model.Note
	query := `SELECT * FROM notes
	          WHERE user_id = $1
	            AND (LOWER(title) LIKE $2 ESCAPE '\' OR LOWER(content) LIKE $2 ESCAPE '\')
	          ORDER BY created_at DESC`

	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"

	err := r.db.Select(&notes, query, userID, pattern)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) All() ([]*model.Note, error) {
	var notes []*model.Note
	query := `SELECT * FROM notes ORDER BY created_at DESC`

	err := r.db.Select(&notes, query)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) Delete(id string) error {
	query := `DELETE FROM notes WHERE id = $1`
	result, err := r.db.Exec(query, id)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoteNotFound
	}

	return nil
}
