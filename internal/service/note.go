package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/denbox/denbox/internal/model"
	"github.com/denbox/denbox/internal/repository"
	"github.com/denbox/denbox/internal/validation"
	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type NoteService struct {
	noteRepo repository.NoteRepository
	userRepo repository.UserRepository
}

func NewNoteService(noteRepo repository.NoteRepository, userRepo repository.UserRepository) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		userRepo: userRepo,
	}
}

// Notes lists notes for targetUserID, newest first. An empty target defaults
// to the caller; any other target requires admin.
func (s *NoteService) Notes(user *model.User, targetUserID string) ([]*model.Note, error) {
	if targetUserID == "" {
		targetUserID = user.ID
	}

	if targetUserID != user.ID && !user.IsAdmin() {
		return nil, ErrForbidden
	}

	return s.noteRepo.ByUser(targetUserID)
}

// Create sanitizes both fields, validates them and inserts the note.
// Length limits apply to the sanitized text.
func (s *NoteService) Create(user *model.User, title, content string) (*model.Note, error) {
	title = validation.SanitizeText(title)
	content = validation.SanitizeText(content)

	err := validation.ValidateNote(title, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}

	err = s.noteRepo.Create(note)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// Search matches the query as a case-insensitive substring of title or
// content, scoped to the caller's own notes. Admins get no wider scope here.
func (s *NoteService) Search(user *model.User, query string) ([]*model.Note, error) {
	return s.noteRepo.Search(user.ID, query)
}

// Delete removes a note. Owner or admin only.
func (s *NoteService) Delete(user *model.User, noteID string) error {
	note, err := s.noteRepo.ByID(noteID)
	if err != nil {
		return err
	}

	if note.UserID != user.ID && !user.IsAdmin() {
		return ErrForbidden
	}

	return s.noteRepo.Delete(noteID)
}

// DebugUser is the reduced user view exposed by the admin diagnostic.
type DebugUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// DebugReport enumerates all users and notes for the admin diagnostic endpoint.
type DebugReport struct {
	Users []DebugUser   `json:"users"`
	Notes []*model.Note `json:"notes"`
}

// Debug returns the full users and notes inventory. Admin only.
func (s *NoteService) Debug(user *model.User) (*DebugReport, error) {
	if !user.IsAdmin() {
		return nil, ErrForbidden
	}

	users, err := s.userRepo.All()
	if err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.All()
	if err != nil {
		return nil, err
	}

	report := &DebugReport{
		Users: make([]DebugUser, 0, len(users)),
		Notes: notes,
	}
	for _, u := range users {
		report.Users = append(report.Users, DebugUser{ID: u.ID, Username: u.Username})
	}

	return report, nil
}
