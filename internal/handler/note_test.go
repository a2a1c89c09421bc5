package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/denbox/denbox/internal/model"
	"github.com/denbox/denbox/internal/repository"
	"github.com/denbox/denbox/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNoteRepository mocks repository.NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(note *model.Note) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockNoteRepository) ByID(id string) (*model.Note, error) {
	args := m.Called(id)
	if n := args.Get(0); n != nil {
		return n.(*model.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) ByUser(userID string) ([]*model.Note, error) {
	args := m.Called(userID)
	if n := args.Get(0); n != nil {
		return n.([]*model.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) Search(userID, query string) ([]*model.Note, error) {
	args := m.Called(userID, query)
	if n := args.Get(0); n != nil {
		return n.([]*model.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) All() ([]*model.Note, error) {
	args := m.Called()
	if n := args.Get(0); n != nil {
		return n.([]*model.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) ByID(id string) (*model.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) All() ([]*model.User, error) {
	args := m.Called()
	if u := args.Get(0); u != nil {
		return u.([]*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoteHandler() (*NoteHandler, *MockNoteRepository, *MockUserRepository) {
	notes := new(MockNoteRepository)
	users := new(MockUserRepository)
	return NewNoteHandler(service.NewNoteService(notes, users)), notes, users
}

func noteForm(t *testing.T, user *model.User, target, title, content string) *http.Request {
	t.Helper()
	form := url.Values{"title": {title}, "content": {content}}
	r := authedRequest(t, user, http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestNoteHandler_List(t *testing.T) {
	h, notes, _ := newNoteHandler()
	user := &model.User{ID: "u1"}

	notes.On("ByUser", "u1").Return([]*model.Note{{ID: "n1", UserID: "u1", Title: "groceries"}}, nil)

	w := httptest.NewRecorder()
	h.List(w, authedRequest(t, user, http.MethodGet, "/apps/notes/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestNoteHandler_List_OtherUserForbidden(t *testing.T) {
	h, notes, _ := newNoteHandler()
	user := &model.User{ID: "u1"}

	w := httptest.NewRecorder()
	h.List(w, authedRequest(t, user, http.MethodGet, "/apps/notes/?user_id=u2", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	notes.AssertNotCalled(t, "ByUser", mock.Anything)
}

func TestNoteHandler_Create(t *testing.T) {
	h, notes, _ := newNoteHandler()
	user := &model.User{ID: "u1"}

	notes.On("Create", mock.MatchedBy(func(n *model.Note) bool {
		return n.UserID == "u1" && n.Title == "groceries" && n.Content == "milk and alert(1)"
	})).Return(nil)

	w := httptest.NewRecorder()
	h.Create(w, noteForm(t, user, "/apps/notes/create", "groceries", "milk and <b>alert(1)</b>"))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	notes.AssertExpectations(t)
}

func TestNoteHandler_Create_Invalid(t *testing.T) {
	h, notes, _ := newNoteHandler()
	user := &model.User{ID: "u1"}

	// Sanitization drops the script element entirely, leaving an empty title.
	w := httptest.NewRecorder()
	h.Create(w, noteForm(t, user, "/apps/notes/create", "<script>alert(1)</script>", "content"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	notes.AssertNotCalled(t, "Create", mock.Anything)
}

func TestNoteHandler_Search_EmptyResultIsArray(t *testing.T) {
	h, notes, _ := newNoteHandler()
	user := &model.User{ID: "u1"}

	notes.On("Search", "u1", "nothing").Return(nil, nil)

	w := httptest.NewRecorder()
	h.Search(w, authedRequest(t, user, http.MethodGet, "/apps/notes/search?q=nothing", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notes":[]`)
}

func TestNoteHandler_Delete(t *testing.T) {
	owned := &model.Note{ID: "n1", UserID: "u1"}

	tests := []struct {
		name       string
		user       *model.User
		note       *model.Note
		byIDErr    error
		wantStatus int
	}{
		{"owner deletes", &model.User{ID: "u1"}, owned, nil, http.StatusOK},
		{"admin deletes", &model.User{ID: "u2", Admin: true}, owned, nil, http.StatusOK},
		{"non-owner forbidden", &model.User{ID: "u2"}, owned, nil, http.StatusForbidden},
		{"missing note", &model.User{ID: "u1"}, nil, repository.ErrNoteNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, notes, _ := newNoteHandler()

			notes.On("ByID", "n1").Return(tt.note, tt.byIDErr)
			if tt.wantStatus == http.StatusOK {
				notes.On("Delete", "n1").Return(nil)
			}

			r := authedRequest(t, tt.user, http.MethodDelete, "/apps/notes/delete/n1", nil)
			r.SetPathValue("id", "n1")

			w := httptest.NewRecorder()
			h.Delete(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestNoteHandler_Debug(t *testing.T) {
	t.Run("non-admin forbidden", func(t *testing.T) {
		h, _, users := newNoteHandler()

		w := httptest.NewRecorder()
		h.Debug(w, authedRequest(t, &model.User{ID: "u1"}, http.MethodGet, "/apps/notes/debug", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		users.AssertNotCalled(t, "All")
	})

	t.Run("admin sees inventory", func(t *testing.T) {
		h, notes, users := newNoteHandler()

		users.On("All").Return([]*model.User{{ID: "u1", Username: "alice"}}, nil)
		notes.On("All").Return([]*model.Note{{ID: "n1", UserID: "u1", Title: "groceries"}}, nil)

		admin := &model.User{ID: "u9", Admin: true}
		w := httptest.NewRecorder()
		h.Debug(w, authedRequest(t, admin, http.MethodGet, "/apps/notes/debug", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Len(t, body["users"], 1)
		assert.Len(t, body["notes"], 1)
	})
}
