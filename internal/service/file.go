package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/denbox/denbox/internal/hash"
	"github.com/denbox/denbox/internal/model"
	"github.com/denbox/denbox/internal/repository"
	"github.com/denbox/denbox/internal/storage"
	"github.com/denbox/denbox/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrForbidden            = errors.New("access denied")
	ErrUnsupportedMediaType = errors.New("file type not allowed")
	ErrPayloadTooLarge      = errors.New("file size exceeds limit")
	ErrPasswordRequired     = errors.New("password required")
	ErrPasswordIncorrect    = errors.New("incorrect password")
	ErrStorage              = errors.New("storage failure")
)

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
	}
}

// Files returns all files owned by the user, newest first.
func (s *FileService) Files(userID string) ([]*model.File, error) {
	return s.fileRepo.ByUser(userID)
}

// Upload validates the blob, writes it to storage and creates the file row.
// The blob write happens first; if the row insert fails the blob is removed,
// so a row never points at a missing blob.
func (s *FileService) Upload(user *model.User, file multipart.File, header *multipart.FileHeader, isPublic bool, password string) (*model.File, error) {
	mimeType, err := validation.ValidateUpload(header, validation.DefaultUploadConstraints)
	if errors.Is(err, validation.ErrFileTooLarge) {
		return nil, fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
	}
	if errors.Is(err, validation.ErrFileType) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}
	if err != nil {
		return nil, err
	}

	filename := validation.SanitizeFilename(header.Filename)

	// Storage key is generated, not filename-derived: two uploads with the
	// same name never overwrite each other.
	ext := strings.ToLower(path.Ext(filename))
	storagePath := path.Join("files", uuid.New().String()+ext)

	err = s.storage.Save(storagePath, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	fileModel := &model.File{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Filename:    filename,
		StoragePath: storagePath,
		MimeType:    mimeType,
		Size:        header.Size,
		Public:      isPublic,
		UploadedAt:  time.Now(),
	}

	if password != "" {
		digest, err := hash.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash file password: %w", err)
		}
		fileModel.PasswordHash = &digest
	}

	err = s.fileRepo.Create(fileModel)
	if err != nil {
		// If the insert fails, clean up the blob we just wrote
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Error("failed to delete blob during upload cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	return fileModel, nil
}

// Delete removes the row first, then the blob. The row is the source of
// truth: a blob that cannot be removed is logged, never surfaced.
// There is no admin override for files, unlike notes.
func (s *FileService) Delete(user *model.User, fileID string) error {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return err
	}

	if file.UserID != user.ID {
		return ErrForbidden
	}

	err = s.fileRepo.Delete(fileID)
	if err != nil {
		return err
	}

	err = s.storage.Delete(file.StoragePath)
	if err != nil {
		slog.Warn("failed to delete blob from storage", "error", err, "path", file.StoragePath)
	}

	return nil
}

// Download checks visibility and the optional password gate, then streams
// the blob. ErrPasswordRequired and ErrPasswordIncorrect both carry the file
// so callers can render a challenge; neither releases any bytes.
func (s *FileService) Download(user *model.User, fileID, suppliedPassword string) (*model.File, io.ReadCloser, error) {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return nil, nil, err
	}

	if !file.Public && file.UserID != user.ID {
		return nil, nil, ErrForbidden
	}

	if file.HasPassword() {
		if suppliedPassword == "" {
			return file, nil, ErrPasswordRequired
		}
		if !hash.Verify(*file.PasswordHash, suppliedPassword) {
			return file, nil, ErrPasswordIncorrect
		}
	}

	blob, err := s.storage.Open(file.StoragePath)
	if errors.Is(err, storage.ErrBlobNotFound) {
		slog.Error("file row exists but blob is missing", "file_id", file.ID, "path", file.StoragePath)
		return nil, nil, repository.ErrFileNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return file, blob, nil
}
