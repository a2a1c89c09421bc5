package model

import (
	"time"
)

type File struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Filename     string    `db:"filename" json:"filename"` // sanitized display name
	StoragePath  string    `db:"storage_path" json:"storage_path"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	Size         int64     `db:"size" json:"size"`
	Public       bool      `db:"public" json:"public"` // true = any authenticated user may download
	PasswordHash *string   `db:"password_hash" json:"-"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// HasPassword reports whether downloads are gated behind a password challenge.
func (f *File) HasPassword() bool {
	return f.PasswordHash != nil && *f.PasswordHash != ""
}
