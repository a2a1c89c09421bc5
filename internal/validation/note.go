package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxNoteTitleLength   = 100
	MaxNoteContentLength = 5000
)

var ErrNoteInvalid = errors.New("invalid note")

// strictPolicy strips all markup; script and style contents are dropped
// entirely, remaining text is entity-escaped.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText neutralizes markup in user-supplied text before storage.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// ValidateNote checks already-sanitized title and content against the note
// field rules. Lengths are counted in characters, not bytes.
func ValidateNote(title, content string) error {
	if title == "" || content == "" {
		return fmt.Errorf("%w: title and content are required", ErrNoteInvalid)
	}

	if utf8.RuneCountInString(title) > MaxNoteTitleLength {
		return fmt.Errorf("%w: title exceeds maximum length of %d characters", ErrNoteInvalid, MaxNoteTitleLength)
	}

	if utf8.RuneCountInString(content) > MaxNoteContentLength {
		return fmt.Errorf("%w: content exceeds maximum length of %d characters", ErrNoteInvalid, MaxNoteContentLength)
	}

	return nil
}
