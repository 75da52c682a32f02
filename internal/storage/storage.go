// Package storage holds the collaborators around a render: the directory
// that resolves upload tokens and the sinks that keep finished mockups.
package storage

import (
	"context"
	"regexp"

	"github.com/youruser/mockupapp/internal/errs"
)

// Sink persists encoded mockups by id.
type Sink interface {
	// Store saves data and returns where it went.
	Store(ctx context.Context, id string, data []byte) (string, error)
	// Load returns the stored bytes or an error wrapping errs.ErrNotFound.
	Load(ctx context.Context, id string) ([]byte, error)
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// CheckID rejects ids that cannot be used as a file name or key suffix.
func CheckID(id string) error {
	if !validID.MatchString(id) || id == "." || id == ".." {
		return errs.New(errs.CodeInvalidInput, "invalid mockup id %q", id)
	}
	return nil
}

// FileName is the name a mockup is stored under.
func FileName(id string) string { return "mockup_" + id + ".png" }
