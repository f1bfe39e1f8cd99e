// Package blob stores uploaded files outside the relational store. Files are
// addressed by references of the form "<category>/<uuid><ext>".
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/edugamify/classroom-api/internal/domain"
)

type Category string

const (
	CategoryProfile    Category = "profile"
	CategoryCoursework Category = "coursework"
	CategorySubmission Category = "submission"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryProfile, CategoryCoursework, CategorySubmission:
		return c, nil
	}

	return "", domain.WithDetail(domain.ErrInvalidBlobCategory, "category", s)
}

type Store interface {
	Put(ctx context.Context, category Category, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// NewRef builds a fresh reference, keeping only the extension of the
// client-supplied name.
func NewRef(category Category, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 16 || strings.ContainsAny(ext, " /") {
		ext = ""
	}

	return string(category) + "/" + uuid.NewString() + ext
}

// ParseRef rejects anything that is not exactly one known category followed
// by a plain file name.
func ParseRef(ref string) (Category, string, error) {
	dir, name, ok := strings.Cut(ref, "/")
	if !ok || name == "" || strings.Contains(name, "/") || strings.HasPrefix(name, ".") {
		return "", "", domain.WithDetail(domain.ErrBlobNotFound, "ref", ref)
	}
	category, err := ParseCategory(dir)
	if err != nil {
		return "", "", fmt.Errorf("ParseCategory -> %w", err)
	}

	return category, name, nil
}
