package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugamify/classroom-api/internal/domain"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Put(ctx, CategorySubmission, "Essay.PDF", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "submission/"))
	assert.True(t, strings.HasSuffix(ref, ".pdf"))

	rc, err := store.Open(ctx, ref)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(body))

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Open(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestNewRef_DropsClientPath(t *testing.T) {
	ref := NewRef(CategoryProfile, `..\..\etc/passwd.png`)
	category, name, err := ParseRef(ref)
	require.NoError(t, err)
	assert.Equal(t, CategoryProfile, category)
	assert.NotContains(t, name, "..")
	assert.True(t, strings.HasSuffix(name, ".png"))
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref  string
		kind error
	}{
		{ref: "profile/abc.png"},
		{ref: "coursework/abc"},
		{ref: "secrets/abc.png", kind: domain.ErrInvalidInput},
		{ref: "profile/../x", kind: domain.ErrNotFound},
		{ref: "profile/.hidden", kind: domain.ErrNotFound},
		{ref: "profile", kind: domain.ErrNotFound},
		{ref: "profile/", kind: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			_, _, err := ParseRef(tt.ref)
			if tt.kind == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}
