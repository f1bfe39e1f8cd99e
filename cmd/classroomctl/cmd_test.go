package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edugamify/classroom-api/internal/config"
	"github.com/edugamify/classroom-api/internal/domain"
	"github.com/edugamify/classroom-api/internal/repository/dao"
	"github.com/edugamify/classroom-api/internal/testutil"
)

type cliTest struct {
	name    string
	args    []string
	wantErr error
	wantOut string
}

func setup(t *testing.T) (*gorm.DB, func(args ...string) (string, error)) {
	t.Helper()

	conn := testutil.DB(t)
	open := func(*config.AppConfig) (*gorm.DB, error) { return conn, nil }
	missingConfig := filepath.Join(t.TempDir(), "none.yml")

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := newRootCmd(open)
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append(args, "--config", missingConfig))
		err := cmd.ExecuteContext(context.Background())
		return out.String(), err
	}

	return conn, run
}

func TestCommands(t *testing.T) {
	conn, run := setup(t)

	tests := []cliTest{
		{
			name:    "migrate",
			args:    []string{"migrate"},
			wantOut: "tables are up to date",
		},
		{
			name:    "create admin",
			args:    []string{"create-user", "--username", "root", "--email", "root@school.test", "--password", "secret123"},
			wantOut: `created admin "root"`,
		},
		{
			name:    "create student",
			args:    []string{"create-user", "--username", "ada", "--email", "ada@school.test", "--password", "secret123", "--role", "student"},
			wantOut: `created student "ada"`,
		},
		{
			name:    "duplicate username",
			args:    []string{"create-user", "--username", "ada", "--email", "other@school.test", "--password", "secret123"},
			wantErr: domain.ErrUsernameTaken,
		},
		{
			name:    "weak password",
			args:    []string{"create-user", "--username", "bob", "--email", "bob@school.test", "--password", "short"},
			wantErr: domain.ErrWeakPassword,
		},
		{
			name:    "password too long",
			args:    []string{"create-user", "--username", "bob", "--email", "bob@school.test", "--password", strings.Repeat("p", 80) + "1"},
			wantErr: domain.ErrPasswordTooLong,
		},
		{
			name:    "set role",
			args:    []string{"set-role", "ada", "teacher"},
			wantOut: `"ada" is now teacher`,
		},
		{
			name:    "set unknown role",
			args:    []string{"set-role", "ada", "wizard"},
			wantErr: domain.ErrInvalidRole,
		},
		{
			name:    "set role of unknown person",
			args:    []string{"set-role", "nobody", "teacher"},
			wantErr: domain.ErrPersonNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(tc.args...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tc.wantOut)
		})
	}

	t.Run("evaluate trophies", func(t *testing.T) {
		require.NoError(t, conn.Create(&dao.Trophy{Name: "Starter", PointsRequired: 0}).Error)

		out, err := run("evaluate-trophies", "ada")
		require.NoError(t, err)
		assert.Contains(t, out, `ada: granted "Starter"`)

		out, err = run("evaluate-trophies")
		require.NoError(t, err)
		assert.Contains(t, out, `root: granted "Starter"`)
		assert.NotContains(t, out, "ada:")
	})
}
