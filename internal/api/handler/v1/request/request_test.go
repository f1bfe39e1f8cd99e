package request

import (
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr []string
	}{
		{
			name: "valid student",
			req:  SignupRequest{Username: "ada", Email: "ada@example.com", Password: "secret123"},
		},
		{
			name: "valid teacher",
			req:  SignupRequest{Username: "grace", Email: "grace@example.com", Password: "secret123", Role: "teacher"},
		},
		{
			name:    "missing fields",
			req:     SignupRequest{},
			wantErr: []string{"username", "email", "password"},
		},
		{
			name:    "bad email and admin role",
			req:     SignupRequest{Username: "eve", Email: "not-an-email", Password: "secret123", Role: "admin"},
			wantErr: []string{"email", "role"},
		},
		{
			name:    "password past bcrypt limit",
			req:     SignupRequest{Username: "ada", Email: "ada@example.com", Password: strings.Repeat("x", 72) + "1"},
			wantErr: []string{"password"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if len(tc.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			var fields validation.Errors
			require.ErrorAs(t, err, &fields)
			for _, field := range tc.wantErr {
				assert.Contains(t, fields, field)
			}
			assert.Len(t, fields, len(tc.wantErr))
		})
	}
}

func TestSigninRequest(t *testing.T) {
	req := SigninRequest{Email: "ada@example.com", Password: "secret123"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "ada@example.com", req.Identifier())

	req = SigninRequest{Username: "ada", Login: "other", Password: "secret123"}
	assert.Equal(t, "ada", req.Identifier())

	req = SigninRequest{Password: "secret123"}
	var fields validation.Errors
	require.ErrorAs(t, req.Validate(), &fields)
	assert.Contains(t, fields, "login")

	req = SigninRequest{Login: "ada"}
	require.ErrorAs(t, req.Validate(), &fields)
	assert.Contains(t, fields, "password")
}

func TestGradeRequest_Validate(t *testing.T) {
	zero := 0
	assert.NoError(t, (&GradeRequest{Grade: &zero}).Validate())
	assert.Error(t, (&GradeRequest{Feedback: "good"}).Validate())
}

func TestProfileRequest_Validate(t *testing.T) {
	email := "new@example.com"
	assert.NoError(t, (&ProfileRequest{Email: &email}).Validate())
	assert.NoError(t, (&ProfileRequest{}).Validate())

	bad := "nope"
	assert.Error(t, (&ProfileRequest{Email: &bad}).Validate())

	empty := ""
	assert.Error(t, (&ProfileRequest{Password: &empty}).Validate())

	long := strings.Repeat("x", 73)
	assert.Error(t, (&ProfileRequest{Password: &long}).Validate())
}
