package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var errMissingLogin = errors.New("username or email is required")

// bcrypt ignores anything past 72 bytes.
const maxPasswordBytes = 72

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (req *SignupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Length(3, 32), is.PrintableASCII),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(0, maxPasswordBytes)),
		validation.Field(&req.Role, validation.In("student", "teacher")),
	)
}

// SigninRequest takes either a username or an email. Login covers clients
// that send one field for both.
type SigninRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Login    string `json:"login,omitempty"`
	Password string `json:"password"`
}

func (req *SigninRequest) Validate() error {
	if err := validation.ValidateStruct(req, validation.Field(&req.Password, validation.Required)); err != nil {
		return err
	}
	if req.Identifier() == "" {
		return validation.Errors{"login": errMissingLogin}
	}

	return nil
}

func (req *SigninRequest) Identifier() string {
	switch {
	case req.Username != "":
		return req.Username
	case req.Email != "":
		return req.Email
	default:
		return req.Login
	}
}

// ProfileRequest is bound from JSON or from the text fields of a multipart
// form carrying an avatar.
type ProfileRequest struct {
	Email    *string `json:"email,omitempty" form:"email"`
	Password *string `json:"password,omitempty" form:"password"`
}

func (req *ProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&req.Password, validation.NilOrNotEmpty, validation.Length(0, maxPasswordBytes)),
	)
}
