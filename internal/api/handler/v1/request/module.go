package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateModuleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TeacherID   *uint  `json:"teacher_id,omitempty"`
}

func (req *CreateModuleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
	)
}

// CreateResourceRequest is bound from a multipart form; the file part is
// read separately.
type CreateResourceRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

func (req *CreateResourceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
	)
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	DueAt       string `json:"due_at,omitempty"`
}

func (req *CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
	)
}
