package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type DeliverRequest struct {
	Content string `form:"content" json:"content"`
}

type GradeRequest struct {
	Grade    *int   `json:"grade"`
	Feedback string `json:"feedback"`
}

func (req *GradeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Grade, validation.NotNil),
	)
}

type PlayRequest struct {
	Score *int `json:"score"`
}

func (req *PlayRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Score, validation.NotNil),
	)
}
