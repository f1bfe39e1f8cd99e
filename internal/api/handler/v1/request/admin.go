package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

func (req *ChangeRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required),
	)
}

type CreateTrophyRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	PointsRequired *int   `json:"points_required"`
}

func (req *CreateTrophyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.PointsRequired, validation.NotNil),
	)
}

type CreateActivityRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PointsPerPlay *int   `json:"points_per_play"`
}

func (req *CreateActivityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.PointsPerPlay, validation.NotNil),
	)
}
