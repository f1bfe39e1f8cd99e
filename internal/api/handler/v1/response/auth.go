package response

import "github.com/edugamify/classroom-api/internal/domain"

type SigninResponse struct {
	Token  string        `json:"token"`
	Person domain.Person `json:"person"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
