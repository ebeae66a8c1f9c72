package http

import "github.com/roomify-app/roomify-backend/internal/projects/domain"

type saveRequest struct {
	Project    *domain.Project `json:"project"`
	Visibility string          `json:"visibility,omitempty"`
}

type saveResponse struct {
	Saved   bool            `json:"saved"`
	ID      string          `json:"id"`
	Project *domain.Project `json:"project"`
}

type listResponse struct {
	Projects []domain.Project `json:"projects"`
}

type getResponse struct {
	Project *domain.Project `json:"project"`
}
