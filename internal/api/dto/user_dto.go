package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// CreateUserRequest payload. The secret is always the directory default.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Role  string `json:"role" validate:"omitempty,account_role"`
}

// ToInput converts the request to the directory input.
func (r CreateUserRequest) ToInput() domain.AccountInput {
	return domain.AccountInput{
		Email: r.Email,
		Name:  r.Name,
		Phone: r.Phone,
		Role:  domain.Role(r.Role),
	}
}

// PendingResponse acknowledges a submission that commits later.
type PendingResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
