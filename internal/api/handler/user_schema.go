package handler

import (
	"time"

	"github.com/compliancehub/identity-service/internal/core/domain"
	"github.com/compliancehub/identity-service/internal/core/ports"
)

// registerRequest is the public registration payload. Role is optional and
// defaults to engineer. is_staff is never accepted from the caller.
type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin engineer manager auditor"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// updateUserRequest is a partial update: absent fields are left untouched.
type updateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin engineer manager auditor"`
	IsStaff  *bool   `json:"is_staff,omitempty"`
}

// listUsersQuery captures the query parameters of the listing endpoint.
type listUsersQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Role   string `query:"role" validate:"omitempty,oneof=admin engineer manager auditor"`
	Search string `query:"search"`
}

// userResponse is the public view of an account. Password material is never
// serialized.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// loginResponse mirrors the access/refresh key convention of the login
// endpoint's consumers.
type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    userResponse `json:"user"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type listUsersResponse struct {
	Items      []userResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toListUsersResponse(res *ports.ListUsersResult) listUsersResponse {
	items := make([]userResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, toUserResponse(&res.Items[i]))
	}
	return listUsersResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
}
