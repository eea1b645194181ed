package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// UserListParams filters the user list.
type UserListParams struct {
	Page
	Search string
	Role   domain.Role
	Active *bool
}

func (p UserListParams) encode() url.Values {
	return newQuery().
		str("search", p.Search).
		str("role", string(p.Role)).
		bool("isActive", p.Active).
		page(p.Page).
		values()
}

// CreateUserRequest is the payload for creating an account.
type CreateUserRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Password string      `json:"password"`
	FullName string      `json:"fullName,omitempty"`
	Role     domain.Role `json:"role"`
}

// UpdateUserRequest patches account fields. Empty fields are left unchanged.
type UpdateUserRequest struct {
	Email    string      `json:"email,omitempty"`
	FullName string      `json:"fullName,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// UserStats are derived from a user listing.
type UserStats struct {
	Total     int
	Active    int
	Inactive  int
	Admins    int
	Employees int
}

// ComputeUserStats counts users by state and role.
func ComputeUserStats(users []domain.User) UserStats {
	st := UserStats{Total: len(users)}
	for _, u := range users {
		if u.IsActive {
			st.Active++
		} else {
			st.Inactive++
		}
		switch u.Role {
		case domain.RoleAdmin:
			st.Admins++
		case domain.RoleEmployee:
			st.Employees++
		}
	}
	return st
}

// UserList is a page of users plus stats over that page.
type UserList struct {
	Users      []domain.User
	Pagination domain.Pagination
	Stats      UserStats
}

// UsersService groups the /users endpoints. All of them require an admin token.
type UsersService struct {
	r resource
}

// Users returns the user management endpoints.
func (c *Client) Users() UsersService {
	return UsersService{r: resource{c: c, base: "/users"}}
}

var userChain = nested("user")

// List fetches users matching p.
func (s UsersService) List(ctx context.Context, p UserListParams) (*UserList, error) {
	body, err := s.r.get(ctx, "", p.encode())
	if err != nil {
		return nil, fmt.Errorf("client.Users.List: %w", err)
	}
	users := unwrapList[domain.User](body, listOf("users")...)
	return &UserList{
		Users:      users,
		Pagination: unwrapOr(body, domain.Pagination{}, paginationChain...),
		Stats:      ComputeUserStats(users),
	}, nil
}

// ByID fetches one user.
func (s UsersService) ByID(ctx context.Context, userID string) (*domain.User, error) {
	body, err := s.r.get(ctx, id(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("client.Users.ByID: %w", err)
	}
	u := unwrapOr(body, domain.User{}, userChain...)
	return &u, nil
}

// Create adds an account.
func (s UsersService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	body, err := s.r.post(ctx, "", req)
	if err != nil {
		return nil, fmt.Errorf("client.Users.Create: %w", err)
	}
	if err := checkSuccess(body, "Failed to create user"); err != nil {
		return nil, fmt.Errorf("client.Users.Create: %w", err)
	}
	u := unwrapOr(body, domain.User{}, userChain...)
	return &u, nil
}

// Update patches an account.
func (s UsersService) Update(ctx context.Context, userID string, req UpdateUserRequest) (*domain.User, error) {
	body, err := s.r.put(ctx, id(userID), req)
	if err != nil {
		return nil, fmt.Errorf("client.Users.Update: %w", err)
	}
	u := unwrapOr(body, domain.User{}, userChain...)
	return &u, nil
}

// SetActive activates or deactivates an account.
func (s UsersService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	body, err := s.r.patch(ctx, id(userID)+"/status", map[string]bool{"isActive": active})
	if err != nil {
		return nil, fmt.Errorf("client.Users.SetActive: %w", err)
	}
	u := unwrapOr(body, domain.User{}, userChain...)
	return &u, nil
}

// Delete removes an account.
func (s UsersService) Delete(ctx context.Context, userID string) error {
	if _, err := s.r.delete(ctx, id(userID)); err != nil {
		return fmt.Errorf("client.Users.Delete: %w", err)
	}
	return nil
}

// ResetPassword sets a new password for another account.
func (s UsersService) ResetPassword(ctx context.Context, userID, password string) error {
	body, err := s.r.put(ctx, id(userID)+"/password", map[string]string{"newPassword": password})
	if err != nil {
		return fmt.Errorf("client.Users.ResetPassword: %w", err)
	}
	if err := checkSuccess(body, "Failed to reset password"); err != nil {
		return fmt.Errorf("client.Users.ResetPassword: %w", err)
	}
	return nil
}
