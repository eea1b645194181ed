package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/stockroom/pkg/domain"
)

// LoginResponse is the token and account returned by a successful login.
type LoginResponse struct {
	Token string
	User  *domain.User
}

// ChangePasswordRequest is the payload for changing the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthService groups the /auth endpoints.
type AuthService struct {
	r resource
}

// Auth returns the authentication endpoints.
func (c *Client) Auth() AuthService {
	return AuthService{r: resource{c: c, base: "/auth"}}
}

// LoginAdmin authenticates against the admin login endpoint.
func (s AuthService) LoginAdmin(ctx context.Context, username, password string) (*LoginResponse, error) {
	resp, err := s.login(ctx, "/admin/login", username, password)
	if err != nil {
		return nil, fmt.Errorf("client.LoginAdmin: %w", err)
	}
	return resp, nil
}

// LoginEmployee authenticates against the employee login endpoint.
func (s AuthService) LoginEmployee(ctx context.Context, username, password string) (*LoginResponse, error) {
	resp, err := s.login(ctx, "/login", username, password)
	if err != nil {
		return nil, fmt.Errorf("client.LoginEmployee: %w", err)
	}
	return resp, nil
}

func (s AuthService) login(ctx context.Context, sub, username, password string) (*LoginResponse, error) {
	body, err := s.r.post(ctx, sub, map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	if err := checkSuccess(body, "Login failed"); err != nil {
		return nil, err
	}
	token, _ := unwrap[string](body, path("data", "token"))
	user, _ := unwrap[*domain.User](body, path("data", "user"))
	if token == "" || user == nil {
		return nil, &APIError{Message: "Invalid response from server"}
	}
	return &LoginResponse{Token: token, User: user}, nil
}

// Logout tells the backend the session is over. The response body is ignored.
func (s AuthService) Logout(ctx context.Context) error {
	if _, err := s.r.post(ctx, "/logout", nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Me returns the authenticated user's profile.
func (s AuthService) Me(ctx context.Context) (*domain.User, error) {
	body, err := s.r.get(ctx, "/me", nil)
	if err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	user, ok := unwrap[*domain.User](body, nested("user")...)
	if !ok || user == nil {
		return nil, fmt.Errorf("client.Me: %w", &APIError{Message: "Invalid response from server"})
	}
	return user, nil
}

// ChangePassword changes the authenticated user's password.
func (s AuthService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	body, err := s.r.put(ctx, "/change-password", req)
	if err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	if err := checkSuccess(body, "Password change failed"); err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	return nil
}
