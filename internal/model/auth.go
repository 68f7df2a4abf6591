package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are JWT claims for user authentication. The user ID travels
// in the registered "sub" claim.
type UserClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token
func (c *UserClaims) UserID() string {
	return c.Subject
}

// RegisterRequest is the request body for user registration
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Location    string `json:"location"`
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
}

// LoginRequest is the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned after successful registration or login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

// MinPasswordLength matches the registration form
const MinPasswordLength = 8

// Validate checks the fields required to create an account
func (r *RegisterRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.FirstName) == "":
		return errors.New("firstName is required")
	case strings.TrimSpace(r.LastName) == "":
		return errors.New("lastName is required")
	case !strings.Contains(r.Email, "@"):
		return errors.New("a valid email is required")
	case len(r.Password) < MinPasswordLength:
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	case r.Age < 0:
		return errors.New("age must not be negative")
	}
	return nil
}
