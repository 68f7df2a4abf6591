package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestProfile(t *testing.T) {
	repo := newUserStubRepo()
	auth := NewAuthService(repo, "s", time.Hour)
	res, err := auth.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	svc := NewUserService(repo)
	p, err := svc.Profile(context.Background(), res.UserID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Email != "ada@example.com" || p.FirstName != "Ada" {
		t.Fatalf("unexpected profile %+v", p)
	}

	if _, err := svc.Profile(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
