package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid authentication credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrValidation         = errors.New("validation failed")
	ErrNotSaved           = errors.New("assessment computed but not saved")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
