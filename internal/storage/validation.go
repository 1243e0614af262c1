// Package storage provides the data persistence layer for the dashboard client.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evgengiga/dashbord/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidSession = errors.New("invalid session")
	ErrInvalidFilters = errors.New("invalid filters")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("%w: session", ErrNilParameter)
	}
	if strings.TrimSpace(session.Token) == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidSession)
	}
	if strings.TrimSpace(session.UserEmail) == "" {
		return fmt.Errorf("%w: user email is required", ErrInvalidSession)
	}
	return nil
}

func validateFilters(filters model.Filters) error {
	if err := filters.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilters, err)
	}
	return nil
}
