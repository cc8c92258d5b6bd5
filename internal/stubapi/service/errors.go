package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/stubapi/repo"
)

var (
	ErrValidation    = errors.New("validation")    // 400
	ErrUnauthorized  = errors.New("unauthorized")  // 401
	ErrNotFound      = errors.New("not found")     // 404
	ErrConflict      = errors.New("conflict")      // 409
	ErrUnprocessable = errors.New("unprocessable") // 422
)

// classify maps storage errors onto the service sentinels.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repo.ErrOutOfStock), errors.Is(err, repo.ErrInactiveVariant):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, repo.ErrEmptyCart):
		return fmt.Errorf("%w: %w", ErrUnprocessable, err)
	case errors.Is(err, repo.ErrTokenRevoked):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return err
}
