package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
)

// lookupError maps a gorm lookup failure to notFound, and anything else to
// an internal error.
func lookupError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// requiredText trims s and rejects it when blank.
func requiredText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, field+" is required")
	}
	return s, nil
}
