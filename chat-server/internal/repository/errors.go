package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || // postgres
		strings.Contains(s, "UNIQUE constraint") || // sqlite
		strings.Contains(s, "Duplicate entry") // mysql
}
