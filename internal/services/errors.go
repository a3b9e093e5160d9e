package services

import (
	"errors"

	"crowdfund/internal/apperr"

	"gorm.io/gorm"
)

// lookupError turns a missing row into code and anything else into a
// persistence error.
func lookupError(err error, code apperr.Code, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(code, format, args...)
	}
	return apperr.Persistence(err, "lookup failed")
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
