package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
