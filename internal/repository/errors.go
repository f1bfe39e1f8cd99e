package repository

import (
	"errors"

	"github.com/edugamify/classroom-api/internal/repository/dao"
)

func notFound(err, target error) error {
	if errors.Is(err, dao.ErrRecordNotFound) {
		return target
	}

	return err
}

func conflict(err, target error) error {
	if errors.Is(err, dao.ErrConstraintViolation) {
		return target
	}

	return err
}
