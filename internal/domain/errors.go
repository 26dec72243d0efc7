package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence")
	ErrNoData       = errors.New("no data")

	ErrEmptyCart = fmt.Errorf("cart is empty: %w", ErrValidation)
)
