package domain

import "errors"

// Repository sentinels. Usecases translate these into apperror kinds.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
	// ErrStateChanged means a conditional update matched no row because the
	// record left the expected state first.
	ErrStateChanged = errors.New("resource state changed")
	// ErrNotOwner is returned when an ownership check made under a row lock fails.
	ErrNotOwner = errors.New("resource owned by another account")
)
