package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent generation and validation failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Generation Errors.

	// ErrEmptyPool indicates the parent pool holds no feature vectors.
	ErrEmptyPool = fmt.Errorf("empty parent pool: %w", ErrInvalidInput)

	// ErrMissingFeature indicates a feature vector lacks a required key.
	ErrMissingFeature = fmt.Errorf("missing feature: %w", ErrInvalidInput)

	// ErrUnknownStrategy indicates an unrecognised synthesis strategy.
	ErrUnknownStrategy = fmt.Errorf("unknown synthesis strategy: %w", ErrInvalidInput)

	// Instance Errors.

	// ErrMalformedInstance indicates instance text could not be parsed.
	ErrMalformedInstance = errors.New("malformed instance")

	// ErrInvalidInstance indicates an instance breaks a structural or bounds rule.
	ErrInvalidInstance = errors.New("invalid instance")
)
