package services

import (
	"errors"

	"blog/database"
)

// ValidationError reports malformed or missing input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that the addressed entity does not exist
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ForbiddenError reports that the caller may not act on the entity
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// ConflictError reports a uniqueness violation
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// UnauthorizedError reports bad credentials
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// translate maps store sentinels into service errors for resource.
func translate(err error, resource string) error {
	if errors.Is(err, database.ErrNotFound) {
		return &NotFoundError{Resource: resource}
	}
	return err
}
