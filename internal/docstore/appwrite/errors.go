package appwrite

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("appwrite: unauthorized")
	ErrRateLimited  = errors.New("appwrite: rate limited by server")
	ErrServer       = errors.New("appwrite: server error")
)

// APIError is a non-2xx response that has no dedicated sentinel.
type APIError struct {
	Status  int
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("appwrite: %d %s: %s", e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("appwrite: %d: %s", e.Status, e.Message)
}

// Error wraps an underlying error with operation context.
type Error struct {
	Op         string // "list", "get", "create", "update", "file"
	Collection string
	ID         string
	Err        error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("appwrite %s [%s/%s]: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("appwrite %s [%s]: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, collection, id string, err error) error {
	return &Error{Op: op, Collection: collection, ID: id, Err: err}
}
