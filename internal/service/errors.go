package service

import "errors"

// Sentinel errors controllers map onto HTTP status codes.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrOwnership = errors.New("resource does not belong to user")
	ErrQuizEmpty = errors.New("quiz has no questions")
)
