package db

import "errors"

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")

	// Admin errors
	ErrAdminNotFound = errors.New("admin user not found")

	// Counselor category errors
	ErrCategoryNotFound  = errors.New("counselor category not found")
	ErrDuplicateCategory = errors.New("counselor category already exists")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionEnded      = errors.New("session already ended")
	ErrDuplicateRoomName = errors.New("room name already exists")
)
