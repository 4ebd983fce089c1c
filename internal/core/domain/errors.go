package domain

import "errors"

// Account errors.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Token errors. ErrTokenExpired is only returned for tokens whose signature
// checked out; everything else is ErrInvalidToken.
var (
	ErrUnauthorized = errors.New("not authenticated")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Link errors.
var (
	ErrInvalidURL         = errors.New("invalid url")
	ErrLinkNotFound       = errors.New("url not found")
	ErrCodeExists         = errors.New("short code already exists")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique short code")
)

// ErrUnavailable marks persistence or network faults the caller may retry.
var ErrUnavailable = errors.New("service unavailable")
