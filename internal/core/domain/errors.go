package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountLocked = errors.New("account is temporarily locked due to too many failed login attempts")
var ErrDuplicateEmail = errors.New("user already exists with this email")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("password is incorrect")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrMissingToken = errors.New("refresh token is required")
var ErrEmailDelivery = errors.New("email could not be sent")
var ErrValidation = errors.New("validation failed")
