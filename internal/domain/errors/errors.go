package errors

import "errors"

// Ledger errors. Every one of them aborts the whole operation.
var (
	ErrAlreadyRegistered  = errors.New("merchant already registered")
	ErrNotRegistered      = errors.New("merchant not registered")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidRate        = errors.New("rates cannot be zero")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrNoPointsFound      = errors.New("no points found")
	ErrZeroReward         = errors.New("points amount too low for redemption")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrTransferRejected   = errors.New("token transfer rejected")
	ErrTransferThrottled  = errors.New("token transfer throttled")
	ErrInvalidWallet      = errors.New("invalid wallet")
)

// Wallet account and storage errors.
var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
