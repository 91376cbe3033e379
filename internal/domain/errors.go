package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrFireAlreadyActive   = errors.New("a fire is already burning")
	ErrNoActiveFire        = errors.New("no active fire")
	ErrMultipleActiveFires = errors.New("more than one active fire")
	ErrAccountExists       = errors.New("account already exists")
	ErrSetupRequired       = errors.New("setup required")
)
