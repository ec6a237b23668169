package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can branch exhaustively
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindCapacityExceeded
	KindCodeGenerationExhausted
	KindFormula
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindCodeGenerationExhausted:
		return "code_generation_exhausted"
	case KindFormula:
		return "formula"
	default:
		return "internal"
	}
}

// Sentinel errors, one per kind. Match with errors.Is.
var (
	ErrValidation              = errors.New("invalid input")
	ErrRoomNotFound            = errors.New("room not found")
	ErrRoomFull                = errors.New("room is at full capacity")
	ErrCodeGenerationExhausted = errors.New("could not generate unique room code")
	ErrFormula                 = errors.New("invalid dice formula")
)

// Error is a classified failure carrying a short, user-presentable message
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports bad caller input
func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message, Err: ErrValidation}
}

// NewRoomNotFoundError reports a missing or expired room
func NewRoomNotFoundError(code RoomCode) error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Room %s not found", code),
		Err:     ErrRoomNotFound,
	}
}

// NewRoomFullError reports a join against a room at capacity
func NewRoomFullError(code RoomCode, capacity int) error {
	return &Error{
		Kind:    KindCapacityExceeded,
		Message: fmt.Sprintf("Room %s is at full capacity (%d players)", code, capacity),
		Err:     ErrRoomFull,
	}
}

// NewCodeGenerationExhaustedError reports that every candidate room code collided
func NewCodeGenerationExhaustedError(attempts int) error {
	return &Error{
		Kind:    KindCodeGenerationExhausted,
		Message: fmt.Sprintf("Could not generate unique room code after %d attempts", attempts),
		Err:     ErrCodeGenerationExhausted,
	}
}

// NewFormulaError reports an unparseable or disallowed dice formula
func NewFormulaError(message string) error {
	return &Error{Kind: KindFormula, Message: message, Err: ErrFormula}
}

// KindOf classifies err. Unclassified errors (store failures, bugs) are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrRoomNotFound):
		return KindNotFound
	case errors.Is(err, ErrRoomFull):
		return KindCapacityExceeded
	case errors.Is(err, ErrCodeGenerationExhausted):
		return KindCodeGenerationExhausted
	case errors.Is(err, ErrFormula):
		return KindFormula
	default:
		return KindInternal
	}
}
