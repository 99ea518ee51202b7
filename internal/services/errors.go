package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindClient is malformed or missing input (HTTP 400).
	KindClient Kind = iota + 1
	// KindServer is a store/function failure or anything unexpected (HTTP 500).
	KindServer
	// KindUnauthorized is a failed identity proof (HTTP 401).
	KindUnauthorized
	KindNotFound
)

// Error is the failure variant every service returns. Message is safe to show
// to clients; Err is for logs only.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func ClientError(code, msg string) *Error {
	return &Error{Kind: KindClient, Code: code, Message: msg}
}

func ServerError(code, msg string, err error) *Error {
	return &Error{Kind: KindServer, Code: code, Message: msg, Err: err}
}

func NotFoundError(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: msg, Err: err}
}

func UnauthorizedError(code, msg string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: msg, Err: err}
}

// AsError unwraps err into a service error; anything else becomes a generic
// server error.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return ServerError(CodeInternal, MsgInternal, err)
}

const (
	CodeInternal        = "INTERNAL_ERROR"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNoUserData      = "NO_USER_DATA"
	CodeInvalidUserData = "INVALID_USER_DATA"
	CodeCreateFailed    = "CREATE_FAILED"
	CodeInvalidInitData = "INVALID_INIT_DATA"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeNotFound        = "NOT_FOUND"
	CodeFunction        = "SUPABASE_ERROR"

	MsgInternal        = "Internal server error"
	MsgNoUserData      = "No telegram user data provided"
	MsgInvalidUserData = "Invalid Telegram user data"
	MsgCreateFailed    = "Failed to create user"
	MsgInvalidInitData = "Invalid Telegram init data"
)
