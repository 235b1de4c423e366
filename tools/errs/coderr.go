package errs

import (
	"errors"
	"strconv"
	"strings"
)

// CodeError is the error shape exchanged with clients: a stable numeric
// code, a short client-visible message, and an optional server-side detail.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

// Connection rejection reasons. Each maps to exactly one of the
// authentication gate's failure paths and is surfaced verbatim to the client.
var (
	ErrAuthRequired = NewCodeError(4001, "authentication required")
	ErrTokenInvalid = NewCodeError(4002, "invalid or expired token")
	ErrUserNotFound = NewCodeError(4003, "user not found")
	ErrUserInactive = NewCodeError(4004, "account is inactive")
)

// Recoverable event errors. The connection stays live.
var (
	ErrBadPayload   = NewCodeError(4400, "invalid payload")
	ErrUnknownEvent = NewCodeError(4404, "unknown event")
)

func (e *CodeError) ECode() int   { return e.Code }
func (e *CodeError) EMsg() string { return e.Msg }

// WithDetail returns a copy carrying additional detail; the original
// sentinel value is never mutated.
func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

// Is matches by code so sentinel comparisons survive WithDetail copies.
func (e *CodeError) Is(err error) bool {
	var ce *CodeError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code == e.Code
}

// AsCodeError unwraps err down to a *CodeError, or nil.
func AsCodeError(err error) *CodeError {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}
