package millennium

import (
	"errors"
	"fmt"
)

// Kind classifies a ProtocolError.
type Kind int

const (
	// KindUnknown is the zero Kind.
	KindUnknown Kind = iota
	// KindNoConnection indicates the host could not be reached
	KindNoConnection
	// KindLoginFailed indicates the server rejected the credentials or session
	KindLoginFailed
	// KindNotLoggedIn indicates a call was attempted without a session
	KindNotLoggedIn
	// KindMethodExecFailed indicates the server failed while running the method
	KindMethodExecFailed
	// KindBadParameter indicates the server rejected a parameter
	KindBadParameter
	// KindMethodNotFound indicates the method does not exist
	KindMethodNotFound
	// KindMethodTimeout indicates the call did not complete within the timeout
	KindMethodTimeout
	// KindUnexpectedStatus indicates a login answered with an unhandled status
	KindUnexpectedStatus
	// KindInvalidResponse indicates a body that could not be decoded
	KindInvalidResponse
	// KindInvalidConfig indicates invalid client configuration
	KindInvalidConfig
	// KindInvalidVerb indicates a verb other than GET or POST
	KindInvalidVerb
)

// Common errors. Every *Error matches ErrProtocol and the sentinel of its
// Kind with errors.Is.
var (
	// ErrProtocol is the base of every error returned by this package
	ErrProtocol = errors.New("millennium protocol error")

	ErrNoConnection     = errors.New("no connection to host")
	ErrLoginFailed      = errors.New("login failed")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrMethodExecFailed = errors.New("method execution failed")
	ErrBadParameter     = errors.New("bad parameter")
	ErrMethodNotFound   = errors.New("method not found")
	ErrMethodTimeout    = errors.New("method timeout")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidResponse  = errors.New("invalid response")
	ErrInvalidConfig    = errors.New("invalid millennium configuration")
	ErrInvalidVerb      = errors.New("invalid verb")
)

var kindSentinels = map[Kind]error{
	KindNoConnection:     ErrNoConnection,
	KindLoginFailed:      ErrLoginFailed,
	KindNotLoggedIn:      ErrNotLoggedIn,
	KindMethodExecFailed: ErrMethodExecFailed,
	KindBadParameter:     ErrBadParameter,
	KindMethodNotFound:   ErrMethodNotFound,
	KindMethodTimeout:    ErrMethodTimeout,
	KindUnexpectedStatus: ErrUnexpectedStatus,
	KindInvalidResponse:  ErrInvalidResponse,
	KindInvalidConfig:    ErrInvalidConfig,
	KindInvalidVerb:      ErrInvalidVerb,
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNoConnection:
		return "NoConnection"
	case KindLoginFailed:
		return "LoginFailed"
	case KindNotLoggedIn:
		return "NotLoggedIn"
	case KindMethodExecFailed:
		return "MethodExecFailed"
	case KindBadParameter:
		return "BadParameter"
	case KindMethodNotFound:
		return "MethodNotFound"
	case KindMethodTimeout:
		return "MethodTimeout"
	case KindUnexpectedStatus:
		return "UnexpectedStatus"
	case KindInvalidResponse:
		return "InvalidResponse"
	case KindInvalidConfig:
		return "InvalidConfig"
	case KindInvalidVerb:
		return "InvalidVerb"
	default:
		return "Unknown"
	}
}

// Error is the ProtocolError returned by every client operation.
type Error struct {
	Kind Kind
	// Method is the remote method involved, when there is one
	Method string
	// Host is the target host, set for connection failures
	Host string
	// Message is the server supplied error text, when available
	Message    string
	StatusCode int
	// Err is the underlying transport or decode error
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindNoConnection:
		msg = fmt.Sprintf("no access to host %s", e.Host)
	case KindLoginFailed:
		msg = "login failed"
	case KindNotLoggedIn:
		msg = "not logged in"
	case KindMethodExecFailed:
		msg = fmt.Sprintf("failed to execute method '%s': %s", e.Method, e.Message)
	case KindBadParameter:
		msg = fmt.Sprintf("invalid parameter for method '%s'", e.Method)
		if e.Message != "" {
			msg += ": " + e.Message
		}
	case KindMethodNotFound:
		msg = fmt.Sprintf("method '%s' not found", e.Method)
	case KindMethodTimeout:
		msg = fmt.Sprintf("timeout executing method '%s'", e.Method)
	case KindUnexpectedStatus:
		msg = fmt.Sprintf("unexpected status %d from method '%s'", e.StatusCode, e.Method)
	case KindInvalidResponse:
		msg = fmt.Sprintf("invalid response from method '%s'", e.Method)
	case KindInvalidConfig:
		msg = "invalid configuration: " + e.Message
	case KindInvalidVerb:
		msg = fmt.Sprintf("unsupported verb %q", e.Message)
	default:
		msg = "protocol error"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "millennium: " + msg
}

// Is reports whether target is ErrProtocol or the sentinel of e's Kind.
func (e *Error) Is(target error) bool {
	if target == ErrProtocol {
		return true
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout checks if the error is a method timeout
func (e *Error) IsTimeout() bool {
	return e.Kind == KindMethodTimeout
}

// IsNotFound checks if the error indicates a missing method
func (e *Error) IsNotFound() bool {
	return e.Kind == KindMethodNotFound
}

// IsUnauthorized checks if the error indicates rejected credentials or session
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindLoginFailed
}

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnknown
}
