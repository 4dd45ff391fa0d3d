package millennium

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"

	"github.com/tidwall/gjson"
)

// callStatusKinds maps call response statuses to error kinds. Statuses that
// are not listed are decoded as success.
var callStatusKinds = map[int]Kind{
	http.StatusBadRequest:          KindBadParameter,
	http.StatusUnauthorized:        KindLoginFailed,
	http.StatusNotFound:            KindMethodNotFound,
	http.StatusInternalServerError: KindMethodExecFailed,
}

// loginStatusKinds maps failed login statuses to error kinds. Only 200 is
// a success; anything not listed is KindUnexpectedStatus.
var loginStatusKinds = map[int]Kind{
	http.StatusUnauthorized:        KindLoginFailed,
	http.StatusInternalServerError: KindMethodExecFailed,
}

// classifyCall returns the error for a call response, or nil when the body
// should be decoded.
func classifyCall(method string, status int, body []byte) error {
	kind, ok := callStatusKinds[status]
	if !ok {
		return nil
	}
	return statusError(kind, method, status, body)
}

// classifyLogin returns the error for a login response, or nil on success.
func classifyLogin(status int, body []byte) error {
	if status == http.StatusOK {
		return nil
	}
	kind, ok := loginStatusKinds[status]
	if !ok {
		kind = KindUnexpectedStatus
	}
	return statusError(kind, loginMethod, status, body)
}

func statusError(kind Kind, method string, status int, body []byte) *Error {
	e := &Error{Kind: kind, Method: method, StatusCode: status}
	switch kind {
	case KindLoginFailed:
		e.Method = ""
	case KindMethodExecFailed, KindBadParameter, KindUnexpectedStatus:
		e.Message = serverMessage(body)
	}
	return e
}

// serverMessage extracts the error text from a server error envelope.
func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"error.message.value", "error.message", "message"} {
		if msg := gjson.GetBytes(body, path); msg.Exists() && msg.Type == gjson.String {
			return msg.String()
		}
	}
	return ""
}

// connTracker records whether a request ever obtained a connection.
type connTracker struct {
	connected atomic.Bool
}

// trackConn attaches a tracker to ctx. Requests built from the returned
// context report to it once a connection is dialed or reused.
func trackConn(ctx context.Context) (context.Context, *connTracker) {
	t := &connTracker{}
	trace := &httptrace.ClientTrace{
		GotConn: func(httptrace.GotConnInfo) {
			t.connected.Store(true)
		},
	}
	return httptrace.WithClientTrace(ctx, trace), t
}

// transportError classifies a failed round trip. Only a timeout after a
// connection was obtained is KindMethodTimeout; a dial that runs out of
// time is KindNoConnection like any other connection failure.
func transportError(host, method string, connected bool, err error) *Error {
	if connected && isTimeout(err) {
		return &Error{Kind: KindMethodTimeout, Method: method, Host: host, Err: err}
	}
	return &Error{Kind: KindNoConnection, Method: method, Host: host, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
