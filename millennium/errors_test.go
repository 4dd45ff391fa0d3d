package millennium

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      *Error
		expected string
	}{
		{&Error{Kind: KindNoConnection, Host: "erp.local"}, "millennium: no access to host erp.local"},
		{&Error{Kind: KindLoginFailed}, "millennium: login failed"},
		{&Error{Kind: KindNotLoggedIn}, "millennium: not logged in"},
		{&Error{Kind: KindMethodExecFailed, Method: "m", Message: "boom"}, "millennium: failed to execute method 'm': boom"},
		{&Error{Kind: KindBadParameter, Method: "m"}, "millennium: invalid parameter for method 'm'"},
		{&Error{Kind: KindMethodNotFound, Method: "m"}, "millennium: method 'm' not found"},
		{&Error{Kind: KindMethodTimeout, Method: "m"}, "millennium: timeout executing method 'm'"},
		{&Error{Kind: KindUnexpectedStatus, Method: "login", StatusCode: 503}, "millennium: unexpected status 503 from method 'login'"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("loading: %w", &Error{Kind: KindMethodNotFound, Method: "m"})

	assert.True(t, errors.Is(err, ErrMethodNotFound))
	assert.True(t, errors.Is(err, ErrProtocol))
	assert.False(t, errors.Is(err, ErrBadParameter))
	assert.Equal(t, KindMethodNotFound, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(errors.New("other")))

	cause := &Error{Kind: KindMethodTimeout, Method: "m", Err: context.DeadlineExceeded}
	assert.True(t, errors.Is(cause, context.DeadlineExceeded))
	assert.Contains(t, cause.Error(), context.DeadlineExceeded.Error())
}

func TestClassifyCall(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusOK, KindUnknown},
		{http.StatusCreated, KindUnknown},
		{http.StatusForbidden, KindUnknown},
		{http.StatusBadRequest, KindBadParameter},
		{http.StatusUnauthorized, KindLoginFailed},
		{http.StatusNotFound, KindMethodNotFound},
		{http.StatusInternalServerError, KindMethodExecFailed},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := classifyCall("m", tt.status, nil)
			assert.Equal(t, tt.kind, KindOf(err))
			if tt.kind == KindUnknown {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClassifyLogin(t *testing.T) {
	assert.NoError(t, classifyLogin(http.StatusOK, nil))
	assert.Equal(t, KindLoginFailed, KindOf(classifyLogin(http.StatusUnauthorized, nil)))
	assert.Equal(t, KindMethodExecFailed, KindOf(classifyLogin(http.StatusInternalServerError, nil)))
	assert.Equal(t, KindUnexpectedStatus, KindOf(classifyLogin(http.StatusForbidden, nil)))
	assert.Equal(t, KindUnexpectedStatus, KindOf(classifyLogin(http.StatusNoContent, nil)))

	for status, kind := range loginStatusKinds {
		assert.NotEqual(t, http.StatusOK, status)
		assert.NotEqual(t, KindUnknown, kind)
	}
}

func TestTransportError(t *testing.T) {
	tests := []struct {
		name      string
		connected bool
		err       error
		kind      Kind
	}{
		{"dial deadline", false, context.DeadlineExceeded, KindNoConnection},
		{"dial refused", false, errors.New("connection refused"), KindNoConnection},
		{"read deadline", true, fmt.Errorf("read: %w", context.DeadlineExceeded), KindMethodTimeout},
		{"canceled", true, context.Canceled, KindNoConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transportError("erp.local", "m", tt.connected, tt.err)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, "erp.local", err.Host)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "X", serverMessage([]byte(`{"error":{"message":{"value":"X"}}}`)))
	assert.Equal(t, "flat", serverMessage([]byte(`{"error":{"message":"flat"}}`)))
	assert.Equal(t, "top", serverMessage([]byte(`{"message":"top"}`)))
	assert.Equal(t, "", serverMessage([]byte(`not json`)))
	assert.Equal(t, "", serverMessage(nil))
}

func TestCredentials(t *testing.T) {
	assert.Equal(t, "ADMIN/S3CRET", credentials("admin", "s3cret"))
}
