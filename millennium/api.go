package millennium

import (
	"context"
)

// API defines the interface for Millennium operations
type API interface {
	// Login authenticates and stores the session token
	Login(ctx context.Context, username, password string) error

	// Call invokes a remote method with the given verb
	Call(ctx context.Context, method string, verb Verb, params Params) (*Response, error)

	// Get invokes a remote method with GET
	Get(ctx context.Context, method string, params Params) (*Response, error)

	// Post invokes a remote method with POST
	Post(ctx context.Context, method string, params Params) (*Response, error)
}

var _ API = (*Client)(nil)
