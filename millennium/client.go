package millennium

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Wire protocol constants.
const (
	HeaderAuthorization = "WTS-Authorization"
	HeaderSession       = "WTS-Session"

	loginMethod = "login"
	apiPath     = "/api"
)

// session is the state established by a successful login. It is never
// modified after creation; a new login replaces it as a whole.
type session struct {
	host     string
	protocol string
	baseURL  string
	timeout  time.Duration
	token    string
}

// Client is a Millennium API client. The zero value is not usable; create
// clients with New or Login.
//
// A Client is safe for concurrent use. Login swaps the session atomically,
// so a call observes either the previous session or the new one.
type Client struct {
	host       string
	opts       clientOptions
	httpClient *http.Client
	logger     zerolog.Logger
	session    atomic.Pointer[session]
}

// New creates a client for host (host name with optional port, no scheme).
// The client has no session until Login succeeds.
func New(host string, opts ...Option) (*Client, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, &Error{Kind: KindInvalidConfig, Message: "host is required"}
	}
	if strings.Contains(host, "://") {
		return nil, &Error{Kind: KindInvalidConfig, Message: fmt.Sprintf("host %q must not include a scheme", host)}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if o.insecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		httpClient = &http.Client{Transport: transport}
	}

	return &Client{
		host:       host,
		opts:       o,
		httpClient: httpClient,
		logger:     o.logger.With().Str("component", "millennium").Str("host", host).Logger(),
	}, nil
}

// Login creates a client for host and logs in with the given credentials.
func Login(ctx context.Context, host, username, password string, opts ...Option) (*Client, error) {
	client, err := New(host, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx, username, password); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) protocol() string {
	if c.opts.useTLS {
		return "https"
	}
	return "http"
}

// BaseURL returns the API root, protocol://host/api.
func (c *Client) BaseURL() string {
	if s := c.session.Load(); s != nil {
		return s.baseURL
	}
	return c.protocol() + "://" + c.host + apiPath
}

// Host returns the target host.
func (c *Client) Host() string {
	return c.host
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.opts.timeout
}

// LoggedIn reports whether the client holds a session.
func (c *Client) LoggedIn() bool {
	return c.session.Load() != nil
}

// Session returns the current session token, or "" before a successful login.
func (c *Client) Session() string {
	if s := c.session.Load(); s != nil {
		return s.token
	}
	return ""
}

// Logout drops the local session. The server is not contacted.
func (c *Client) Logout() {
	c.session.Store(nil)
}

// credentials renders the authorization header value. The Millennium
// protocol requires both parts upper-cased.
func credentials(username, password string) string {
	return strings.ToUpper(username) + "/" + strings.ToUpper(password)
}

// Login authenticates against the server and stores the session token.
//
// A 401 answer clears any session the client held before. Other failures
// leave the previous session in place.
func (c *Client) Login(ctx context.Context, username, password string) error {
	s := &session{
		host:     c.host,
		protocol: c.protocol(),
		baseURL:  c.protocol() + "://" + c.host + apiPath,
		timeout:  c.opts.timeout,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, conn := trackConn(ctx)

	query := url.Values{"$format": {"json"}}
	requestURL := fmt.Sprintf("%s/%s?%s", s.baseURL, loginMethod, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return &Error{Kind: KindInvalidConfig, Message: "failed to create login request", Err: err}
	}
	req.Header.Set(HeaderAuthorization, credentials(username, password))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Millennium login request failed")
		return transportError(c.host, loginMethod, conn.connected.Load(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(c.host, loginMethod, conn.connected.Load(), err)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Millennium login response")

	if err := classifyLogin(resp.StatusCode, body); err != nil {
		if resp.StatusCode == http.StatusUnauthorized {
			c.session.Store(nil)
		}
		return err
	}

	if !gjson.ValidBytes(body) {
		return &Error{Kind: KindInvalidResponse, Method: loginMethod, StatusCode: resp.StatusCode}
	}
	token := gjson.GetBytes(body, "session")
	if token.String() == "" {
		return &Error{Kind: KindInvalidResponse, Method: loginMethod, StatusCode: resp.StatusCode, Message: "missing session token"}
	}

	s.token = token.String()
	c.session.Store(s)

	c.logger.Debug().Msg("Logged in to Millennium")
	return nil
}
