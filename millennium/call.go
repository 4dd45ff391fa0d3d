package millennium

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/s0up4200/millennium/codec"
)

// Verb is the HTTP verb of a call.
type Verb string

const (
	// VerbGet reads data; parameters travel in the query string
	VerbGet Verb = http.MethodGet
	// VerbPost sends data; parameters travel in a JSON body
	VerbPost Verb = http.MethodPost
)

// ParseVerb parses a verb case-insensitively.
func ParseVerb(s string) (Verb, error) {
	switch v := Verb(strings.ToUpper(strings.TrimSpace(s))); v {
	case VerbGet, VerbPost:
		return v, nil
	default:
		return "", &Error{Kind: KindInvalidVerb, Message: s}
	}
}

// Params are the caller supplied parameters of a call. Date-time values
// (time.Time or *time.Time) are sent in the server's parameter layout.
type Params map[string]any

// Record is a decoded JSON object.
type Record = codec.Record

// Get calls method with VerbGet.
func (c *Client) Get(ctx context.Context, method string, params Params) (*Response, error) {
	return c.Call(ctx, method, VerbGet, params)
}

// Post calls method with VerbPost.
func (c *Client) Post(ctx context.Context, method string, params Params) (*Response, error) {
	return c.Call(ctx, method, VerbPost, params)
}

// Call invokes a remote method.
//
// GET calls send params as query parameters next to $format=json and
// $dateformat=iso. POST calls send params as a JSON body and only
// $format=json in the query string. Every failure is returned as *Error;
// nothing is retried.
func (c *Client) Call(ctx context.Context, method string, verb Verb, params Params) (*Response, error) {
	s := c.session.Load()
	if s == nil {
		return nil, &Error{Kind: KindNotLoggedIn, Method: method}
	}
	if verb != VerbGet && verb != VerbPost {
		return nil, &Error{Kind: KindInvalidVerb, Method: method, Message: string(verb)}
	}
	method = strings.Trim(method, "/")
	if method == "" {
		return nil, &Error{Kind: KindInvalidConfig, Message: "method name is required"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ctx, conn := trackConn(ctx)

	req, err := newCallRequest(ctx, s, method, verb, params)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.opts.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("method", method).
			Str("verb", string(verb)).
			Dur("duration", time.Since(start)).
			Msg("Millennium API request failed")
		return nil, transportError(s.host, method, conn.connected.Load(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(s.host, method, conn.connected.Load(), err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("verb", string(verb)).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Millennium API response")

	if err := classifyCall(method, resp.StatusCode, body); err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, &Error{Kind: KindInvalidResponse, Method: method, StatusCode: resp.StatusCode}
	}

	return newResponse(verb, resp.StatusCode, body), nil
}

func newCallRequest(ctx context.Context, s *session, method string, verb Verb, params Params) (*http.Request, error) {
	query := url.Values{"$format": {"json"}}
	var body io.Reader

	switch verb {
	case VerbGet:
		query.Set("$dateformat", "iso")
		for k, v := range params {
			query.Del(k)
			for _, value := range codec.QueryValues(v) {
				query.Add(k, value)
			}
		}
	case VerbPost:
		payload, err := json.Marshal(codec.EncodeParams(params))
		if err != nil {
			return nil, &Error{Kind: KindBadParameter, Method: method, Message: "parameters are not JSON serializable", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	requestURL := fmt.Sprintf("%s/%s?%s", s.baseURL, method, query.Encode())
	req, err := http.NewRequestWithContext(ctx, string(verb), requestURL, body)
	if err != nil {
		return nil, &Error{Kind: KindInvalidConfig, Method: method, Message: "failed to create request", Err: err}
	}

	req.Header.Set(HeaderSession, s.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
