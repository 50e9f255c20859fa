package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/tokenstore"
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     tokenstore.Store
	HTTPClient *http.Client
	Logger     *logger.Logger

	// OnUnauthorized runs after any 401/403 response, before the error is returned.
	OnUnauthorized func(ctx context.Context)
}

// Client is the single gateway to the platform backend. Every request carries the
// bearer token currently held by the token store.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         tokenstore.Store
	logger         *logger.Logger
	onUnauthorized func(ctx context.Context)
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = tokenstore.NewMemoryStore()
	}
	log := opts.Logger
	if log == nil {
		log = logger.New()
	}

	return &Client{
		baseURL:        opts.BaseURL,
		httpClient:     httpClient,
		tokens:         tokens,
		logger:         log,
		onUnauthorized: opts.OnUnauthorized,
	}
}

func (c *Client) Tokens() tokenstore.Store {
	return c.tokens
}

func (c *Client) Get(endpoint string) *Request {
	return c.newRequest(http.MethodGet, endpoint)
}

func (c *Client) Post(endpoint string) *Request {
	return c.newRequest(http.MethodPost, endpoint)
}

func (c *Client) Patch(endpoint string) *Request {
	return c.newRequest(http.MethodPatch, endpoint)
}

func (c *Client) Delete(endpoint string) *Request {
	return c.newRequest(http.MethodDelete, endpoint)
}

func (c *Client) newRequest(method, endpoint string) *Request {
	return &Request{client: c, method: method, endpoint: endpoint}
}

type Request struct {
	client      *Client
	method      string
	endpoint    string
	headers     map[string]string
	queryParams url.Values
	json        interface{}
	body        io.Reader
}

func (r *Request) Header(key, value string) *Request {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// Param adds a query parameter; empty values are skipped so optional filters
// can be passed through unconditionally.
func (r *Request) Param(key, value string) *Request {
	if value == "" {
		return r
	}
	if r.queryParams == nil {
		r.queryParams = url.Values{}
	}
	r.queryParams.Add(key, value)
	return r
}

func (r *Request) Json(data interface{}) *Request {
	r.json = data
	return r
}

func (r *Request) Body(body io.Reader, contentType string) *Request {
	r.body = body
	return r.Header("Content-Type", contentType)
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// Do sends the request and decodes the envelope's data (or, when the envelope has
// no data field, the whole body) into result.
func (r *Request) Do(ctx context.Context, result interface{}) error {
	fullEndpoint, err := url.JoinPath(r.client.baseURL, r.endpoint)
	if err != nil {
		return fmt.Errorf("error formatting url for endpoint %v: %w", r.endpoint, err)
	}

	body := r.body
	if r.json != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(r.json); err != nil {
			return fmt.Errorf("error encoding json body for endpoint %v: %w", r.endpoint, err)
		}
		body = buf
		r.Header("Content-Type", "application/json")
	}

	req, err := http.NewRequestWithContext(ctx, r.method, fullEndpoint, body)
	if err != nil {
		return fmt.Errorf("error creating %v request for endpoint %v: %w", r.method, r.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.queryParams != nil {
		req.URL.RawQuery = r.queryParams.Encode()
	}

	token, err := r.client.tokens.Get(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	res, err := r.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending %v request to endpoint %v: %w", r.method, r.endpoint, err)
	}
	defer res.Body.Close()

	r.client.logger.Debug("[GATEWAY] %s %s -> %d (%s)", r.method, r.endpoint, res.StatusCode, time.Since(start))

	content, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("error reading %v response from endpoint %v: %w", r.method, r.endpoint, err)
	}

	var env envelope
	parsed := json.Unmarshal(content, &env) == nil

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &Error{Method: r.method, Endpoint: r.endpoint, Status: res.StatusCode}
		if parsed {
			apiErr.Message = env.text()
		}
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
			r.client.logger.Warn("[GATEWAY] %s %s rejected credentials (%d)", r.method, r.endpoint, res.StatusCode)
			if r.client.onUnauthorized != nil {
				r.client.onUnauthorized(ctx)
			}
		}
		return apiErr
	}

	if !parsed || env.Success == nil || !*env.Success {
		return &Error{
			Method:   r.method,
			Endpoint: r.endpoint,
			Status:   res.StatusCode,
			Message:  env.text(),
			Err:      ErrUnsuccessful,
		}
	}

	if result == nil {
		return nil
	}

	payload := []byte(env.Data)
	if len(env.Data) == 0 || string(env.Data) == "null" {
		payload = content
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return fmt.Errorf("error parsing %v response from endpoint %v: %w", r.method, r.endpoint, err)
	}
	return nil
}
