package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Token is the opaque bearer token returned by Login.
type Token string

// Client talks to the library API over a caller-provided HTTP client.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// NewClient creates a new API client.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, cfg: cfg.withDefaults()}
}

func (c *Client) endpoint(path string, query url.Values) string {
	query.Set("lang", c.cfg.Language)
	return strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + query.Encode()
}

// Login posts form-encoded credentials and returns the bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	form := url.Values{
		"authenticationProfile": {c.cfg.AuthProfile},
		"username":              {username},
		"password":              {password},
		"institution":           {c.cfg.Institution},
		"view":                  {c.cfg.View},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/primaws/suprimaLogin", url.Values{}), strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthenticationError{Reason: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	var body map[string]any
	if err := c.do(req, "login", &body); err != nil {
		return "", &AuthenticationError{Reason: "login request", Err: err}
	}

	raw, ok := body["jwtData"]
	if !ok || raw == nil {
		return "", &AuthenticationError{Reason: "jwtData missing"}
	}
	token := strings.Trim(fmt.Sprint(raw), `"`)
	if token == "" {
		return "", &AuthenticationError{Reason: "jwtData missing"}
	}
	return Token(token), nil
}

// ListLoans returns the raw loan listing of the authenticated patron.
func (c *Client) ListLoans(ctx context.Context, token Token) (map[string]any, error) {
	query := url.Values{
		"bulk":   {strconv.Itoa(c.cfg.PageSize)},
		"offset": {"1"},
		"type":   {"active"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint("/primaws/rest/priv/myaccount/loans", query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+string(token))

	var body map[string]any
	if err := c.do(req, "list loans", &body); err != nil {
		return nil, err
	}
	return body, nil
}

// RenewLoan asks the API to renew loanID and returns the raw response.
func (c *Client) RenewLoan(ctx context.Context, token Token, loanID string) (map[string]any, error) {
	payload, err := json.Marshal(map[string]string{"id": loanID})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/primaws/rest/priv/myaccount/renew_loans", url.Values{}), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+string(token))
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")

	var body map[string]any
	if err := c.do(req, "renew loan", &body); err != nil {
		return nil, err
	}
	return body, nil
}

// do executes req and decodes a JSON object body, keeping numbers exact.
func (c *Client) do(req *http.Request, op string, target *map[string]any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return fmt.Errorf("%s: expected a JSON object, got %T", op, decoded)
	}
	*target = obj
	return nil
}
