// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package client provides easy and fast access to the todo app API

A client either talks to a remote service over HTTP, or directly to the mux
router of an in-process backend. Instead of marshalling HTTP, the in-process
client calls the router with a recorded response. It is perfectly suited for
unit tests.

Every request carries the api key of the client, unless the request props
already contain one.
*/
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/relabs-tech/todoapp/core/api"
)

// Client provides easy access to the REST API.
type Client struct {
	router     *mux.Router
	httpClient *http.Client
	url        string
	apiKey     string
	ctx        context.Context

	defaultHeaders map[string]string
}

// Error is returned for responses with an Err envelope. It unwraps to its
// kind, so errors.Is(err, api.ErrGoalNonexistent) works as expected.
type Error struct {
	Status int
	Kind   api.ErrorKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Kind, e.Status)
}

// Unwrap returns the error kind
func (e *Error) Unwrap() error {
	return e.Kind
}

// NewWithRouter creates a client to make pseudo-REST requests to the backend,
// through the mux router
func NewWithRouter(router *mux.Router) Client {
	return Client{
		router:         router,
		defaultHeaders: map[string]string{},
	}
}

// NewWithURL creates a client to make REST requests to the backend at url
func NewWithURL(url string) Client {
	return Client{
		url:            strings.TrimSuffix(url, "/"),
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		defaultHeaders: map[string]string{},
	}
}

// WithAPIKey returns a new client which authenticates with apiKey
func (c Client) WithAPIKey(apiKey string) Client {
	c.apiKey = apiKey
	return c
}

// WithHeader returns a new client with a default header added
func (c Client) WithHeader(key string, value string) Client {
	headers := map[string]string{key: value}
	for k, v := range c.defaultHeaders {
		if k != key {
			headers[k] = v
		}
	}
	c.defaultHeaders = headers
	return c
}

// WithContext returns a new client with specific request context
func (c Client) WithContext(ctx context.Context) Client {
	c.ctx = ctx
	return c
}

// Context returns the request context of the client
func (c Client) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c Client) do(method, path string, body []byte) (int, []byte, error) {
	r, err := http.NewRequestWithContext(c.Context(), method, c.url+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	for key, value := range c.defaultHeaders {
		r.Header.Add(key, value)
	}

	if c.router != nil {
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, r)
		res := rec.Result()
		return res.StatusCode, rec.Body.Bytes(), nil
	}

	res, err := c.httpClient.Do(r)
	if err != nil {
		return http.StatusInternalServerError, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	return res.StatusCode, resBody, err
}

// RawPost posts body to path and returns the status code. It does not
// interpret the response envelope.
//
// body can also be a []byte, result can also be raw *[]byte.
// result can be nil.
func (c Client) RawPost(path string, body interface{}, result interface{}) (int, error) {
	var err error
	j, ok := body.([]byte)
	if !ok {
		j, err = json.Marshal(body)
		if err != nil {
			return http.StatusBadRequest, fmt.Errorf("POST to %s: %w", path, err)
		}
	}
	status, resBody, err := c.do(http.MethodPost, path, j)
	if err != nil {
		return status, err
	}
	return status, decodeResult(resBody, result)
}

// RawGet gets path and returns the status code. Expects http.StatusOK as response,
// otherwise it will flag an error.
//
// result can also be raw *[]byte. result can be nil.
func (c Client) RawGet(path string, result interface{}) (int, error) {
	status, resBody, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return status, err
	}
	if status != http.StatusOK {
		return status, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, http.StatusOK, strings.TrimSpace(string(resBody)))
	}
	return status, decodeResult(resBody, result)
}

func decodeResult(body []byte, result interface{}) error {
	if len(body) == 0 || result == nil {
		return nil
	}
	if raw, ok := result.(*[]byte); ok {
		*raw = body
		return nil
	}
	return json.Unmarshal(body, result)
}

// Call posts props to path and decodes the Ok payload of the response into
// result. Err envelopes are returned as *Error.
func (c Client) Call(path string, props interface{}, result interface{}) error {
	var envelope api.Envelope
	status, err := c.RawPost(path, props, &envelope)
	if err != nil {
		return err
	}
	if envelope.Err != "" {
		return &Error{Status: status, Kind: envelope.Err}
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d without error", path, status)
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(envelope.Ok, result)
}

// key returns the api key for a request
func (c Client) key(apiKey string) string {
	if apiKey != "" {
		return apiKey
	}
	return c.apiKey
}

func call[R any](c Client, path string, props interface{}) (R, error) {
	var result R
	err := c.Call(path, props, &result)
	return result, err
}

// Info returns the service description
func (c Client) Info() (api.Info, error) {
	return call[api.Info](c, "/public/info", struct{}{})
}

// Version returns the build version of the service
func (c Client) Version() (string, error) {
	var version struct {
		Version string `json:"version"`
	}
	_, err := c.RawGet("/version", &version)
	return version.Version, err
}
