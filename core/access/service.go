// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package access

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/logger"
)

// HTTPAuthService talks to the authentication microservice over HTTP
type HTTPAuthService struct {
	url        string
	httpClient *http.Client
}

// NewHTTPAuthService creates an authentication service client for the
// service at baseURL
func NewHTTPAuthService(baseURL string) *HTTPAuthService {
	return &HTTPAuthService{
		url:        strings.TrimSuffix(baseURL, "/") + "/public/api_key/get_user_by_api_key_if_valid",
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// UserByAPIKey implements AuthService
func (s *HTTPAuthService) UserByAPIKey(ctx context.Context, apiKey string) (api.User, error) {
	body, err := json.Marshal(struct {
		APIKey string `json:"apiKey"`
	}{APIKey: apiKey})
	if err != nil {
		return api.User{}, fmt.Errorf("%w: %v", AuthErrBadRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return api.User{}, fmt.Errorf("%w: %v", AuthErrBadRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return api.User{}, fmt.Errorf("%w: %v", AuthErrNetwork, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return api.User{}, fmt.Errorf("%w: %v", AuthErrNetwork, err)
	}

	var envelope struct {
		Ok  *api.User `json:"Ok"`
		Err AuthError `json:"Err"`
	}
	if err = json.Unmarshal(data, &envelope); err != nil {
		logger.FromContext(ctx).Debugf("authentication service replied %d: %s", res.StatusCode, string(data))
		if res.StatusCode == http.StatusMethodNotAllowed {
			return api.User{}, AuthErrMethodNotAllowed
		}
		return api.User{}, fmt.Errorf("%w: cannot decode reply: %v", AuthErrInternalServerError, err)
	}
	if envelope.Err != "" {
		return api.User{}, envelope.Err
	}
	if envelope.Ok == nil {
		return api.User{}, fmt.Errorf("%w: empty reply", AuthErrInternalServerError)
	}
	return *envelope.Ok, nil
}

// StaticAuthService resolves API keys from an in-memory table. It is meant
// for tests and local development.
type StaticAuthService struct {
	mutex sync.RWMutex
	users map[string]api.User
}

// NewStaticAuthService returns an empty static authentication service
func NewStaticAuthService() *StaticAuthService {
	return &StaticAuthService{users: make(map[string]api.User)}
}

// Add registers apiKey for user
func (s *StaticAuthService) Add(apiKey string, user api.User) {
	s.mutex.Lock()
	s.users[apiKey] = user
	s.mutex.Unlock()
}

// UserByAPIKey implements AuthService
func (s *StaticAuthService) UserByAPIKey(ctx context.Context, apiKey string) (api.User, error) {
	s.mutex.RLock()
	user, ok := s.users[apiKey]
	s.mutex.RUnlock()
	if !ok {
		return api.User{}, AuthErrAPIKeyNonexistent
	}
	return user, nil
}
