package client

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/todoapp/core/api"
)

// echoRouter answers /public/goal/new with the api key it received and
// fails every other route with GOAL_NONEXISTENT
func echoRouter(t *testing.T) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/public/goal/new", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var props api.GoalNewProps
		require.NoError(t, json.Unmarshal(body, &props))
		w.Write([]byte(`{"Ok":{"goalDataId":7,"name":"` + props.APIKey + `"}}`))
	}).Methods(http.MethodPost)
	router.HandleFunc("/public/goal/view", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"Err":"GOAL_NONEXISTENT"}`))
	}).Methods(http.MethodPost)
	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":"1.2.3"}`))
	}).Methods(http.MethodGet)
	return router
}

func TestCallWithRouter(t *testing.T) {
	c := NewWithRouter(echoRouter(t)).WithAPIKey("client-key")

	goalData, err := c.NewGoal(api.GoalNewProps{Name: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), goalData.GoalDataID)
	assert.Equal(t, "client-key", goalData.Name)

	goalData, err = c.NewGoal(api.GoalNewProps{APIKey: "explicit-key"})
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", goalData.Name)
}

func TestCallReturnsErrorKind(t *testing.T) {
	c := NewWithRouter(echoRouter(t)).WithAPIKey("client-key")

	_, err := c.ViewGoals(api.GoalViewProps{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrGoalNonexistent))

	var clientErr *Error
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, http.StatusNotFound, clientErr.Status)
	assert.Equal(t, api.ErrGoalNonexistent, clientErr.Kind)
}

func TestClientWithURL(t *testing.T) {
	server := httptest.NewServer(echoRouter(t))
	defer server.Close()

	c := NewWithURL(server.URL + "/").WithAPIKey("remote-key")
	goalData, err := c.NewGoal(api.GoalNewProps{})
	require.NoError(t, err)
	assert.Equal(t, "remote-key", goalData.Name)

	version, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version)
}

func TestRawPost(t *testing.T) {
	c := NewWithRouter(echoRouter(t))

	var raw []byte
	status, err := c.RawPost("/public/goal/view", []byte(`{}`), &raw)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"Err":"GOAL_NONEXISTENT"}`, string(raw))

	status, err = c.RawPost("/nowhere", map[string]string{}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	_, err = c.RawGet("/nowhere", nil)
	assert.Error(t, err)
}

func TestWithHeaderDoesNotShareHeaders(t *testing.T) {
	base := NewWithRouter(nil)
	first := base.WithHeader("X-First", "1")
	second := base.WithHeader("X-Second", "2")
	assert.Equal(t, map[string]string{"X-First": "1"}, first.defaultHeaders)
	assert.Equal(t, map[string]string{"X-Second": "2"}, second.defaultHeaders)
	assert.Empty(t, base.defaultHeaders)
}
