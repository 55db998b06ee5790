package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithLoggerKeepsExisting(t *testing.T) {
	ctx, rlog := ContextWithLogger(context.Background())
	id := RequestIDFromContext(ctx)
	assert.NotEmpty(t, id)

	ctx2, rlog2 := ContextWithLogger(ctx)
	assert.Equal(t, rlog, rlog2)
	assert.Equal(t, id, RequestIDFromContext(ctx2))
}

func TestIdentityIsAdded(t *testing.T) {
	ctx, _ := ContextWithLogger(context.Background())
	id := RequestIDFromContext(ctx)

	ctx, rlog := ContextWithLoggerIdentity(ctx, "42")
	assert.Equal(t, "42", rlog.Data[identityLoggerKey])
	assert.Equal(t, id, RequestIDFromContext(ctx))
	assert.Equal(t, rlog, FromContext(ctx))
}

func TestFromContextWithoutLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

func TestAddRequestID(t *testing.T) {
	router := mux.NewRouter()
	AddRequestID(router)
	var seen string
	router.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, seen)
}

func TestLogEvent(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	LogEvent(context.Background(), Event{Msg: "boom", Source: "database", Severity: SeverityError})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "boom", hook.LastEntry().Message)
	assert.Equal(t, "database", hook.LastEntry().Data["source"])
	assert.Equal(t, "error", hook.LastEntry().Data["severity"])
}
