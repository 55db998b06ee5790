// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/relabs-tech/todoapp/core/access"
	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/events"
	"github.com/relabs-tech/todoapp/core/logger"
	"github.com/relabs-tech/todoapp/core/store"
)

// maxBodySize limits request bodies, user generated code included
const maxBodySize = 32 << 20

// writeTx is a store transaction which also records change notifications
type writeTx struct {
	*store.Tx
	outbox *events.Outbox
}

// changeNotification is the payload of a notification about a created row
type changeNotification struct {
	ID            int64 `json:"id"`
	CreatorUserID int64 `json:"creatorUserId"`
	CreationTime  int64 `json:"creationTime"`
}

// notify records the creation of a row in resource
func (t *writeTx) notify(ctx context.Context, resource string, id, creatorUserID, creationTime int64) error {
	return t.outbox.Record(ctx, t.SQL(), resource, events.OperationCreate, id,
		changeNotification{ID: id, CreatorUserID: creatorUserID, CreationTime: creationTime})
}

func writeEnvelope(w http.ResponseWriter, status int, env api.Envelope) {
	data, _ := json.Marshal(env)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// succeed sends payload in an Ok envelope
func (b *Backend) succeed(w http.ResponseWriter, r *http.Request, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.fail(w, r, fmt.Errorf("cannot marshal response: %w", err))
		return
	}
	writeEnvelope(w, http.StatusOK, api.Envelope{Ok: data})
}

// fail sends err in an Err envelope. Errors which are not api.ErrorKind are
// logged and reported as internal server errors.
func (b *Backend) fail(w http.ResponseWriter, r *http.Request, err error) {
	var kind api.ErrorKind
	if !errors.As(err, &kind) {
		logger.LogEvent(r.Context(), logger.Event{
			Msg:      r.URL.Path + ": " + err.Error(),
			Source:   "backend",
			Severity: logger.SeverityError,
		})
		kind = api.ErrInternalServerError
	} else {
		logger.FromContext(r.Context()).Debugf("%s: %v", r.URL.Path, err)
	}
	writeEnvelope(w, kind.StatusCode(), api.Envelope{Err: kind})
}

// decode validates the request body against the schema with id and
// unmarshals it into props. It returns the api key of the request.
func (b *Backend) decode(w http.ResponseWriter, r *http.Request, schemaID string, props interface{}) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: %v", api.ErrDecodeError, err)
	}
	if err = b.validator.ValidateBytes(body, schemaID); err != nil {
		return "", fmt.Errorf("%w: %v", api.ErrDecodeError, err)
	}
	if err = json.Unmarshal(body, props); err != nil {
		return "", fmt.Errorf("%w: %v", api.ErrDecodeError, err)
	}
	var key struct {
		APIKey string `json:"apiKey"`
	}
	if err = json.Unmarshal(body, &key); err != nil {
		return "", fmt.Errorf("%w: %v", api.ErrDecodeError, err)
	}
	return key.APIKey, nil
}

// authenticate resolves the api key and attaches the user id to the logger
// of the context
func (b *Backend) authenticate(ctx context.Context, apiKey string) (context.Context, api.User, error) {
	user, err := access.Authenticate(ctx, b.auth, apiKey)
	if err != nil {
		return ctx, user, err
	}
	ctx, _ = logger.ContextWithLoggerIdentity(ctx, strconv.FormatInt(user.UserID, 10))
	return ctx, user, nil
}

// transact runs exec in a transaction. Notifications recorded by exec are
// relayed after a successful commit.
func transact[R any](ctx context.Context, b *Backend, exec func(tx *writeTx) (R, error)) (R, error) {
	var zero R
	tx, err := b.store.Begin(ctx)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	row, err := exec(&writeTx{Tx: tx, outbox: b.outbox})
	if err != nil {
		return zero, err
	}
	if err = tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit: %w", err)
	}
	b.outbox.Trigger()
	return row, nil
}

// handleNew registers /public/<entity>/new. Requests are authenticated,
// validated with check and executed with exec in a single transaction. The
// row returned by exec is filled after the commit and sent to the client.
func handleNew[P any, R any, T any](b *Backend, entity string,
	check func(props *P) error,
	exec func(ctx context.Context, tx *writeTx, user api.User, props *P) (R, error),
	fill func(f *filler, ctx context.Context, row R) (T, error)) {

	schemaID := schemaBase + entity + "_new.json"
	b.handlePost("/public/"+entity+"/new", func(w http.ResponseWriter, r *http.Request) {
		var props P
		apiKey, err := b.decode(w, r, schemaID, &props)
		if err != nil {
			b.fail(w, r, err)
			return
		}
		ctx, user, err := b.authenticate(r.Context(), apiKey)
		if err != nil {
			b.fail(w, r, err)
			return
		}
		if err = check(&props); err != nil {
			b.fail(w, r, err)
			return
		}
		row, err := transact(ctx, b, func(tx *writeTx) (R, error) {
			return exec(ctx, tx, user, &props)
		})
		if err != nil {
			b.fail(w, r, err)
			return
		}
		response, err := fill(b.newFiller(), ctx, row)
		if err != nil {
			b.fail(w, r, err)
			return
		}
		b.succeed(w, r, response)
	})
}

// handleView registers /public/<entity>/view. The filter of the request is
// restricted to rows created by the calling user, every matching row is
// filled and the list is sent to the client.
func handleView[F any, R any, T any](b *Backend, entity string,
	page func(filter *F) *api.Page,
	query func(c *store.Conn, ctx context.Context, filter F) ([]R, error),
	creator func(row R) int64,
	fill func(f *filler, ctx context.Context, row R) (T, error)) {

	b.handlePost("/public/"+entity+"/view", func(w http.ResponseWriter, r *http.Request) {
		var filter F
		apiKey, err := b.decode(w, r, schemaBase+"view.json", &filter)
		if err != nil {
			b.fail(w, r, err)
			return
		}
		ctx, user, err := b.authenticate(r.Context(), apiKey)
		if err != nil {
			b.fail(w, r, err)
			return
		}

		// the store applies the default and maximum page size
		page(&filter).CreatorUserID = []int64{user.UserID}

		rows, err := query(b.store.Conn(), ctx, filter)
		if err != nil {
			b.fail(w, r, err)
			return
		}
		f := b.newFiller()
		response := []T{}
		for _, row := range rows {
			if creator(row) != user.UserID {
				continue
			}
			filled, err := fill(f, ctx, row)
			if err != nil {
				b.fail(w, r, err)
				return
			}
			response = append(response, filled)
		}
		b.succeed(w, r, response)
	})
}

// noCheck accepts all requests
func noCheck[P any](*P) error {
	return nil
}

func (b *Backend) handlePost(path string, handler http.HandlerFunc) {
	logger.Default().Debugln("  handle route:", path, "POST")
	methods := []string{http.MethodPost}
	if b.cors {
		methods = append(methods, http.MethodOptions)
	}
	b.router.HandleFunc(path, handler).Methods(methods...)
}
