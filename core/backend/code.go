package backend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/store"
)

// wasmCacheKeyPrefix prefixes the content keys of compiled user code in the kss
const wasmCacheKeyPrefix = "user_generated_code/"

func (b *Backend) handleCodeRoutes() {
	handleNew(b, "time_utility_function", checkTimeUtilityFunctionNew, execTimeUtilityFunctionNew, (*filler).timeUtilityFunction)
	handleView(b, "time_utility_function",
		func(f *api.TimeUtilityFunctionFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryTimeUtilityFunctions,
		func(tuf store.TimeUtilityFunction) int64 { return tuf.CreatorUserID },
		(*filler).timeUtilityFunction)

	b.handleUserGeneratedCodeNew()
	handleView(b, "user_generated_code",
		func(f *api.UserGeneratedCodeFilter) *api.Page { return &f.Page },
		(*store.Conn).QueryUserGeneratedCode,
		func(ugc store.UserGeneratedCode) int64 { return ugc.CreatorUserID },
		(*filler).userGeneratedCodeRow)
}

func checkTimeUtilityFunctionNew(props *api.TimeUtilityFunctionNewProps) error {
	return validateTimeUtilityFunction(props.StartTimes, props.Utils)
}

func execTimeUtilityFunctionNew(ctx context.Context, tx *writeTx, user api.User, props *api.TimeUtilityFunctionNewProps) (store.TimeUtilityFunction, error) {
	tuf, err := tx.AddTimeUtilityFunction(ctx, user.UserID, props.StartTimes, props.Utils)
	if err != nil {
		return store.TimeUtilityFunction{}, err
	}
	return tuf, tx.notify(ctx, "time_utility_function", tuf.TimeUtilityFunctionID, tuf.CreatorUserID, tuf.CreationTime)
}

// handleUserGeneratedCodeNew registers /public/user_generated_code/new. With a
// kss the compiled artifact is uploaded under its content key before the
// transaction starts, and the row only references it.
func (b *Backend) handleUserGeneratedCodeNew() {
	schemaID := schemaBase + "user_generated_code_new.json"
	b.handlePost("/public/user_generated_code/new", func(w http.ResponseWriter, r *http.Request) {
		var props api.UserGeneratedCodeNewProps
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

		wasmCache, wasmCacheKey := props.WasmCache, ""
		if b.kss != nil {
			sum := sha256.Sum256(props.WasmCache)
			wasmCacheKey = wasmCacheKeyPrefix + hex.EncodeToString(sum[:])
			if err = b.kss.Put(ctx, wasmCacheKey, props.WasmCache); err != nil {
				b.fail(w, r, fmt.Errorf("cannot store compiled code: %w", err))
				return
			}
			wasmCache = nil
		}

		row, err := transact(ctx, b, func(tx *writeTx) (store.UserGeneratedCode, error) {
			ugc, err := tx.AddUserGeneratedCode(ctx, user.UserID, props.SourceCode, props.SourceLang, wasmCache, wasmCacheKey)
			if err != nil {
				return store.UserGeneratedCode{}, err
			}
			return ugc, tx.notify(ctx, "user_generated_code", ugc.UserGeneratedCodeID, ugc.CreatorUserID, ugc.CreationTime)
		})
		if err != nil {
			b.fail(w, r, err)
			return
		}
		response, err := b.newFiller().userGeneratedCodeRow(ctx, row)
		if err != nil {
			b.fail(w, r, err)
			return
		}
		b.succeed(w, r, response)
	})
}
