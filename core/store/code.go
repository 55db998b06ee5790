package store

import (
	"context"

	"github.com/relabs-tech/todoapp/core/api"
)

// TimeUtilityFunction is an immutable step function mapping time to
// utility. StartTimes and Utils have equal length.
type TimeUtilityFunction struct {
	TimeUtilityFunctionID int64
	CreationTime          int64
	CreatorUserID         int64
	StartTimes            []int64
	Utils                 []int64
}

// UserGeneratedCode is immutable user source code with its compiled
// artifact. The artifact is either stored inline in WasmCache or, if
// WasmCacheKey is set, in the key storage service under that key.
type UserGeneratedCode struct {
	UserGeneratedCodeID int64
	CreationTime        int64
	CreatorUserID       int64
	SourceCode          string
	SourceLang          string
	WasmCache           []byte
	WasmCacheKey        string
}

var (
	timeUtilityFunctionTable = table{name: "time_utility_function", alias: "tuf", columns: []string{
		"time_utility_function_id", "creation_time", "creator_user_id", "start_times", "utils"}}
	userGeneratedCodeTable = table{name: "user_generated_code", alias: "ugc", columns: []string{
		"user_generated_code_id", "creation_time", "creator_user_id", "source_code", "source_lang",
		"wasm_cache", "wasm_cache_key"}}
)

func (c *Conn) scanTimeUtilityFunction(s scanner) (TimeUtilityFunction, error) {
	var f TimeUtilityFunction
	err := s.Scan(&f.TimeUtilityFunctionID, &f.CreationTime, &f.CreatorUserID,
		c.int64Array(&f.StartTimes), c.int64Array(&f.Utils))
	return f, err
}

func scanUserGeneratedCode(s scanner) (UserGeneratedCode, error) {
	var u UserGeneratedCode
	err := s.Scan(&u.UserGeneratedCodeID, &u.CreationTime, &u.CreatorUserID, &u.SourceCode,
		&u.SourceLang, &u.WasmCache, &u.WasmCacheKey)
	if u.WasmCache == nil {
		u.WasmCache = []byte{}
	}
	return u, err
}

// AddTimeUtilityFunction creates a time utility function. The caller
// guarantees that startTimes and utils have the same length.
func (c *Conn) AddTimeUtilityFunction(ctx context.Context, creatorUserID int64, startTimes, utils []int64) (TimeUtilityFunction, error) {
	f := TimeUtilityFunction{
		CreationTime:  c.now(),
		CreatorUserID: creatorUserID,
		StartTimes:    startTimes,
		Utils:         utils,
	}
	id, err := c.insert(ctx, timeUtilityFunctionTable, f.CreationTime, f.CreatorUserID,
		c.int64Array(&f.StartTimes), c.int64Array(&f.Utils))
	f.TimeUtilityFunctionID = id
	return f, err
}

// TimeUtilityFunctionByID returns the time utility function with id, or nil
func (c *Conn) TimeUtilityFunctionByID(ctx context.Context, id int64) (*TimeUtilityFunction, error) {
	return byID(ctx, c, timeUtilityFunctionTable, id, c.scanTimeUtilityFunction)
}

// QueryTimeUtilityFunctions returns the time utility functions matching f
func (c *Conn) QueryTimeUtilityFunctions(ctx context.Context, f api.TimeUtilityFunctionFilter) ([]TimeUtilityFunction, error) {
	q := newSelect(c.db, timeUtilityFunctionTable)
	q.page(f.TimeUtilityFunctionID, f.Page)
	return list(ctx, c, q, c.scanTimeUtilityFunction)
}

// AddUserGeneratedCode stores user code. Either wasmCache or wasmCacheKey is expected to be set.
func (c *Conn) AddUserGeneratedCode(ctx context.Context, creatorUserID int64, sourceCode, sourceLang string,
	wasmCache []byte, wasmCacheKey string) (UserGeneratedCode, error) {
	if wasmCache == nil {
		wasmCache = []byte{}
	}
	u := UserGeneratedCode{
		CreationTime:  c.now(),
		CreatorUserID: creatorUserID,
		SourceCode:    sourceCode,
		SourceLang:    sourceLang,
		WasmCache:     wasmCache,
		WasmCacheKey:  wasmCacheKey,
	}
	id, err := c.insert(ctx, userGeneratedCodeTable, u.CreationTime, u.CreatorUserID, u.SourceCode,
		u.SourceLang, u.WasmCache, u.WasmCacheKey)
	u.UserGeneratedCodeID = id
	return u, err
}

// UserGeneratedCodeByID returns the user generated code with id, or nil
func (c *Conn) UserGeneratedCodeByID(ctx context.Context, id int64) (*UserGeneratedCode, error) {
	return byID(ctx, c, userGeneratedCodeTable, id, scanUserGeneratedCode)
}

// QueryUserGeneratedCode returns the user generated code matching f
func (c *Conn) QueryUserGeneratedCode(ctx context.Context, f api.UserGeneratedCodeFilter) ([]UserGeneratedCode, error) {
	q := newSelect(c.db, userGeneratedCodeTable)
	q.page(f.UserGeneratedCodeID, f.Page)
	in(q, "source_lang", f.SourceLang)
	return list(ctx, c, q, scanUserGeneratedCode)
}
