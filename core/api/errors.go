package api

import (
	"net/http"
	"strings"
)

// ErrorKind is the error reported to API clients in the Err envelope
type ErrorKind string

func (e ErrorKind) Error() string {
	return string(e)
}

// all error kinds known to the API
const (
	ErrNoCapability                   ErrorKind = "NO_CAPABILITY"
	ErrGoalNonexistent                ErrorKind = "GOAL_NONEXISTENT"
	ErrGoalDataNonexistent            ErrorKind = "GOAL_DATA_NONEXISTENT"
	ErrGoalEventNonexistent           ErrorKind = "GOAL_EVENT_NONEXISTENT"
	ErrGoalDependencyNonexistent      ErrorKind = "GOAL_DEPENDENCY_NONEXISTENT"
	ErrGoalEntityTagNonexistent       ErrorKind = "GOAL_ENTITY_TAG_NONEXISTENT"
	ErrGoalTemplateNonexistent        ErrorKind = "GOAL_TEMPLATE_NONEXISTENT"
	ErrGoalTemplateDataNonexistent    ErrorKind = "GOAL_TEMPLATE_DATA_NONEXISTENT"
	ErrGoalTemplatePatternNonexistent ErrorKind = "GOAL_TEMPLATE_PATTERN_NONEXISTENT"
	ErrNamedEntityNonexistent         ErrorKind = "NAMED_ENTITY_NONEXISTENT"
	ErrNamedEntityDataNonexistent     ErrorKind = "NAMED_ENTITY_DATA_NONEXISTENT"
	ErrNamedEntityPatternNonexistent  ErrorKind = "NAMED_ENTITY_PATTERN_NONEXISTENT"
	ErrExternalEventNonexistent       ErrorKind = "EXTERNAL_EVENT_NONEXISTENT"
	ErrExternalEventDataNonexistent   ErrorKind = "EXTERNAL_EVENT_DATA_NONEXISTENT"
	ErrTimeUtilityFunctionNonexistent ErrorKind = "TIME_UTILITY_FUNCTION_NONEXISTENT"
	ErrUserGeneratedCodeNonexistent   ErrorKind = "USER_GENERATED_CODE_NONEXISTENT"
	ErrTimeUtilityFunctionNotValid    ErrorKind = "TIME_UTILITY_FUNCTION_NOT_VALID"
	ErrNegativeStartTime              ErrorKind = "NEGATIVE_START_TIME"
	ErrNegativeDuration               ErrorKind = "NEGATIVE_DURATION"
	ErrDecodeError                    ErrorKind = "DECODE_ERROR"
	ErrInternalServerError            ErrorKind = "INTERNAL_SERVER_ERROR"
	ErrMethodNotAllowed               ErrorKind = "METHOD_NOT_ALLOWED"
	ErrUnauthorized                   ErrorKind = "UNAUTHORIZED"
	ErrBadRequest                     ErrorKind = "BAD_REQUEST"
	ErrNotFound                       ErrorKind = "NOT_FOUND"
	ErrNetwork                        ErrorKind = "NETWORK"
	ErrUnknown                        ErrorKind = "UNKNOWN"
)

// StatusCode returns the HTTP status code for the error kind
func (e ErrorKind) StatusCode() int {
	switch {
	case e == ErrTimeUtilityFunctionNotValid,
		e == ErrNegativeStartTime,
		e == ErrNegativeDuration,
		e == ErrDecodeError,
		e == ErrBadRequest:
		return http.StatusBadRequest
	case e == ErrUnauthorized, e == ErrNoCapability:
		return http.StatusUnauthorized
	case e == ErrNotFound, strings.HasSuffix(string(e), "_NONEXISTENT"):
		return http.StatusNotFound
	case e == ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
