package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"sarana/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	assert.Equal(t, "test error message", f.Error())
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "InvalidPageParam",
			failure: failure.InvalidPageParam,
			code:    http.StatusBadRequest,
			message: "invalid page parameter",
		},
		{
			name:    "InvalidLimitParam",
			failure: failure.InvalidLimitParam,
			code:    http.StatusBadRequest,
			message: "invalid limit parameter",
		},
		{
			name:    "ForbiddenError",
			failure: failure.ForbiddenError,
			code:    http.StatusForbidden,
			message: "You don't have the required permissions",
		},
		{
			name:    "ResourceRestrictedError",
			failure: failure.ResourceRestrictedError,
			code:    http.StatusForbidden,
			message: "You don't have permission to access this resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.failure.Code)
			assert.Equal(t, tt.message, tt.failure.Message)
		})
	}
}

func TestBadRequest(t *testing.T) {
	assert.Nil(t, failure.BadRequest(nil))

	err := failure.BadRequest(errors.New("validation failed"))

	var f *failure.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, http.StatusBadRequest, f.Code)
	assert.Equal(t, "validation failed", f.Message)
	assert.Equal(t, failure.KindBadRequest, f.Kind)
}

func TestDomainFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		kind    failure.Kind
		details map[string]any
		field   string
	}{
		{
			name:    "validation carries field and reason",
			err:     failure.Validation("start_time", "start_time must be before end_time"),
			code:    http.StatusBadRequest,
			kind:    failure.KindValidation,
			details: map[string]any{"field": "start_time", "reason": "start_time must be before end_time"},
			field:   "start_time",
		},
		{
			name:    "conflict names both ids",
			err:     failure.ConflictWith("room-1", "req-9"),
			code:    http.StatusConflict,
			kind:    failure.KindConflict,
			details: map[string]any{"resource_id": "room-1", "conflicting_request_id": "req-9"},
		},
		{
			name:    "authorization names the capability",
			err:     failure.Authorization("management:Transportasi"),
			code:    http.StatusForbidden,
			kind:    failure.KindAuthorization,
			details: map[string]any{"required": "management:Transportasi"},
		},
		{
			name:    "invalid state names current and attempted",
			err:     failure.InvalidState("approved", "rejected"),
			code:    http.StatusConflict,
			kind:    failure.KindInvalidState,
			details: map[string]any{"current_status": "approved", "attempted": "rejected"},
		},
		{
			name:    "not found names entity and id",
			err:     failure.NotFoundEntity("resource", "x-1"),
			code:    http.StatusNotFound,
			kind:    failure.KindNotFound,
			details: map[string]any{"entity": "resource", "id": "x-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			require.ErrorAs(t, tt.err, &f)

			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.details, f.Details)
			assert.Equal(t, tt.field, f.Field)
			assert.True(t, failure.Is(tt.err, tt.kind))
		})
	}
}

func TestSimpleConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request from string", err: failure.BadRequestFromString("custom bad request"), code: http.StatusBadRequest, message: "custom bad request"},
		{name: "unauthorized", err: failure.Unauthorized("token expired"), code: http.StatusUnauthorized, message: "token expired"},
		{name: "not found", err: failure.NotFound("User not found"), code: http.StatusNotFound, message: "User not found"},
		{name: "conflict", err: failure.Conflict("Email already exists"), code: http.StatusConflict, message: "Email already exists"},
		{name: "forbidden", err: failure.Forbidden("Access denied"), code: http.StatusForbidden, message: "Access denied"},
		{name: "unavailable", err: failure.Unavailable("busy"), code: http.StatusServiceUnavailable, message: "busy"},
		{name: "internal", err: failure.InternalError(errors.New("database connection failed")), code: http.StatusInternalServerError, message: "database connection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}

	assert.Nil(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("outer: %w", failure.ConflictWith("r", "b")),
			expected: http.StatusConflict,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.GetCode(tt.input))
		})
	}
}

func TestGetKind(t *testing.T) {
	assert.Equal(t, failure.KindInternal, failure.GetKind(errors.New("plain")))
	assert.Equal(t, failure.KindInternal, failure.GetKind(&failure.Failure{Code: http.StatusTeapot}))
	assert.Equal(t, failure.KindInvalidState, failure.GetKind(fmt.Errorf("wrap: %w", failure.InvalidState("a", "b"))))
}
