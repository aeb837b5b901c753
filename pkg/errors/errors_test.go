package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("connection reset")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if !errors.Is(wrapped, originalErr) {
		t.Errorf("errors.Is should see the original error")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "department not found"},
			expected: "NOT_FOUND: department not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeSourceUnavailable,
				Message: "dataset source could not be loaded",
				Err:     errors.New("status 503"),
			},
			expected: "SOURCE_UNAVAILABLE: dataset source could not be loaded (caused by: status 503)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{name: "not found", err: NotFound("Department"), wantCode: CodeNotFound, wantStatus: http.StatusNotFound},
		{name: "not found with key", err: NotFoundWithKey("Department", "ATLANTIS"), wantCode: CodeNotFound, wantStatus: http.StatusNotFound},
		{name: "validation", err: Validation("bad query", nil), wantCode: CodeValidation, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid input", err: InvalidInput("invalid limit"), wantCode: CodeInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", err: Internal("boom", errors.New("x")), wantCode: CodeInternal, wantStatus: http.StatusInternalServerError},
		{name: "timeout", err: Timeout("too slow"), wantCode: CodeTimeout, wantStatus: http.StatusGatewayTimeout},
		{name: "unavailable", err: Unavailable("Snapshot store"), wantCode: CodeUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "source unavailable", err: SourceUnavailable(errors.New("dial tcp")), wantCode: CodeSourceUnavailable, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithKey(t *testing.T) {
	err := NotFoundWithKey("Department", "ATLANTIS")

	if err.Message != "Department not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Details["key"] != "ATLANTIS" {
		t.Errorf("expected key 'ATLANTIS', got %v", err.Details["key"])
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := Validation("validation failed", nil).WithDetails(map[string]any{"field": "limit"})

	if err.Details["field"] != "limit" {
		t.Errorf("expected field 'limit', got %v", err.Details["field"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Snapshot")
	regularErr := errors.New("regular error")

	if result := AsAppError(appErr); result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("loading: %w", appErr)
	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should look through wrapping")
	}
	if result := AsAppError(wrapped); result != appErr {
		t.Errorf("AsAppError() should unwrap to the AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
	if IsAppError(regularErr) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	jsonStr := string(NotFoundWithKey("Department", "ATLANTIS").ToJSON())

	for _, want := range []string{`"code":"NOT_FOUND"`, "not found", `"key":"ATLANTIS"`} {
		if !strings.Contains(jsonStr, want) {
			t.Errorf("ToJSON() = %s, missing %s", jsonStr, want)
		}
	}
}
