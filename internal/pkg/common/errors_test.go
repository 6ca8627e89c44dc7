package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCustomError_Wrap(t *testing.T) {
	cause := errors.New("redis down")
	err := ErrCabinetStore.Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	ce, ok := AsCustomError(err)
	if !ok || ce.Code != "CABINET_STORE_ERROR" || ce.Status != http.StatusServiceUnavailable {
		t.Errorf("unexpected custom error %+v", ce)
	}
	if ErrCabinetStore.Err != nil {
		t.Error("Wrap mutated the predefined error")
	}
}

func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorResponse(w, ErrNotFound, "/nope")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var got ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := ErrorResponse{Code: ErrCodeNotFound, Message: ErrNotFound.Message, Details: "/nope"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestIsValidationError(t *testing.T) {
	err := NewValidationErrorf("limit must be >= 0, got %d", -1)
	if !IsValidationError(err) {
		t.Error("expected validation error")
	}
	if IsValidationError(ErrInternalError) {
		t.Error("custom error reported as validation error")
	}
	if err.Error() != "limit must be >= 0, got -1" {
		t.Errorf("Error() = %q", err.Error())
	}
}
