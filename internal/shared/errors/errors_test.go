package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestGetType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "not found", err: NotFoundf("layer %s", "l1"), want: ErrorTypeNotFound},
		{name: "validation", err: Validation("bad"), want: ErrorTypeValidation},
		{name: "conflict", err: Conflictf("limit of %d reached", 10), want: ErrorTypeConflict},
		{name: "forbidden", err: Forbidden("not yours"), want: ErrorTypeForbidden},
		{name: "unauthorized", err: Unauthorized("login"), want: ErrorTypeUnauthorized},
		{name: "wrapped app error", err: fmt.Errorf("outer: %w", Validation("inner")), want: ErrorTypeValidation},
		{name: "plain error", err: errors.New("boom"), want: ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetType(tt.err); got != tt.want {
				t.Errorf("GetType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapInternal_Unwraps(t *testing.T) {
	err := WrapInternal("failed to load sector", sql.ErrConnDone)

	if !errors.Is(err, sql.ErrConnDone) {
		t.Error("wrapped error is not reachable through errors.Is")
	}
	if got := err.Error(); got != "failed to load sector: "+sql.ErrConnDone.Error() {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	if Is(nil, ErrorTypeInternal) {
		t.Error("Is(nil) = true")
	}
	if !Is(NotFoundf("x"), ErrorTypeNotFound) {
		t.Error("Is(not found) = false")
	}
}
