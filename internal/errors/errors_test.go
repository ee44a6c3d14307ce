package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDependencyError(t *testing.T) {
	t.Run("formats index and dependency", func(t *testing.T) {
		err := NewDependencyError("invalid dependency", ErrEmptyDependent).
			WithIndex(0).
			WithDependency("a -> {}")

		want := "dependency error [index=0, dependency=a -> {}]: invalid dependency: dependency has an empty right-hand side"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("omits unknown index", func(t *testing.T) {
		err := NewDependencyError("invalid dependency", nil)
		if err.Error() != "dependency error: invalid dependency" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("matches sentinels", func(t *testing.T) {
		err := fmt.Errorf("load: %w", NewDependencyError("bad", ErrEmptyDeterminant))

		if !Is(err, ErrEmptyDeterminant) {
			t.Error("should match wrapped cause")
		}
		if !Is(err, ErrInvalidInput) {
			t.Error("dependency errors should match ErrInvalidInput")
		}
		if Is(err, ErrEmptyDependent) {
			t.Error("should not match unrelated sentinel")
		}

		var depErr *DependencyError
		if !As(err, &depErr) {
			t.Fatal("As should find *DependencyError")
		}
		if depErr.Index != -1 {
			t.Errorf("Index = %d, want -1", depErr.Index)
		}
	})
}

func TestDecompositionError(t *testing.T) {
	err := NewDecompositionError("iteration cap reached", ErrNotConverged).
		WithIterations(10).
		WithRelations(4)

	if !strings.Contains(err.Error(), "iterations=10") || !strings.Contains(err.Error(), "relations=4") {
		t.Errorf("Error() = %q, want iterations and relations context", err.Error())
	}
	if !Is(err, ErrNotConverged) {
		t.Error("should match ErrNotConverged")
	}
	if Is(err, ErrInvalidInput) {
		t.Error("decomposition errors are not input errors")
	}
	if GetSeverity(err) != SeverityError {
		t.Errorf("GetSeverity() = %v, want error", GetSeverity(err))
	}
	if GetSeverity(err.WithSeverity(SeverityCritical)) != SeverityCritical {
		t.Error("WithSeverity should override severity")
	}
}

func TestVerifyError(t *testing.T) {
	err := NewVerifyError("join produced spurious rows", ErrLossyJoin).WithTable("r2")

	if err.Error() != "verify error [table=r2]: join produced spurious rows: decomposition is not lossless" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsUserFacing(err) {
		t.Error("verify errors without a query should be user-facing")
	}

	err = err.WithQuery("SELECT 1")
	if IsUserFacing(err) {
		t.Error("attaching a query should make the error internal")
	}
	if strings.Contains(err.Error(), "SELECT") {
		t.Error("query should not leak into the message")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("attribute", "passport number")

	if err.Error() != "attribute not found: passport number" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !Is(err, ErrUnknownAttribute) {
		t.Error("attribute not-found errors should match ErrUnknownAttribute")
	}
	if Is(NewNotFoundError("relation", "R9"), ErrUnknownAttribute) {
		t.Error("relation not-found should not match ErrUnknownAttribute")
	}

	wrapped := err.WithCause(ErrEmptyRelation)
	if !Is(wrapped, ErrEmptyRelation) {
		t.Error("should match cause")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("must be one of: text, json").
		WithField("output.format").
		WithValue("xml")

	want := "validation error [field=output.format, value=xml]: must be one of: text, json"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("validation errors should match ErrInvalidInput")
	}
	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want warning", GetSeverity(err))
	}
}

func TestClassification(t *testing.T) {
	plain := New("boom")

	tests := []struct {
		name     string
		err      error
		domain   bool
		semantic bool
		user     bool
	}{
		{"nil", nil, false, false, false},
		{"plain", plain, false, false, false},
		{"dependency", NewDependencyError("x", nil), true, false, true},
		{"decomposition", Wrap(NewDecompositionError("x", nil), "ctx"), true, false, true},
		{"verify", NewVerifyError("x", nil), true, false, true},
		{"not found", NewNotFoundError("file", "a.yaml"), false, true, true},
		{"validation", NewValidationError("x"), false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDomainError(tt.err); got != tt.domain {
				t.Errorf("IsDomainError() = %v, want %v", got, tt.domain)
			}
			if got := IsSemanticError(tt.err); got != tt.semantic {
				t.Errorf("IsSemanticError() = %v, want %v", got, tt.semantic)
			}
			if got := IsUserFacing(tt.err); got != tt.user {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.user)
			}
		})
	}

	if GetSeverity(nil) != SeverityDebug {
		t.Error("GetSeverity(nil) should be debug")
	}
	if GetSeverity(plain) != SeverityError {
		t.Error("GetSeverity of a plain error should be error")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}

	err := Wrapf(ErrLossyJoin, "check %s", "r1")
	if err.Error() != "check r1: decomposition is not lossless" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !Is(err, ErrLossyJoin) {
		t.Error("Wrapf should preserve the chain")
	}
}
