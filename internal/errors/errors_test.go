package errors

import (
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *CoolError
		want string
	}{
		{
			name: "with file and line",
			err:  New(TypeError, "main.cl", 12, "no conforming type %s", "Int"),
			want: `"main.cl", line 12: no conforming type Int`,
		},
		{
			name: "without location",
			err:  New(HierarchyError, "", 0, "Class Main is not defined."),
			want: "hierarchy error: Class Main is not defined.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInternalCarriesStackTrace(t *testing.T) {
	err := Internal("broken use-def chain for %%%s", "v3")
	if err.Kind != InternalInvariant {
		t.Fatalf("Kind = %v, want InternalInvariant", err.Kind)
	}
	if err.StackTrace() == nil {
		t.Fatal("expected a non-nil stack trace from pkg/errors")
	}
	if !strings.Contains(err.Error(), "broken use-def chain") {
		t.Fatalf("Error() = %q, missing message", err.Error())
	}
}
