package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParityError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParityError
		expected string
	}{
		{
			name:     "message only",
			err:      &ParityError{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with case",
			err:      &ParityError{Case: "warm-3", Message: "comparison failed"},
			expected: "[warm-3] comparison failed",
		},
		{
			name:     "with case and engine",
			err:      &ParityError{Case: "warm-3", Engine: "canonical", Message: "engine failed"},
			expected: "[warm-3] canonical: engine failed",
		},
		{
			name:     "engine without case not included",
			err:      &ParityError{Engine: "alternate", Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with cause",
			err:      &ParityError{Message: "load corpus", Cause: errors.New("no such file")},
			expected: "load corpus: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParityError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ParityError{Message: "wrapper", Cause: cause}
	assert.Same(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	assert.Nil(t, (&ParityError{Message: "no cause"}).Unwrap())
}

func TestParityError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"runtime", KindRuntime, ExitRuntimeError},
		{"config", KindConfig, ExitConfigError},
		{"validation", KindValidation, ExitConfigError},
		{"not found", KindNotFound, ExitRuntimeError},
		{"environment", KindEnvironment, ExitEnvironmentError},
		{"invalid argument", KindInvalidArgument, ExitRuntimeError},
		{"allocation", KindAllocation, ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, (&ParityError{Kind: tt.kind}).ExitCode())
		})
	}
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, KindRuntime, New("x").Kind)
	assert.Equal(t, "error 42: details", Newf("error %d: %s", 42, "details").Message)
	assert.Equal(t, `field "name": is required`, Configf("field %q: %s", "name", "is required").Message)
	assert.Equal(t, KindEnvironment, Environmentf("missing %s", "binary").Kind)
	assert.Equal(t, KindInvalidArgument, InvalidArgument("nil result").Kind)
	assert.Equal(t, KindAllocation, Allocation("too many samples").Kind)
	assert.Equal(t, "corpus not found: x.json", NotFound("corpus", "x.json").Message)

	v := Validation(errors.New("bad"), "invalid corpus")
	assert.Equal(t, KindValidation, v.Kind)
	assert.Equal(t, ExitConfigError, v.ExitCode())
}

func TestEngineError(t *testing.T) {
	err := EngineError("warm-3", "alternate", errors.New("exit status 2"))

	assert.Equal(t, KindRuntime, err.Kind)
	assert.Equal(t, "[warm-3] alternate: engine failed: exit status 2", err.Error())
}

func TestIsKind(t *testing.T) {
	inner := Allocation("too many samples")
	wrapped := fmt.Errorf("case warm-3: %w", inner)
	layered := Wrap(inner, "comparison failed")

	assert.True(t, IsKind(inner, KindAllocation))
	assert.True(t, IsKind(wrapped, KindAllocation))
	assert.True(t, IsKind(layered, KindAllocation))
	assert.True(t, IsKind(layered, KindRuntime))
	assert.False(t, IsKind(wrapped, KindInvalidArgument))
	assert.False(t, IsKind(errors.New("plain"), KindRuntime))
	assert.False(t, IsKind(nil, KindRuntime))
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"runtime", New("runtime"), ExitRuntimeError},
		{"config", Config("config"), ExitConfigError},
		{"wrapped config", fmt.Errorf("load: %w", Config("config")), ExitConfigError},
		{"environment", Environment("env"), ExitEnvironmentError},
		{"generic error", errors.New("generic"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetExitCode(tt.err))
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	kinds := []ErrorKind{KindRuntime, KindConfig, KindNotFound, KindValidation, KindEnvironment, KindInvalidArgument, KindAllocation}
	seen := make(map[string]bool)
	for _, k := range kinds {
		name := k.String()
		assert.False(t, seen[name], "duplicate kind name %q", name)
		seen[name] = true
	}
}
