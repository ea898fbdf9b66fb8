package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("syntax error in line 3")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"no cause", New(ErrCodeInvalidInput, "dpi %d out of range", 9000), "INVALID_INPUT: dpi 9000 out of range"},
		{"with cause", Wrap(ErrCodeRenderFailed, cause, "render %q", "network"), `RENDER_FAILED: render "network": syntax error in line 3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("wasm trap")
	err := Wrap(ErrCodeBackendUnavailable, cause, "init graphviz")
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
}

func TestCodeLookup(t *testing.T) {
	nested := Wrap(ErrCodeRenderFailed, New(ErrCodeBackendUnavailable, "init"), "render")
	viaFmt := fmt.Errorf("generate: %w", New(ErrCodeDiagramNotFound, "missing"))

	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", New(ErrCodeCache, "x"), ErrCodeCache},
		{"outermost wins", nested, ErrCodeRenderFailed},
		{"through fmt", viaFmt, ErrCodeDiagramNotFound},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(err, %q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeUnsupported) {
				t.Error("Is matched an unrelated code")
			}
		})
	}
	if Is(errors.New("plain"), "") {
		t.Error("empty code must never match")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{Wrap(ErrCodeRenderFailed, errors.New("syntax error"), "render simple"), "render simple: syntax error"},
		{Wrap(ErrCodeRenderFailed, New(ErrCodeBackendUnavailable, "init graphviz"), "render %q", "Simple"), `render "Simple": init graphviz`},
		{errors.New("plain error"), "plain error"},
		{fmt.Errorf("load platform.yaml: %w", New(ErrCodeInvalidDefinition, "unknown kind %q", "aws.foo")), `load platform.yaml: unknown kind "aws.foo"`},
		{fmt.Errorf("export: %w", Wrap(ErrCodeRenderFailed, fmt.Errorf("layout: %w", New(ErrCodeBackendUnavailable, "init")), "render")), "export: render: layout: init"},
		{fmt.Errorf("ctx: %v", New(ErrCodeCache, "x")), "ctx: CACHE_ERROR: x"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestHintAndStatus(t *testing.T) {
	tests := []struct {
		code   Code
		hint   string
		status int
	}{
		{ErrCodeBackendUnavailable, "go install", http.StatusServiceUnavailable},
		{ErrCodeRenderFailed, "--as dot", http.StatusInternalServerError},
		{ErrCodeDiagramNotFound, "eksdiagrams list", http.StatusNotFound},
		{ErrCodeInvalidFormat, "png", http.StatusBadRequest},
		{ErrCodeInvalidDefinition, "eksdiagrams validate", http.StatusUnprocessableEntity},
		{ErrCodeCache, "--no-cache", http.StatusInternalServerError},
		{ErrCodeInvalidInput, "", http.StatusBadRequest},
		{ErrCodeUnsupported, "", http.StatusNotImplemented},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			hint := Hint(err)
			if tt.hint == "" && hint != "" {
				t.Errorf("Hint() = %q, want empty", hint)
			}
			if !strings.Contains(hint, tt.hint) {
				t.Errorf("Hint() = %q, want it to contain %q", hint, tt.hint)
			}
			if got := HTTPStatus(err); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
		})
	}

	plain := errors.New("boom")
	if Hint(plain) != "" {
		t.Errorf("Hint(plain) = %q", Hint(plain))
	}
	if HTTPStatus(plain) != http.StatusInternalServerError {
		t.Errorf("HTTPStatus(plain) = %d", HTTPStatus(plain))
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"simple-eks-architecture", true},
		{"", false},
		{"out/diagram", false},
		{`out\diagram`, false},
		{".diagram", false},
		{"dia\x01gram", false},
		{strings.Repeat("a", 201), false},
	}
	for _, tt := range tests {
		err := ValidateFilename(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateFilename(%q) = %v, want ok=%v", tt.input, err, tt.ok)
			continue
		}
		if err != nil && !Is(err, ErrCodeInvalidPath) {
			t.Errorf("ValidateFilename(%q) code = %q, want %q", tt.input, GetCode(err), ErrCodeInvalidPath)
		}
	}
}
