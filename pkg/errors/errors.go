// Package errors defines coded errors shared by the CLI, the pipeline and
// the preview server.
//
// A [Code] travels with the error so callers map failures to HTTP statuses
// ([HTTPStatus]) and remediation text ([Hint]) without string matching.
// [UserMessage] renders the message chain without codes for terminals.
//
//	err := errors.Wrap(errors.ErrCodeRenderFailed, cause, "render %q", title)
//	if errors.Is(err, errors.ErrCodeRenderFailed) {
//	    fmt.Println(errors.Hint(err))
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidDiagram    Code = "INVALID_DIAGRAM"
	ErrCodeInvalidDefinition Code = "INVALID_DEFINITION"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeDiagramNotFound Code = "DIAGRAM_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// ErrCodeBackendUnavailable means the embedded Graphviz engine could not
	// start; RENDER_FAILED means it started but rejected the input.
	ErrCodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	ErrCodeRenderFailed       Code = "RENDER_FAILED"

	ErrCodeCache Code = "CACHE_ERROR"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

type codeInfo struct {
	status int
	hint   string
}

var codes = map[Code]codeInfo{
	ErrCodeInvalidInput:      {http.StatusBadRequest, ""},
	ErrCodeInvalidFormat:     {http.StatusBadRequest, "Supported formats: png, svg, jpg, dot."},
	ErrCodeInvalidDiagram:    {http.StatusUnprocessableEntity, "Check the definition with 'eksdiagrams validate <file>'."},
	ErrCodeInvalidDefinition: {http.StatusUnprocessableEntity, "Check the definition with 'eksdiagrams validate <file>'."},
	ErrCodeInvalidPath:       {http.StatusBadRequest, ""},
	ErrCodeNotFound:          {http.StatusNotFound, ""},
	ErrCodeDiagramNotFound:   {http.StatusNotFound, "Run 'eksdiagrams list' to see the available diagrams."},
	ErrCodeFileNotFound:      {http.StatusNotFound, ""},
	ErrCodeBackendUnavailable: {http.StatusServiceUnavailable,
		"The embedded Graphviz engine could not start. Rebuild with:\n" +
			"  go install github.com/matzehuels/eksdiagrams/cmd/eksdiagrams@latest\n" +
			"and make sure the process may allocate executable memory (wazero)."},
	ErrCodeRenderFailed: {http.StatusInternalServerError,
		"Graphviz rejected the diagram. Inspect the source with:\n" +
			"  eksdiagrams export <name> --as dot"},
	ErrCodeCache:       {http.StatusInternalServerError, "Check the cache_url setting or pass --no-cache."},
	ErrCodeInternal:    {http.StatusInternalServerError, ""},
	ErrCodeUnsupported: {http.StatusNotImplemented, ""},
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message and cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's message chain without codes. Context added by
// fmt.Errorf around a coded error is kept.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	prefix := strings.TrimSuffix(err.Error(), e.Error())
	if len(prefix) == len(err.Error()) {
		prefix = ""
	}
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + UserMessage(e.Cause)
	}
	return prefix + msg
}

// Hint returns remediation guidance for err, or "".
func Hint(err error) string {
	return codes[GetCode(err)].hint
}

// HTTPStatus maps err to a response status. Uncoded errors are 500.
func HTTPStatus(err error) int {
	if info, ok := codes[GetCode(err)]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
