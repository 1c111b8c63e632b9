package compile

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a compile failure for programmatic handling. The
// compiler performs no local recovery: every failure is reported once via
// the event sink, where an event shape exists, and then returned to the
// caller. Retry and abort policy belong to the run coordinator.
type ErrorKind string

const (
	// ErrKindCookbookNotFound indicates a cookbook name with no backing
	// cookbook in the collection.
	ErrKindCookbookNotFound ErrorKind = "cookbook_not_found"

	// ErrKindAttributeNotFound indicates an attribute short name with no
	// matching file in its cookbook.
	ErrKindAttributeNotFound ErrorKind = "attribute_not_found"

	// ErrKindRecipeNotFound indicates a run-list recipe name resolving to
	// no known recipe.
	ErrKindRecipeNotFound ErrorKind = "recipe_not_found"

	// ErrKindFileLoadFailure indicates that executing a single artifact
	// file failed.
	ErrKindFileLoadFailure ErrorKind = "file_load_failure"
)

// CompileError is a classified compile failure with context.
type CompileError struct {
	// Kind is the failure classification.
	Kind ErrorKind `json:"kind"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Cookbook is the cookbook involved, if applicable.
	Cookbook string `json:"cookbook,omitempty"`

	// Segment is the artifact kind being loaded, if applicable.
	Segment ArtifactKind `json:"segment,omitempty"`

	// Path is the file being loaded, if applicable.
	Path string `json:"path,omitempty"`

	// Err is the underlying cause.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Is implements error equality for errors.Is: two CompileErrors match when
// their kinds match.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithCookbook adds cookbook context to the error.
func (e *CompileError) WithCookbook(name string) *CompileError {
	e.Cookbook = name
	return e
}

// WithSegment adds artifact-kind context to the error.
func (e *CompileError) WithSegment(kind ArtifactKind) *CompileError {
	e.Segment = kind
	return e
}

// WithPath adds file-path context to the error.
func (e *CompileError) WithPath(path string) *CompileError {
	e.Path = path
	return e
}

// NewCookbookNotFound creates a cookbook-not-found error.
func NewCookbookNotFound(cookbook string) *CompileError {
	return &CompileError{
		Kind:     ErrKindCookbookNotFound,
		Message:  fmt.Sprintf("cookbook %q not found in cookbook collection", cookbook),
		Cookbook: cookbook,
	}
}

// NewAttributeNotFound creates an attribute-not-found error.
func NewAttributeNotFound(cookbook, shortName string) *CompileError {
	return &CompileError{
		Kind:     ErrKindAttributeNotFound,
		Message:  fmt.Sprintf("cookbook %q has no attribute file %q", cookbook, shortName),
		Cookbook: cookbook,
	}
}

// NewRecipeNotFound creates a recipe-not-found error.
func NewRecipeNotFound(cookbook, shortName string) *CompileError {
	return &CompileError{
		Kind:     ErrKindRecipeNotFound,
		Message:  fmt.Sprintf("cookbook %q has no recipe %q", cookbook, shortName),
		Cookbook: cookbook,
	}
}

// NewFileLoadFailure creates a file-load-failure error wrapping its cause.
func NewFileLoadFailure(kind ArtifactKind, path string, err error) *CompileError {
	return &CompileError{
		Kind:    ErrKindFileLoadFailure,
		Message: fmt.Sprintf("failed to load %s file", kind),
		Segment: kind,
		Path:    path,
		Err:     err,
	}
}

// IsCookbookNotFound reports whether err is a cookbook-not-found error.
func IsCookbookNotFound(err error) bool {
	return errKindIs(err, ErrKindCookbookNotFound)
}

// IsAttributeNotFound reports whether err is an attribute-not-found error.
func IsAttributeNotFound(err error) bool {
	return errKindIs(err, ErrKindAttributeNotFound)
}

// IsRecipeNotFound reports whether err is a recipe-not-found error.
func IsRecipeNotFound(err error) bool {
	return errKindIs(err, ErrKindRecipeNotFound)
}

// IsFileLoadFailure reports whether err is a file-load-failure error.
func IsFileLoadFailure(err error) bool {
	return errKindIs(err, ErrKindFileLoadFailure)
}

func errKindIs(err error, kind ErrorKind) bool {
	var e *CompileError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
