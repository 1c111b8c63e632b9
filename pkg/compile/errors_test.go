package compile

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCompileError_Predicates(t *testing.T) {
	tests := []struct {
		err       error
		predicate func(error) bool
		name      string
	}{
		{NewCookbookNotFound("web"), IsCookbookNotFound, "cookbook not found"},
		{NewAttributeNotFound("web", "tuning"), IsAttributeNotFound, "attribute not found"},
		{NewRecipeNotFound("web", "tls"), IsRecipeNotFound, "recipe not found"},
		{NewFileLoadFailure(KindLibrary, "web/libraries/a.star", errors.New("boom")), IsFileLoadFailure, "file load failure"},
	}

	for _, tt := range tests {
		if !tt.predicate(tt.err) {
			t.Errorf("Expected predicate to match %s error", tt.name)
		}
	}
}

func TestCompileError_PredicatesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("run aborted: %w", NewCookbookNotFound("web"))

	if !IsCookbookNotFound(err) {
		t.Errorf("Expected predicate to see through fmt.Errorf wrapping")
	}
	if IsRecipeNotFound(err) {
		t.Errorf("Expected non-matching predicate to be false")
	}
}

func TestCompileError_Is_MatchesByKind(t *testing.T) {
	err := NewRecipeNotFound("web", "tls")

	if !errors.Is(err, &CompileError{Kind: ErrKindRecipeNotFound}) {
		t.Errorf("Expected errors.Is to match on kind")
	}
	if errors.Is(err, &CompileError{Kind: ErrKindCookbookNotFound}) {
		t.Errorf("Expected errors.Is to reject a different kind")
	}
}

func TestCompileError_UnwrapsCause(t *testing.T) {
	cause := errors.New("read error")
	err := NewFileLoadFailure(KindAttribute, "web/attributes/default.star", cause)

	if !errors.Is(err, cause) {
		t.Errorf("Expected the cause in the error chain")
	}
}

func TestCompileError_WithContext(t *testing.T) {
	err := NewFileLoadFailure(KindDefinition, "", errors.New("boom")).
		WithCookbook("web").
		WithPath("web/definitions/app.star")

	if err.Cookbook != "web" {
		t.Errorf("Expected cookbook context, got %q", err.Cookbook)
	}
	if err.Path != "web/definitions/app.star" {
		t.Errorf("Expected path context, got %q", err.Path)
	}
	if err.Segment != KindDefinition {
		t.Errorf("Expected segment context, got %q", err.Segment)
	}
}

func TestCompileError_ErrorString(t *testing.T) {
	err := NewFileLoadFailure(KindRecipe, "web/recipes/tls.star", errors.New("undefined: listen_port"))

	msg := err.Error()
	if !strings.Contains(msg, string(ErrKindFileLoadFailure)) {
		t.Errorf("Expected kind in message, got %q", msg)
	}
	if !strings.Contains(msg, "web/recipes/tls.star") {
		t.Errorf("Expected path in message, got %q", msg)
	}
	if !strings.Contains(msg, "undefined: listen_port") {
		t.Errorf("Expected cause in message, got %q", msg)
	}
}
