// Package mcerr defines the typed failure taxonomy of the MCDIL compiler.
//
// All semantic failures are typed structs, never bare strings. Each carries
// a stable error code and, where it applies, the innermost diagnostics
// location at the moment it was raised. Handlers never catch and suppress
// these errors; they propagate unchanged to the top-level compile call,
// which is the only boundary that reports to the end user.
package mcerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/McDic/MCDIL/internal/location"
)

// Error codes, grouped by failure domain.
const (
	// Identifier errors (E100-E109)
	CodeKeywordIdentifier   = "E100" // reserved keyword used as a name
	CodeIdentifierNotFound  = "E101" // identifier path failed to resolve
	CodeIdentifierCollision = "E102" // same name exposed twice in one scope
	CodeMalformedGeneric    = "E103" // generic parameter key not uppercase

	// Dependency graph errors (E200-E209)
	CodeDuplicateEdge  = "E200" // inner edge inserted twice
	CodeOwnerConflict  = "E201" // child already has an owning parent
	CodeDependencyLoop = "E202" // cycle found during toposort

	// Component metadata errors (E300-E309)
	CodeUnexpectedNode        = "E300" // node tag not valid for current scope
	CodeAuthorAlreadySet      = "E301"
	CodeNotAuthorable         = "E302"
	CodeDescriptionAlreadySet = "E303"

	// Driver and source errors (E400-E409)
	CodeSourceFetchFailed = "E400" // acquisition collaborator failed
	CodeCacheMismatch     = "E401" // same canonical path, different text
	CodeSyntax            = "E402" // parser collaborator rejected the source
)

// CompilationError is the base of all semantic failures. Message formatting
// includes source:line:column when a location is available.
type CompilationError struct {
	Code    string
	Message string
	Loc     *location.Location
}

func (e *CompilationError) Error() string {
	if e.Loc != nil {
		return fmt.Sprintf("%s: [%s] %s", e.Loc, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Location returns the captured location, if any.
func (e *CompilationError) Location() *location.Location {
	return e.Loc
}

// ErrCode returns the stable error code.
func (e *CompilationError) ErrCode() string {
	return e.Code
}

// Compilation is implemented by every semantic failure. Errors that embed
// CompilationError satisfy it through method promotion, so errors.As with a
// Compilation target matches the whole taxonomy.
type Compilation interface {
	error
	Location() *location.Location
	ErrCode() string
}

// here captures the innermost location of the given stack. A nil stack or an
// empty stack yields a location-less error.
func here(stack *location.Stack) *location.Location {
	if stack == nil {
		return nil
	}
	top, ok := stack.Top()
	if !ok {
		return nil
	}
	return &top
}

// KeywordIdentifierError reports a reserved keyword used as a component name.
type KeywordIdentifierError struct {
	CompilationError
	Keyword string
}

// NewKeywordIdentifier builds the error, capturing the innermost location.
func NewKeywordIdentifier(stack *location.Stack, keyword string) *KeywordIdentifierError {
	return &KeywordIdentifierError{
		CompilationError: CompilationError{
			Code:    CodeKeywordIdentifier,
			Message: fmt.Sprintf("%q is a reserved keyword and cannot be an identifier", keyword),
			Loc:     here(stack),
		},
		Keyword: keyword,
	}
}

// IdentifierNotFoundError reports an identifier path that failed to resolve.
type IdentifierNotFoundError struct {
	CompilationError
	Path []string
}

func NewIdentifierNotFound(stack *location.Stack, path []string) *IdentifierNotFoundError {
	return &IdentifierNotFoundError{
		CompilationError: CompilationError{
			Code:    CodeIdentifierNotFound,
			Message: fmt.Sprintf("identifier %q not found", strings.Join(path, ".")),
			Loc:     here(stack),
		},
		Path: path,
	}
}

// IdentifierCollisionError reports two direct children of one scope exposing
// the same name.
type IdentifierCollisionError struct {
	CompilationError
	Name string
}

func NewIdentifierCollision(stack *location.Stack, name string) *IdentifierCollisionError {
	return &IdentifierCollisionError{
		CompilationError: CompilationError{
			Code:    CodeIdentifierCollision,
			Message: fmt.Sprintf("identifier %q already exists in this scope", name),
			Loc:     here(stack),
		},
		Name: name,
	}
}

// MalformedGenericError reports a generic parameter key that is not
// entirely uppercase.
type MalformedGenericError struct {
	CompilationError
	Key string
}

func NewMalformedGeneric(stack *location.Stack, key string) *MalformedGenericError {
	return &MalformedGenericError{
		CompilationError: CompilationError{
			Code:    CodeMalformedGeneric,
			Message: fmt.Sprintf("generic parameter %q must be an uppercase word", key),
			Loc:     here(stack),
		},
		Key: key,
	}
}

// GraphError reports a dependency-graph invariant violation: a duplicated
// inner edge, a conflicting owner, or a cycle found during toposort.
type GraphError struct {
	CompilationError
}

func NewGraphError(code, message string) *GraphError {
	return &GraphError{CompilationError: CompilationError{Code: code, Message: message}}
}

// UnexpectedNodeError reports a parse-tree node whose tag is not valid for
// the component the driver is currently building.
type UnexpectedNodeError struct {
	CompilationError
	Node string
}

func NewUnexpectedNode(stack *location.Stack, node string) *UnexpectedNodeError {
	return &UnexpectedNodeError{
		CompilationError: CompilationError{
			Code:    CodeUnexpectedNode,
			Message: fmt.Sprintf("unexpected node %q for current component", node),
			Loc:     here(stack),
		},
		Node: node,
	}
}

// AuthorAlreadySetError reports a second author assignment on one component.
type AuthorAlreadySetError struct {
	CompilationError
	Name  string
	Email string
}

func NewAuthorAlreadySet(stack *location.Stack, name, email string) *AuthorAlreadySetError {
	return &AuthorAlreadySetError{
		CompilationError: CompilationError{
			Code:    CodeAuthorAlreadySet,
			Message: fmt.Sprintf("author already set to %s <%s>", name, email),
			Loc:     here(stack),
		},
		Name:  name,
		Email: email,
	}
}

// NotAuthorableError reports an author assignment on a component kind that
// does not accept authorship.
type NotAuthorableError struct {
	CompilationError
}

func NewNotAuthorable(stack *location.Stack) *NotAuthorableError {
	return &NotAuthorableError{
		CompilationError: CompilationError{
			Code:    CodeNotAuthorable,
			Message: "this component does not accept an author",
			Loc:     here(stack),
		},
	}
}

// DescriptionAlreadySetError reports a second docstring on one component.
type DescriptionAlreadySetError struct {
	CompilationError
}

func NewDescriptionAlreadySet(stack *location.Stack) *DescriptionAlreadySetError {
	return &DescriptionAlreadySetError{
		CompilationError: CompilationError{
			Code:    CodeDescriptionAlreadySet,
			Message: "description already set for this component",
			Loc:     here(stack),
		},
	}
}

// SourceFetchError reports that the acquisition collaborator could not
// produce source text for a reference.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] failed to fetch source %q: %v", CodeSourceFetchFailed, e.Source, e.Err)
	}
	return fmt.Sprintf("[%s] failed to fetch source %q", CodeSourceFetchFailed, e.Source)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// NewSourceFetch wraps an acquisition failure. A nil cause is allowed.
func NewSourceFetch(source string, cause error) *SourceFetchError {
	return &SourceFetchError{Source: source, Err: cause}
}

// CacheMismatchError reports that the same canonical path produced two
// different texts within one cache. This is a programming or environment
// inconsistency and is treated as fatal, never silently resolved.
type CacheMismatchError struct {
	CompilationError
	Path string
}

func NewCacheMismatch(path string) *CacheMismatchError {
	return &CacheMismatchError{
		CompilationError: CompilationError{
			Code:    CodeCacheMismatch,
			Message: fmt.Sprintf("cached text for %q differs from newly read text", path),
		},
		Path: path,
	}
}

// SyntaxError reports a source unit the parser collaborator rejected.
type SyntaxError struct {
	CompilationError
}

func NewSyntax(loc location.Location, message string) *SyntaxError {
	return &SyntaxError{
		CompilationError: CompilationError{
			Code:    CodeSyntax,
			Message: message,
			Loc:     &loc,
		},
	}
}

// IsIdentifierError reports whether err is one of the identifier failures.
func IsIdentifierError(err error) bool {
	var kw *KeywordIdentifierError
	var nf *IdentifierNotFoundError
	var col *IdentifierCollisionError
	var gen *MalformedGenericError
	return errors.As(err, &kw) || errors.As(err, &nf) || errors.As(err, &col) || errors.As(err, &gen)
}

// IsGraphError reports whether err is a dependency-graph failure.
func IsGraphError(err error) bool {
	var ge *GraphError
	return errors.As(err, &ge)
}

// CodeOf extracts the stable error code from err, or "" when err carries none.
func CodeOf(err error) string {
	var ce Compilation
	if errors.As(err, &ce) {
		return ce.ErrCode()
	}
	var sf *SourceFetchError
	if errors.As(err, &sf) {
		return CodeSourceFetchFailed
	}
	return ""
}
