package adoc

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ErrorKind enumerates the failure taxonomy of spec.md §7. A ParseError
// returned as a function's error aborts the parse; soft issues are
// collected separately (see Warnings below) and reuse some of the same
// kinds (ErrParse, ErrUnbalancedConditional) without aborting anything.
type ErrorKind string

const (
	ErrIo                         ErrorKind = "io"
	ErrParse                      ErrorKind = "parse"
	ErrNestedSectionLevelMismatch ErrorKind = "nested_section_level_mismatch"
	ErrIncludeNotFound            ErrorKind = "include_not_found"
	ErrIncludeOutsideBase         ErrorKind = "include_outside_base"
	ErrIncludeCycle               ErrorKind = "include_cycle"
	ErrIncludeDepthExceeded       ErrorKind = "include_depth_exceeded"
	ErrUnbalancedConditional      ErrorKind = "unbalanced_conditional"
	ErrAttributeParse             ErrorKind = "attribute_parse"
	ErrCanceled                   ErrorKind = "canceled"
	ErrResourceLimitExceeded      ErrorKind = "resource_limit_exceeded"
)

// ParseError is a single located error or warning. Every ParseError carries
// the source-original Location (once resolved through the PositionTracker)
// and an Advice string suitable for direct display, matching spec.md §7's
// "chainable advice" requirement; Cause is the underlying Go error (if
// any), wrapped with github.com/pkg/errors so a caller can still Unwrap to
// the root cause.
type ParseError struct {
	Kind     ErrorKind
	Message  string
	Location Location
	Advice   string
	// Actual/Expected are populated for ErrNestedSectionLevelMismatch.
	Actual, Expected int
	Cause            error
}

func (e *ParseError) Error() string {
	if e.Location.Start.Line != 0 {
		return fmt.Sprintf("%d:%d: %s", e.Location.Start.Line, e.Location.Start.Column, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Cause }

// NewParseError builds a hard ParseError, wrapping cause (if any) with
// pkg/errors so the advice chain survives an Unwrap() all the way to the
// original error.
func NewParseError(kind ErrorKind, message string, loc Location, advice string, cause error) *ParseError {
	if cause != nil {
		cause = errors.Wrap(cause, message)
	}
	return &ParseError{Kind: kind, Message: message, Location: loc, Advice: advice, Cause: cause}
}

func errNestedSectionLevelMismatch(loc Location, actual, expected int) *ParseError {
	return &ParseError{
		Kind:     ErrNestedSectionLevelMismatch,
		Message:  fmt.Sprintf("section level %d nested directly under a section that expected level %d", actual, expected),
		Location: loc,
		Advice:   "insert an intermediate section heading, or reduce this heading's level, to avoid skipping a level",
		Actual:   actual,
		Expected: expected,
	}
}

func errIncludeNotFound(loc Location, target string) *ParseError {
	return &ParseError{
		Kind:     ErrIncludeNotFound,
		Message:  fmt.Sprintf("include target not found: %s", target),
		Location: loc,
		Advice:   "check the include target path is correct and relative to the including file",
	}
}

func errIncludeOutsideBase(loc Location, target string) *ParseError {
	return &ParseError{
		Kind:     ErrIncludeOutsideBase,
		Message:  fmt.Sprintf("include target resolves outside the permitted base directory: %s", target),
		Location: loc,
		Advice:   "run with a less restrictive SafeMode, or move the included file under the parent directory of the source file",
	}
}

func errIncludeCycle(loc Location, target string) *ParseError {
	return &ParseError{
		Kind:     ErrIncludeCycle,
		Message:  fmt.Sprintf("include cycle detected at: %s", target),
		Location: loc,
		Advice:   "remove the circular include::[] chain",
	}
}

func errIncludeDepthExceeded(loc Location, limit uint) *ParseError {
	return &ParseError{
		Kind:     ErrIncludeDepthExceeded,
		Message:  fmt.Sprintf("include depth exceeded limit of %d", limit),
		Location: loc,
		Advice:   "raise Options.IncludeDepthLimit, or flatten the include chain",
	}
}

func errUnbalancedConditional(loc Location, directive string) *ParseError {
	return &ParseError{
		Kind:     ErrUnbalancedConditional,
		Message:  fmt.Sprintf("unbalanced conditional directive: %s", directive),
		Location: loc,
		Advice:   "every ifdef::/ifndef::/ifeval:: must have a matching endif::",
	}
}

func errAttributeParse(loc Location, line string, cause error) *ParseError {
	return NewParseError(ErrAttributeParse, fmt.Sprintf("could not parse attribute entry: %q", line), loc, "attribute entries must match :name: value or :!name: / :name!:", cause)
}

func errCanceled(loc Location) *ParseError {
	return &ParseError{Kind: ErrCanceled, Message: "parse canceled", Location: loc, Advice: "the cancellation token was signaled before the parse completed"}
}

func errResourceLimitExceeded(kind string, loc Location) *ParseError {
	return &ParseError{
		Kind:     ErrResourceLimitExceeded,
		Message:  fmt.Sprintf("resource limit exceeded: %s", kind),
		Location: loc,
		Advice:   "raise the corresponding Options limit, or reduce the size/complexity of the input",
	}
}

func errGrammar(loc Location, fragment string) *ParseError {
	return &ParseError{
		Kind:     ErrParse,
		Message:  fmt.Sprintf("could not parse fragment: %q", fragment),
		Location: loc,
		Advice:   "check the fragment against the AsciiDoc block grammar",
	}
}

// Warnings is the soft-issue vector carried alongside a successfully
// parsed Document (spec.md §7: "collected into a warnings vector... never
// abort parsing unless the caller sets warnings_as_errors"). It also
// satisfies the error interface via AsError, aggregating every entry with
// github.com/hashicorp/go-multierror so a caller that only checks
// `if err != nil` still observes problems without having to range over
// Document.Warnings itself.
type Warnings []*ParseError

func (w Warnings) AsError() error {
	if len(w) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, pe := range w {
		merr = multierror.Append(merr, pe)
	}
	return merr.ErrorOrNil()
}
