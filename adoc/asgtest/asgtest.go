// Package asgtest provides golden-ASG comparison helpers for adoc's
// _test.go files: marshal a Document (or inline node list) to its
// canonical JSON shape (spec.md §6) and diff it against an expected
// fixture with a readable unified diff when they don't match.
package asgtest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Indent renders v (anything encoding/json can marshal - typically a
// *adoc.Document or the result of adoc.MarshalInlineNodes) as indented
// JSON, for stable fixture comparison.
func Indent(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Diff returns "" if got and want serialize to identical JSON, or a
// unified diff string (via go-difflib) otherwise.
func Diff(got, want interface{}) (string, error) {
	gotJSON, err := Indent(got)
	if err != nil {
		return "", fmt.Errorf("marshaling got: %w", err)
	}
	wantJSON, err := Indent(want)
	if err != nil {
		return "", fmt.Errorf("marshaling want: %w", err)
	}
	if gotJSON == wantJSON {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(wantJSON),
		B:        difflib.SplitLines(gotJSON),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", err
	}
	return text, nil
}

// DiffRaw is Diff for two already-serialized JSON documents (e.g. one
// loaded from a golden .json fixture file), reindenting both before
// comparing so formatting differences alone don't fail a test.
func DiffRaw(got, want []byte) (string, error) {
	var gotAny, wantAny interface{}
	if err := json.Unmarshal(got, &gotAny); err != nil {
		return "", fmt.Errorf("unmarshaling got: %w", err)
	}
	if err := json.Unmarshal(want, &wantAny); err != nil {
		return "", fmt.Errorf("unmarshaling want: %w", err)
	}
	return Diff(gotAny, wantAny)
}
