package adoc

import (
	"fmt"
	"strings"
)

// SafeMode gates include and URI access, following
// https://docs.asciidoctor.org/asciidoctor/latest/safe-modes/ (see
// original_source/acdc-parser/src/safe_mode.rs, which this mirrors almost
// field-for-field). The levels form a monotone hierarchy:
// Unsafe < Safe < Server < Secure.
type SafeMode int

const (
	// SafeModeUnsafe disables all security measures.
	SafeModeUnsafe SafeMode = iota
	// SafeModeSafe prevents include targets from resolving outside the
	// parent directory of the source file.
	SafeModeSafe
	// SafeModeServer additionally forbids the document from setting
	// source-highlighter, doctype, docinfo, and backend via in-document
	// attribute entries. URI includes require the allow-uri-read
	// attribute. This package does not hide docdir.
	SafeModeServer
	// SafeModeSecure disables every include, local or URI. This package
	// applies no icon restriction.
	SafeModeSecure
)

func (m SafeMode) String() string {
	switch m {
	case SafeModeUnsafe:
		return "unsafe"
	case SafeModeSafe:
		return "safe"
	case SafeModeServer:
		return "server"
	case SafeModeSecure:
		return "secure"
	default:
		return "unknown"
	}
}

// ParseSafeMode parses the case-insensitive names accepted by Asciidoctor.
func ParseSafeMode(s string) (SafeMode, error) {
	switch strings.ToLower(s) {
	case "unsafe":
		return SafeModeUnsafe, nil
	case "safe":
		return SafeModeSafe, nil
	case "server":
		return SafeModeServer, nil
	case "secure":
		return SafeModeSecure, nil
	default:
		return SafeModeUnsafe, fmt.Errorf("invalid safe mode: %q, expected: unsafe, safe, server, secure", s)
	}
}

// serverRestrictedAttributes is the attribute set SafeModeServer (and
// above) forbids a document from setting via an in-body :attr: entry.
var serverRestrictedAttributes = map[string]bool{
	"source-highlighter": true,
	"doctype":            true,
	"docinfo":            true,
	"backend":            true,
}

// checkServerRestrictedAttribute reports whether name is blocked from
// being set by the document itself at the given safe mode.
func checkServerRestrictedAttribute(mode SafeMode, name string) bool {
	return mode >= SafeModeServer && serverRestrictedAttributes[strings.ToLower(name)]
}
