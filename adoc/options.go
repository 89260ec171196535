package adoc

import (
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the Configuration equivalent of spec.md §6: every knob the
// Primary API accepts, plus the ambient-stack fields (Log, ReadFile)
// carried over from go-org's Configuration (org/document.go).
type Options struct {
	SafeMode SafeMode

	// DocumentAttributes are caller-supplied defaults; each entry's Hard
	// flag controls whether it can override a value the document itself
	// set (spec.md §3 invariant 7).
	DocumentAttributes map[string]DefaultAttribute

	Timings bool
	Setext  bool

	IncludeDepthLimit uint
	MaxProcessedBytes uint

	WarningsAsErrors    bool
	UnresolvedXrefIsError bool
	Manpage             bool

	// Log mirrors go-org's Configuration.Log (org/document.go). The parser
	// itself does not write to it; diagnostics are returned as Warnings.
	Log *log.Logger

	// ReadFile resolves include:: targets; overridable for sandboxed or
	// in-memory filesystems, mirroring go-org's Configuration.ReadFile.
	ReadFile ReadFileFunc
}

// DefaultAttribute pairs a caller-supplied attribute value with whether it
// is a "hard" default (spec.md §3 invariant 7: "header-derived entries
// are overridden by caller-supplied defaults only if the caller
// explicitly marks them as hard defaults").
type DefaultAttribute struct {
	Value AttributeValue
	Hard  bool
}

// NewOptions returns Options with the spec's documented defaults.
func NewOptions() *Options {
	return &Options{
		SafeMode:           SafeModeUnsafe,
		DocumentAttributes: map[string]DefaultAttribute{},
		Setext:             true,
		IncludeDepthLimit:  64,
		MaxProcessedBytes:  64 << 20,
		Log:                log.New(os.Stderr, "acdc-go: ", 0),
		ReadFile:           defaultReadFile,
	}
}

// Silent disables diagnostic logging, mirroring go-org's
// Configuration.Silent (org/document.go).
func (o *Options) Silent() *Options {
	o.Log = log.New(io.Discard, "", 0)
	return o
}

// optionsFile is the on-disk shape LoadDefaults reads: an optional
// safe_mode name plus an attributes map of attribute name to either a bare
// scalar (soft default) or a `{value, hard}` object (explicit hardness).
type optionsFile struct {
	SafeMode   string                 `yaml:"safe_mode"`
	Attributes map[string]yaml.Node   `yaml:"attributes"`
}

// LoadDefaults reads a YAML configuration file and merges it into o as
// caller-supplied defaults, grounded on the gopkg.in/yaml.v3 dependency
// carried over from the rest of the example pack (see DESIGN.md's ambient
// stack entry for configuration).
func (o *Options) LoadDefaults(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f optionsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return err
	}
	if f.SafeMode != "" {
		mode, err := ParseSafeMode(f.SafeMode)
		if err != nil {
			return err
		}
		o.SafeMode = mode
	}
	for name, node := range f.Attributes {
		var hard bool
		var value string
		var obj struct {
			Value string `yaml:"value"`
			Hard  bool   `yaml:"hard"`
		}
		if node.Decode(&obj) == nil && (obj.Value != "" || obj.Hard) {
			value, hard = obj.Value, obj.Hard
		} else {
			_ = node.Decode(&value)
		}
		o.DocumentAttributes[name] = DefaultAttribute{Value: StringAttr(value), Hard: hard}
	}
	return nil
}
