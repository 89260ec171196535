// Command tck implements the stdin/stdout Test Compatibility Kit protocol
// of spec.md §6, grounded on original_source/acdc-cli/src/bin/tck.rs: read
// one JSON object from stdin ({contents, path, type}), parse it as either
// a full document or inline-only content, and write the serialized ASG to
// stdout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nlopes-acdc/acdc-go/adoc"
)

// tckInput mirrors the Rust binary's TckInput struct field-for-field.
type tckInput struct {
	Contents string `json:"contents"`
	Path     string `json:"path"`
	Type     string `json:"type"`
}

func main() {
	app := &cli.App{
		Name:  "tck",
		Usage: "AsciiDoc Language TCK harness binary: reads a {contents,path,type} JSON object from stdin, writes the serialized ASG to stdout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "optional YAML file of default document attributes (Options.LoadDefaults)",
			},
			&cli.BoolFlag{
				Name:  "safe",
				Usage: "run with SafeMode Safe instead of Unsafe",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var in tckInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("decoding TCK input: %w", err)
	}

	opts := adoc.NewOptions().Silent()
	if c.Bool("safe") {
		opts.SafeMode = adoc.SafeModeSafe
	}
	if cfg := c.String("config"); cfg != "" {
		if err := opts.LoadDefaults(cfg); err != nil {
			return fmt.Errorf("loading config %s: %w", cfg, err)
		}
	}

	log.SetOutput(io.Discard) // the adoc package reports diagnostics as Warnings, not through a logger

	switch in.Type {
	case "block":
		doc, err := adoc.Parse(in.Contents, in.Path, opts)
		if err != nil {
			return reportParseFailure(err)
		}
		return writeJSON(doc)
	case "inline":
		nodes, warnings, err := adoc.ParseInline(in.Contents, opts)
		if err != nil {
			return reportParseFailure(err)
		}
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, w.Error())
		}
		out, err := adoc.MarshalInlineNodes(nodes)
		if err != nil {
			return fmt.Errorf("marshaling inline nodes: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		fmt.Fprintf(os.Stderr, "unsupported type: %s\n", in.Type)
		fmt.Fprintln(os.Stderr, "expected 'block' or 'inline'")
		os.Exit(1)
		return nil
	}
}

func writeJSON(doc *adoc.Document) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(doc)
}

// reportParseFailure prints the parse error's advice (if any) on a
// "help:" line, matching the Rust binary's miette-less fallback branch.
func reportParseFailure(err error) error {
	if pe, ok := err.(*adoc.ParseError); ok && pe.Advice != "" {
		fmt.Fprintf(os.Stderr, "help: %s\n", pe.Advice)
	}
	return err
}
