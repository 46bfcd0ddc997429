// wsv converts WSV documents between the text, binary and Base64 forms
// and exports their values as JSON or CBOR.
//
// The input is read from the file named by the only argument, or from
// stdin when there is none or it is "-". Text input may be plain UTF-8 or
// reliable text with a byte order mark in any supported encoding.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"

	"github.com/wsv-lang/go-wsv"
	"github.com/wsv-lang/go-wsv/reliabletxt"
)

// Set via -ldflags at build time.
var version = "0.1.0-dev"

const (
	formatText   = "text"
	formatBinary = "binary"
	formatBase64 = "base64"
	formatJSON   = "json"
	formatCBOR   = "cbor"
)

type options struct {
	from       string
	to         string
	strip      bool
	encoding   string
	noPreamble bool
	legacy     bool
	output     string
	verbose    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	var showVersion bool

	flagSet := pflag.NewFlagSet("wsv", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.from, "from", formatText, "input format: text, binary or base64")
	flagSet.StringVar(&opts.to, "to", formatText, "output format: text, binary, base64, json or cbor")
	flagSet.BoolVar(&opts.strip, "strip", false, "drop whitespace and comments from text output")
	flagSet.StringVar(&opts.encoding, "encoding", "", "text encoding with byte order mark: utf8, utf16, utf16le or utf32")
	flagSet.BoolVar(&opts.noPreamble, "no-preamble", false, "binary input and output without the BWSV preamble")
	flagSet.BoolVar(&opts.legacy, "legacy", false, "write binary output in the legacy BW1 format")
	flagSet.StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log conversion details to stderr")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wsv [flags] [file]\n\nConvert WSV documents between formats.\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if showVersion {
		fmt.Fprintf(stdout, "wsv %s\n", version)
		return nil
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := opts.validate(); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) > 1 {
		return fmt.Errorf("unexpected argument: %s", rest[1])
	}
	input := "-"
	if len(rest) == 1 {
		input = rest[0]
	}

	data, err := readInput(input, stdin)
	if err != nil {
		return err
	}
	logger.Debug("read input", "source", input, "bytes", len(data), "format", opts.from)

	doc, err := opts.decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	logger.Debug("parsed document", "lines", len(doc.Lines), "encoding", doc.Encoding)

	out, err := opts.encode(doc)
	if err != nil {
		return err
	}

	if err := writeOutput(opts.output, stdout, out); err != nil {
		return err
	}
	logger.Debug("wrote output", "format", opts.to, "bytes", len(out))
	return nil
}

func (o *options) validate() error {
	switch o.from {
	case formatText, formatBinary, formatBase64:
	default:
		return fmt.Errorf("unknown input format %q", o.from)
	}
	switch o.to {
	case formatText, formatBinary, formatBase64, formatJSON, formatCBOR:
	default:
		return fmt.Errorf("unknown output format %q", o.to)
	}
	if o.encoding != "" {
		if _, err := reliabletxt.ParseEncoding(o.encoding); err != nil {
			return err
		}
	}
	if o.legacy && o.noPreamble {
		return fmt.Errorf("--legacy cannot be combined with --no-preamble")
	}
	return nil
}

// decode turns the input bytes into a document.
func (o *options) decode(data []byte) (*wsv.Document, error) {
	switch o.from {
	case formatBinary:
		lines, err := wsv.DecodeBinary(data, !o.noPreamble)
		if err != nil {
			return nil, err
		}
		return wsv.DocumentFromJagged(lines, reliabletxt.UTF8)
	case formatBase64:
		return wsv.DocumentFromBase64(strings.TrimSpace(string(data)), !o.strip)
	default:
		dec := wsv.NewDecoder(bytes.NewReader(data))
		dec.SetPreserve(!o.strip)
		var doc wsv.Document
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}
}

// encode renders the document in the output format.
func (o *options) encode(doc *wsv.Document) ([]byte, error) {
	if o.encoding != "" {
		enc, _ := reliabletxt.ParseEncoding(o.encoding)
		doc.Encoding = enc
	}

	switch o.to {
	case formatBinary:
		if o.legacy {
			return wsv.EncodeLegacyBinary(doc.Jagged())
		}
		return doc.BinaryWSV(!o.noPreamble)
	case formatBase64:
		s, err := doc.Base64(!o.strip)
		if err != nil {
			return nil, err
		}
		return []byte(s + "\n"), nil
	case formatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(toStrings(doc.Jagged())); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatCBOR:
		encMode, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		return encMode.Marshal(toStrings(doc.Jagged()))
	default:
		if o.encoding != "" {
			return doc.Bytes(!o.strip)
		}
		var buf bytes.Buffer
		enc := wsv.NewEncoder(&buf)
		enc.SetPreserve(!o.strip)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// toStrings maps null values to nil so that they export as null.
func toStrings(lines [][]wsv.Value) [][]*string {
	out := make([][]*string, len(lines))
	for i, values := range lines {
		row := make([]*string, len(values))
		for j, v := range values {
			if s, ok := v.Text(); ok {
				row[j] = &s
			}
		}
		out[i] = row
	}
	return out
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
