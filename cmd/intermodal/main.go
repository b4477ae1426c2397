package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"xdao.co/intermodal/addr"
	"xdao.co/intermodal/codec"
	"xdao.co/intermodal/seal"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "manifest":
		return cmdManifest(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "intermodal: envelope blob inspection CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  intermodal manifest [--format json|yaml] <file>")
	fmt.Fprintln(w, "  intermodal cid <file>")
	fmt.Fprintln(w, "  intermodal verify --key <b64-ed25519-pub> --sig <b64> <file>")
}

// codecFor picks a codec from an explicit format flag or, when the flag
// is empty, the file extension. JSON is the fallback.
func codecFor(format, path string) (codec.Codec, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	switch format {
	case "json":
		return codec.JSON{}, nil
	case "yaml":
		return codec.YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %q", format)
	}
}

func cmdManifest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)
	fs.SetOutput(errOut)
	format := fs.String("format", "", "blob format: json or yaml (default: by extension)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "manifest: expected exactly one file")
		return 2
	}
	path := fs.Arg(0)

	c, err := codecFor(*format, path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	h, err := codec.DecodeHeader(c, blob)
	if err != nil {
		fmt.Fprintf(errOut, "decode header: %v\n", err)
		return 1
	}

	m := h.Manifest
	fmt.Fprintf(out, "domain:  %s\n", m.Domain)
	fmt.Fprintf(out, "scope:   %s\n", m.Scope)
	fmt.Fprintf(out, "kind:    %s\n", m.Kind)
	fmt.Fprintf(out, "version: %d\n", m.Version)
	fmt.Fprintf(out, "origin:  %s\n", m.Origin)
	fmt.Fprintf(out, "ctime:   %s\n", m.CTime.UTC().Format(time.RFC3339Nano))
	if len(m.Labels) > 0 {
		keys := make([]string, 0, len(m.Labels))
		for k := range m.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(out, "labels:")
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %s\n", k, m.Labels[k])
		}
	}
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "cid: expected exactly one file")
		return 2
	}
	blob, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	id, err := addr.CID(blob)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, id)
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	keyB64 := fs.String("key", "", "base64 ed25519 public key")
	sigB64 := fs.String("sig", "", "base64 seal to check")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || *keyB64 == "" || *sigB64 == "" {
		fmt.Fprintln(errOut, "verify: expected --key, --sig, and exactly one file")
		return 2
	}
	pub, err := base64.StdEncoding.DecodeString(*keyB64)
	if err != nil {
		fmt.Fprintf(errOut, "verify: invalid key base64: %v\n", err)
		return 2
	}
	blob, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if err := seal.VerifyEd25519(blob, *sigB64, ed25519.PublicKey(pub)); err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, "OK")
	return 0
}
