package main

import (
	"amlkit/device/acpi/aml"
	"amlkit/device/acpi/table"
	"amlkit/kfmt"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[amldump] error: %s\n", err.Error())
	os.Exit(1)
}

type options struct {
	maxNodes  int
	roundTrip bool
	quiet     bool
}

// dumpTable parses the definition block in buf and writes its tree to out.
// Parser diagnostics are sent to errOut.
func dumpTable(out, errOut io.Writer, name string, buf []byte, opts options) error {
	tree := aml.NewTree()
	tree.MaxNodes = opts.maxNodes

	root, err := aml.NewParser(errOut, tree).ParseDefinitionBlock("", buf)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer tree.Delete(root)

	if !opts.quiet {
		aml.PrettyPrint(out, root)
	}
	fmt.Fprintf(out, "%s: %d nodes\n", name, tree.Live())

	if !opts.roundTrip {
		return nil
	}

	// The header was validated by the parser.
	hdr, _ := table.ReadHeader(buf)
	body, err := aml.Serialize(root)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !bytes.Equal(body, buf[table.HeaderLength:hdr.Length]) {
		return fmt.Errorf("%s: serialized AML does not match the table contents", name)
	}
	fmt.Fprintf(out, "%s: round-trip ok\n", name)

	return nil
}

func runTool(args []string, out, errOut io.Writer) error {
	var opts options

	fs := flag.NewFlagSet("amldump", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.IntVar(&opts.maxNodes, "max-nodes", 0, "the max number of nodes to allocate per table or 0 for no limit")
	fs.BoolVar(&opts.roundTrip, "roundtrip", false, "verify that each parsed table serializes back to its original contents")
	fs.BoolVar(&opts.quiet, "q", false, "do not print the parsed tree")
	fs.Usage = func() {
		fmt.Fprint(errOut, "amldump: parse ACPI definition blocks and dump their AML tree\n\n")
		fmt.Fprint(errOut, "Usage: amldump [options] table.aml...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return errors.New("missing table file argument")
	}

	diag := &kfmt.PrefixWriter{Sink: errOut, Prefix: []byte("[amldump] ")}
	for _, name := range fs.Args() {
		buf, err := os.ReadFile(name)
		if err != nil {
			return err
		}

		diag.Reset()
		if err = dumpTable(out, diag, name, buf, opts); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	if err := runTool(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		exit(err)
	}
}
