package main

import (
	"amlkit/device/acpi/table"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// devTable returns a DSDT containing Device(DEV0) { Name(VAL0, 6) }.
func devTable() []byte {
	body := []byte{
		0x5b, 0x82, 0x0c, 'D', 'E', 'V', '0',
		0x08, 'V', 'A', 'L', '0', 0x0a, 0x06,
	}
	hdr := table.SDTHeader{
		Signature: [4]byte{'D', 'S', 'D', 'T'},
		Length:    uint32(table.HeaderLength + len(body)),
		Revision:  2,
	}
	return append(hdr.Bytes(), body...)
}

func writeTable(t *testing.T, name string, buf []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunTool(t *testing.T) {
	path := writeTable(t, "dsdt.aml", devTable())

	specs := []struct {
		args      []string
		expOut    []string
		expNotOut []string
	}{
		{
			[]string{path},
			[]string{`+- [Device, path: "\\DEV0"`, "dsdt.aml: 7 nodes\n"},
			[]string{"round-trip"},
		},
		{
			[]string{"-q", "-roundtrip", path},
			[]string{"dsdt.aml: 7 nodes\n", "dsdt.aml: round-trip ok\n"},
			[]string{"+- [Device"},
		},
	}

	for specIndex, spec := range specs {
		var out, errOut bytes.Buffer
		if err := runTool(spec.args, &out, &errOut); err != nil {
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
			continue
		}

		for _, exp := range spec.expOut {
			if !strings.Contains(out.String(), exp) {
				t.Errorf("[spec %d] expected output to contain %q; got:\n%s", specIndex, exp, out.String())
			}
		}
		for _, notExp := range spec.expNotOut {
			if strings.Contains(out.String(), notExp) {
				t.Errorf("[spec %d] expected output not to contain %q; got:\n%s", specIndex, notExp, out.String())
			}
		}
	}
}

func TestRunToolErrors(t *testing.T) {
	truncated := devTable()
	truncated = truncated[:len(truncated)-1]

	t.Run("missing arguments", func(t *testing.T) {
		var out, errOut bytes.Buffer
		if err := runTool(nil, &out, &errOut); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var out, errOut bytes.Buffer
		if err := runTool([]string{filepath.Join(t.TempDir(), "missing.aml")}, &out, &errOut); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("parse error", func(t *testing.T) {
		var out, errOut bytes.Buffer
		path := writeTable(t, "bad.aml", truncated)

		err := runTool([]string{path}, &out, &errOut)
		if err == nil || !strings.Contains(err.Error(), "bad.aml: invalid parameter") {
			t.Fatalf("expected an invalid parameter error; got %v", err)
		}

		if got := errOut.String(); !strings.HasPrefix(got, "[amldump] [table: DSDT, offset: 4] ") {
			t.Fatalf("expected a prefixed diagnostic; got %q", got)
		}
	})

	t.Run("node limit", func(t *testing.T) {
		var out, errOut bytes.Buffer
		path := writeTable(t, "dsdt.aml", devTable())

		err := runTool([]string{"-max-nodes", "3", path}, &out, &errOut)
		if err == nil || !strings.Contains(err.Error(), "out of resources") {
			t.Fatalf("expected an out of resources error; got %v", err)
		}
	})
}
