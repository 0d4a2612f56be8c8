package aml

import (
	"amlkit/device/acpi/table"
	"bytes"
	"io"
	"testing"
)

// FuzzParseDefinitionBlock feeds arbitrary AML bodies to the parser. Inputs
// that parse must serialize back to the same bytes and failed parses must
// not leak any nodes.
func FuzzParseDefinitionBlock(f *testing.F) {
	f.Add([]byte{0x5b, 0x82, 0x0c, 'D', 'E', 'V', '0', 0x08, 'V', 'A', 'L', '0', 0x0a, 0x06})
	f.Add(sampleTable()[table.HeaderLength:])
	f.Add(cat(
		method("MTH1", 2, []byte{byte(OpReturn), byte(OpArg0)}),
		op(OpStore), path("MTH1"), op(OpOne), op(OpZero), op(OpLocal0),
	))
	f.Add([]byte{0x10, 0x81})

	f.Fuzz(func(t *testing.T, body []byte) {
		tree := NewTree()
		tree.MaxNodes = 1 << 16

		root, err := NewParser(io.Discard, tree).ParseDefinitionBlock("DSDT", mockTable(body))
		if err != nil {
			if live := tree.Live(); live != 0 {
				t.Fatalf("failed parse leaked %d nodes", live)
			}
			return
		}

		got, err := Serialize(root)
		if err != nil {
			t.Fatalf("unable to serialize parsed tree: %v", err)
		}
		if !bytes.Equal(got, body) {
			t.Fatalf("serialized output differs from input:\nwant: % x\ngot:  % x", body, got)
		}

		PrettyPrint(io.Discard, root)

		tree.Delete(root)
		if live := tree.Live(); live != 0 {
			t.Fatalf("deleting the root leaked %d nodes", live)
		}
	})
}
