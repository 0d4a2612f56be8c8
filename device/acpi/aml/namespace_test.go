package aml

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNamespaceRegister(t *testing.T) {
	body := cat(
		external("DEV0", 6, 0),
		nameDecl("VAL0", op(OpOne)),
		// Redeclarations do not replace the first declaration ...
		nameDecl("VAL0", op(OpZero)),
		// ... unless the first one was an External.
		device("DEV0", nameDecl("VAL1", op(OpOne))),
		scope("DEV0", nameDecl("VAL2", op(OpOne))),
		scope(`\_SB_`),
		// Climbs above the root scope
		nameDecl("^^VAL3", op(OpOne)),
	)

	tree := NewTree()
	p := NewParser(io.Discard, tree)
	p.ns = newNamespace()

	root, _ := tree.NewRootNode()
	if err := p.parseNode(root, newStream(body, 0)); err != nil {
		t.Fatal(err)
	}

	expPaths := []string{`\DEV0`, `\VAL0`, `\DEV0.VAL1`, `\DEV0.VAL2`}
	if diff := cmp.Diff(expPaths, p.ns.paths()); diff != "" {
		t.Fatalf("registered paths mismatch (-want +got):\n%s", diff)
	}

	children := root.Children()
	specs := []struct {
		path string
		exp  Node
	}{
		{`\DEV0`, children[3]},
		{`\VAL0`, children[1]},
		{`\_SB_`, nil},
		{`\VAL3`, nil},
	}

	for specIndex, spec := range specs {
		got := p.ns.lookup(spec.path)
		if spec.exp == nil {
			if got != nil {
				t.Errorf("[spec %d] expected %q not to be registered", specIndex, spec.path)
			}
			continue
		}
		if got != spec.exp {
			t.Errorf("[spec %d] lookup(%q) returned the wrong declaration", specIndex, spec.path)
		}
	}

	// Scopes still record the path they reopen.
	if exp, got := `\DEV0`, children[4].(*ObjectNode).Path(); got != exp {
		t.Errorf("expected scope path %q; got %q", exp, got)
	}
	if got := children[6].(*ObjectNode).Path(); got != "" {
		t.Errorf("expected VAL3 to have no path; got %q", got)
	}
}

func TestNamespaceResolve(t *testing.T) {
	body := cat(
		nameDecl("VAL0", op(OpOne)),
		device("DEV0",
			nameDecl("VAL0", op(OpOne)),
			device("DEV1", nameDecl("VAL1", op(OpOne))),
		),
	)

	tree := NewTree()
	p := NewParser(io.Discard, tree)
	p.ns = newNamespace()

	root, _ := tree.NewRootNode()
	if err := p.parseNode(root, newStream(body, 0)); err != nil {
		t.Fatal(err)
	}

	specs := []struct {
		scope   string
		name    []byte
		expPath string
	}{
		{`\`, path("VAL0"), `\VAL0`},
		{`\DEV0`, path("VAL0"), `\DEV0.VAL0`},
		{`\DEV0.DEV1`, path("VAL0"), `\DEV0.VAL0`},
		{`\DEV0.DEV1`, path(`\VAL0`), `\VAL0`},
		{`\DEV0.DEV1`, path("^VAL0"), `\DEV0.VAL0`},
		{`\DEV0.DEV1`, path("^^VAL0"), `\VAL0`},
		{`\`, path("DEV0.DEV1.VAL1"), `\DEV0.DEV1.VAL1`},
		// Upward search only applies to single segment names
		{`\DEV0`, path("DEV1.VAL1"), `\DEV0.DEV1.VAL1`},
		{`\DEV0.DEV1`, path("DEV1.VAL1"), ""},
		{`\`, path("VAL1"), ""},
		{`\DEV0`, path("^^VAL0"), ""},
		{`\`, path(`\`), ""},
	}

	for specIndex, spec := range specs {
		obj := p.ns.resolve(spec.scope, spec.name)

		var got string
		if obj != nil {
			got = obj.Path()
		}
		if got != spec.expPath {
			t.Errorf("[spec %d] resolving %q from %q: expected %q; got %q", specIndex, spec.name, spec.scope, spec.expPath, got)
		}
	}

	if exp, got := 5, p.ns.Len(); got != exp {
		t.Errorf("expected %d registered names; got %d", exp, got)
	}
}

func TestInvocationArgCount(t *testing.T) {
	specs := []struct {
		body   []byte
		exp    uint8
		expErr bool
	}{
		{method("MTH0", 0, op(OpNoop)), 0, false},
		{method("MTH0", 0xf3, op(OpNoop)), 3, false},
		{external("EXT0", externalMethodObj, 4), 4, false},
		{external("EXT0", externalMethodObj, 0xff), maxMethodArgs, false},
		{external("EXT0", 5, 1), 0, true},
		{nameDecl("VAL0", op(OpOne)), 0, true},
	}

	for specIndex, spec := range specs {
		root, _ := parseBody(t, spec.body)

		got, ok := invocationArgCount(root.Children()[0].(*ObjectNode))
		if ok == spec.expErr {
			t.Errorf("[spec %d] expected ok to be %t", specIndex, !spec.expErr)
			continue
		}
		if got != spec.exp {
			t.Errorf("[spec %d] expected arg count %d; got %d", specIndex, spec.exp, got)
		}
	}
}
