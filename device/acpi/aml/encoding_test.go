package aml

import "testing"

func TestEncodingTableLookup(t *testing.T) {
	seen := make(map[Opcode]bool)
	for i := range encodingTable {
		enc := &encodingTable[i]
		if seen[enc.op] {
			t.Errorf("opcode 0x%x (%s) appears more than once in the encoding table", uint16(enc.op), enc.name)
		}
		seen[enc.op] = true

		if got := EncodingFor(enc.OpcodeBytes()); got != enc {
			t.Errorf("expected EncodingFor(% x) to return the %s encoding; got %v", enc.OpcodeBytes(), enc.name, got)
		}

		if exp, got := uint32(len(enc.OpcodeBytes())), enc.opcodeLen(); got != exp {
			t.Errorf("[%s] expected opcode length %d; got %d", enc.name, exp, got)
		}

		if enc.Has(AttrDeclaresName) && enc.FixedArg(int(enc.nameArg)) != ArgTypeNameString {
			t.Errorf("[%s] name argument %d is not a NameString", enc.name, enc.nameArg)
		}

		if enc.Has(AttrHasFieldList) && enc.Has(AttrHasChildObjects) {
			t.Errorf("[%s] encoding cannot have both a field list and child objects", enc.name)
		}

		if got := enc.op.String(); got != enc.name {
			t.Errorf("expected opcode 0x%x to be named %q; got %q", uint16(enc.op), enc.name, got)
		}
	}
}

func TestEncodingForNameChars(t *testing.T) {
	specs := []byte{'\\', '^', 0x2e, 0x2f, '_', 'A', 'M', 'Z'}

	for specIndex, spec := range specs {
		enc := EncodingFor([]byte{spec})
		if enc == nil || !enc.Has(AttrIsNameChar) {
			t.Errorf("[spec %d] expected byte 0x%x to map to a name char encoding", specIndex, spec)
		}
	}

	// Some lowercase chars collide with opcodes (e.g. 'a' is Local1) but
	// none of them may start a NameString.
	for ch := byte('a'); ch <= 'z'; ch++ {
		if enc := EncodingFor([]byte{ch}); enc != nil && enc.Has(AttrIsNameChar) {
			t.Errorf("expected lowercase char %q not to map to a name char encoding", ch)
		}
	}

	for _, b := range []byte{'0', '9', 'G' | 0x80} {
		if enc := EncodingFor([]byte{b}); enc != nil {
			t.Errorf("expected byte 0x%x not to map to an encoding; got %s", b, enc.name)
		}
	}
}

func TestEncodingForUnknownOpcodes(t *testing.T) {
	specs := [][]byte{
		nil,
		{0x02},
		{0x30},
		{0x5b},
		{0x5b, 0x00},
		{0x5b, 0xff},
	}

	for specIndex, spec := range specs {
		if enc := EncodingFor(spec); enc != nil {
			t.Errorf("[spec %d] expected no encoding for % x; got %s", specIndex, spec, enc.name)
		}
	}
}

func TestFieldEncodingFor(t *testing.T) {
	specs := []struct {
		lead  byte
		expOp Opcode
	}{
		{0x00, OpIntReservedField},
		{0x01, OpIntAccessField},
		{0x02, OpIntConnectField},
		{0x03, OpIntExtAccessField},
		{'F', OpIntNamedField},
		{'_', OpIntNamedField},
	}

	for specIndex, spec := range specs {
		enc := fieldEncodingFor(spec.lead)
		if enc == nil || enc.op != spec.expOp {
			t.Errorf("[spec %d] expected lead byte 0x%x to select %s; got %v", specIndex, spec.lead, spec.expOp, enc)
			continue
		}

		if !enc.Has(AttrIsFieldElement) {
			t.Errorf("[spec %d] expected %s to be a field element", specIndex, enc.name)
		}
	}

	for _, lead := range []byte{0x04, '\\', '0', 0x80} {
		if enc := fieldEncodingFor(lead); enc != nil {
			t.Errorf("expected lead byte 0x%x not to select a field element; got %s", lead, enc.name)
		}
	}
}

func TestArgTypeList(t *testing.T) {
	list := makeArgs(ArgTypeNameString, ArgTypeUInt8, ArgTypeUInt32, ArgTypeUInt8)
	if exp, got := 4, list.count(); got != exp {
		t.Fatalf("expected %d args; got %d", exp, got)
	}

	exp := []ArgType{ArgTypeNameString, ArgTypeUInt8, ArgTypeUInt32, ArgTypeUInt8, ArgTypeNone}
	for i, argType := range exp {
		if got := list.arg(i); got != argType {
			t.Errorf("expected arg %d to be %s; got %s", i, argType, got)
		}
	}

	if got := makeArgs().count(); got != 0 {
		t.Errorf("expected empty list to have 0 args; got %d", got)
	}

	full := makeArgs(ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject)
	if got := full.count(); got != maxFixedArgs {
		t.Errorf("expected full list to have %d args; got %d", maxFixedArgs, got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected makeArgs to panic when called with too many args")
		}
	}()
	_ = makeArgs(ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject, ArgTypeObject)
}
