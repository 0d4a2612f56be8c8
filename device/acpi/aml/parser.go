// Package aml turns ACPI definition blocks (DSDT and SSDT tables) into a tree
// of nodes that mirrors the AML grammar. The parser never executes bytecode;
// it only tracks declared names so that calls to methods declared earlier in
// the stream receive their arguments.
package aml

import (
	"amlkit/device/acpi/table"
	"fmt"
	"io"
)

// Parser decodes AML definition blocks into a node tree.
type Parser struct {
	tree      *Tree
	errWriter io.Writer
	tableName string
	ns        *namespace

	// Context for the first failure of the current parse.
	errOffset uint32
	errDetail string
}

// NewParser returns a new AML parser instance that allocates nodes from tree
// and reports parse errors to errWriter.
func NewParser(errWriter io.Writer, tree *Tree) *Parser {
	return &Parser{
		errWriter: errWriter,
		tree:      tree,
	}
}

// ParseDefinitionBlock parses a complete definition block (table header
// followed by AML bytecode) using a fresh tree and returns its root node.
func ParseDefinitionBlock(buf []byte) (*RootNode, error) {
	return NewParser(io.Discard, NewTree()).ParseDefinitionBlock("", buf)
}

// ParseDefinitionBlock parses the definition block in buf. The header is
// only used for its length field; bytes past that length are ignored. On
// failure every node allocated for the table is released and a single
// diagnostic line is written to the parser's error writer.
func (p *Parser) ParseDefinitionBlock(tableName string, buf []byte) (*RootNode, error) {
	p.tableName = tableName
	p.errOffset, p.errDetail = 0, ""

	hdr, err := table.ReadHeader(buf)
	if err != nil {
		p.errDetail = fmt.Sprintf("table header: %s", err.Error())
		return nil, p.report(ErrInvalidParameter)
	}
	if tableName == "" {
		p.tableName = hdr.SignatureString()
	}

	if hdr.Length < table.HeaderLength || uint64(hdr.Length) > uint64(len(buf)) {
		p.errOffset = 4
		p.errDetail = fmt.Sprintf("table length %d does not fit in a %d byte buffer", hdr.Length, len(buf))
		return nil, p.report(ErrInvalidParameter)
	}

	root, err := p.tree.NewRootNode()
	if err != nil {
		p.failAt(table.HeaderLength, err, "cannot allocate root node")
		return nil, p.report(err)
	}
	root.amlOffset = table.HeaderLength

	p.ns = newNamespace()
	defer func() { p.ns = nil }()

	s := newStream(buf[table.HeaderLength:hdr.Length], table.HeaderLength)
	if err = p.parseNode(root, s); err == nil && !s.EOF() {
		err = p.fail(s, ErrInvalidParameter, "%d trailing bytes after last object", s.Remaining())
	}

	if err != nil {
		p.tree.Delete(root)
		return nil, p.report(err)
	}

	return root, nil
}

// fail records the context of the first error encountered while parsing
// and returns err.
func (p *Parser) fail(s *stream, err error, format string, args ...interface{}) error {
	return p.failAt(s.Offset(), err, format, args...)
}

func (p *Parser) failAt(offset uint32, err error, format string, args ...interface{}) error {
	if p.errDetail == "" {
		p.errOffset = offset
		p.errDetail = fmt.Sprintf(format, args...)
	}
	return err
}

func (p *Parser) report(err error) error {
	fmt.Fprintf(p.errWriter, "[table: %s, offset: %d] %s: %s\n", p.tableName, p.errOffset, p.errDetail, err.Error())
	return err
}

// parseNode parses the arguments of node from s.
func (p *Parser) parseNode(node Node, s *stream) error {
	switch n := node.(type) {
	case *RootNode:
		return p.parseVarArgs(n, s, -1)
	case *ObjectNode:
		if n.IsMethodInvocation() {
			return p.parseVarArgs(n, s, int(n.argCount))
		}

		if err := p.parseFixedArgs(n, s); err != nil {
			return err
		}

		if n.enc.Has(AttrDeclaresName) {
			p.ns.register(n)
		}

		switch {
		case n.enc.Has(AttrHasChildObjects):
			return p.parseVarArgs(n, s, -1)
		case n.enc.Has(AttrHasByteList):
			return p.parseByteList(n, s)
		case n.enc.Has(AttrHasFieldList):
			return p.parseFieldList(n, s)
		}
		return nil
	case *DataNode:
		return nil
	}

	return p.fail(s, ErrInvalidParameter, "unsupported node type")
}

// parseFixedArgs parses the fixed arguments of obj in order. Each argument
// is parsed from a sub-stream covering the rest of s and s is then advanced
// by the number of bytes the argument used.
func (p *Parser) parseFixedArgs(obj *ObjectNode, s *stream) error {
	for i := 0; i < len(obj.fixedArgs); i++ {
		sub := s.SubStream()
		if err := p.parseArgument(obj, i, obj.enc.FixedArg(i), sub); err != nil {
			return err
		}
		s.skip(sub.Position())
	}

	return nil
}

// parseVarArgs parses objects from s and appends them to parent until s is
// exhausted. A non-negative limit requires exactly limit objects to be
// parsed instead.
func (p *Parser) parseVarArgs(parent Node, s *stream, limit int) error {
	for count := 0; limit < 0 || count < limit; count++ {
		if s.EOF() {
			if limit < 0 {
				return nil
			}
			return p.fail(s, ErrUnexpectedEndOfStream, "method invocation expects %d args; got %d", limit, count)
		}

		sub := s.SubStream()
		if err := p.parseArgument(parent, -1, ArgTypeObject, sub); err != nil {
			return err
		}
		s.skip(sub.Position())
	}

	return nil
}

// parseArgument parses a single argument of the specified type from s and
// attaches it to parent; slot selects a fixed argument slot or, if negative,
// appends the argument to the parent's children. The node is attached before
// its own contents are parsed so that names it declares resolve against its
// ancestors. On failure the partially parsed node is deleted.
func (p *Parser) parseArgument(parent Node, slot int, argType ArgType, s *stream) error {
	var (
		child Node
		err   error
	)

	switch argType {
	case ArgTypeUInt8, ArgTypeUInt16, ArgTypeUInt32, ArgTypeUInt64:
		child, err = p.parseInteger(s, argType)
	case ArgTypeNameString:
		child, err = p.parseNameString(s)
	case ArgTypeString:
		child, err = p.parseString(s)
	case ArgTypeFieldPkgLen:
		child, err = p.parseFieldPkgLen(parent, s)
	case ArgTypeObject:
		child, err = p.parseObject(s)
	default:
		err = p.fail(s, ErrInvalidParameter, "unsupported argument type %d", argType)
	}

	if err != nil {
		return err
	}

	if obj, ok := parent.(*ObjectNode); ok && slot >= 0 {
		p.tree.setFixedArg(obj, slot, child)
	} else {
		p.tree.appendChild(parent, child)
	}

	switch c := child.(type) {
	case *ObjectNode:
		if err = p.parseObjectContents(c, s); err != nil {
			p.tree.Delete(c)
			return err
		}
	case *DataNode:
		if argType == ArgTypeObject && c.dataType == DataTypeNameString && !holdsNameReference(parent, slot) {
			return p.parseMethodInvocation(parent, c, s)
		}
	}

	return nil
}

// parseObjectContents parses the arguments of obj whose opcode (and
// PkgLength) have already been consumed from s.
func (p *Parser) parseObjectContents(obj *ObjectNode, s *stream) error {
	if err := p.parseNode(obj, s); err != nil {
		return err
	}

	if obj.enc.Has(AttrHasPkgLength) && !s.EOF() {
		return p.fail(s, ErrInvalidParameter, "%d unparsed bytes left in %s body", s.Remaining(), obj.enc.name)
	}

	return nil
}

// parseMethodInvocation checks whether the NameString name refers to a
// method declared before it. If so, name is replaced by a method invocation
// node which takes ownership of name and parses the method arguments from s.
// Otherwise name is left untouched.
func (p *Parser) parseMethodInvocation(parent Node, name *DataNode, s *stream) error {
	decl, argCount := p.ns.resolveInvocation(scopeOf(parent), name.data)
	if decl == nil {
		return nil
	}

	inv, err := p.tree.NewObjectNode(&methodInvocationEncoding, 0)
	if err != nil {
		return p.failAt(name.amlOffset, err, "cannot allocate method invocation node")
	}
	inv.amlOffset = name.amlOffset
	inv.decl = decl
	inv.argCount = argCount

	p.tree.replace(name, inv)
	p.tree.setFixedArg(inv, 0, name)

	if err = p.parseNode(inv, s); err != nil {
		p.tree.Delete(inv)
		return err
	}

	return nil
}

// holdsNameReference returns true if a NameString stored in the specified
// slot of parent (or in its children for a negative slot) is an object
// reference and never a method call. This covers field elements and the
// elements of a Package or VarPackage.
func holdsNameReference(parent Node, slot int) bool {
	obj, ok := parent.(*ObjectNode)
	if !ok {
		return false
	}

	switch {
	case obj.enc.Has(AttrIsFieldElement):
		return true
	case obj.enc.op == OpPackage, obj.enc.op == OpVarPackage:
		return slot < 0
	}
	return false
}

func isFieldElement(n Node) bool {
	obj, ok := n.(*ObjectNode)
	return ok && obj.enc.Has(AttrIsFieldElement)
}

// parseObject parses the opcode at the head of s and returns either a new
// object node or, for NameStrings, a data node. For objects with a
// PkgLength, the window of s is shrunk to the extent of the object body.
func (p *Parser) parseObject(s *stream) (Node, error) {
	offset := s.Offset()

	b, err := s.Peek(1)
	if err != nil {
		return nil, p.fail(s, ErrUnexpectedEndOfStream, "missing opcode")
	}
	if b[0] == extOpPrefix {
		if b, err = s.Peek(2); err != nil {
			return nil, p.fail(s, ErrUnexpectedEndOfStream, "truncated extended opcode")
		}
	}

	enc := EncodingFor(b)
	if enc == nil {
		return nil, p.fail(s, ErrInvalidEncoding, "unknown opcode 0x%x", b)
	}

	if enc.Has(AttrIsNameChar) {
		return p.parseNameString(s)
	}

	// EncodingFor only matches when the opcode bytes are in the window.
	s.skip(enc.opcodeLen())

	var (
		pkgLen uint32
		width  uint8
	)
	if enc.Has(AttrHasPkgLength) {
		if pkgLen, width, err = p.parsePkgLength(s); err != nil {
			return nil, err
		}
	}

	obj, err := p.tree.NewObjectNode(enc, pkgLen)
	if err != nil {
		return nil, p.failAt(offset, err, "cannot allocate %s node", enc.name)
	}
	obj.pkgLenWidth = width
	obj.amlOffset = offset

	return obj, nil
}

// parsePkgLength decodes the PkgLength at the head of s, shrinks s to the
// encoded package size and consumes the PkgLength bytes. It returns the
// decoded length and the number of bytes used to encode it.
func (p *Parser) parsePkgLength(s *stream) (uint32, uint8, error) {
	lead, err := s.PeekByte()
	if err != nil {
		return 0, 0, p.fail(s, ErrUnexpectedEndOfStream, "missing PkgLength")
	}

	width := uint32(lead>>6) + 1
	b, err := s.Peek(width)
	if err != nil {
		return 0, 0, p.fail(s, ErrUnexpectedEndOfStream, "truncated %d byte PkgLength", width)
	}

	if width > 1 && lead&0x30 != 0 {
		return 0, 0, p.fail(s, ErrInvalidEncoding, "reserved bits set in PkgLength lead byte 0x%x", lead)
	}

	pkgLen := decodePkgLength(b)
	if pkgLen < width {
		return 0, 0, p.fail(s, ErrInvalidParameter, "PkgLength %d is shorter than its encoding", pkgLen)
	}
	if err = s.ShrinkExtent(pkgLen); err != nil {
		return 0, 0, p.fail(s, ErrInvalidParameter, "PkgLength %d exceeds the %d remaining bytes", pkgLen, s.Remaining())
	}

	s.skip(width)
	return pkgLen, uint8(width), nil
}

// decodePkgLength decodes a complete PkgLength encoding. If the two top bits
// of the lead byte are zero, its remaining bits hold the length. Otherwise
// they count the bytes that follow; the low nibble of the lead byte supplies
// the least significant bits and each following byte adds 8 more.
func decodePkgLength(b []byte) uint32 {
	if len(b) == 1 {
		return uint32(b[0] & 0x3f)
	}

	pkgLen := uint32(b[0] & 0xf)
	for i, v := range b[1:] {
		pkgLen |= uint32(v) << (4 + 8*uint(i))
	}
	return pkgLen
}

// parseInteger reads a fixed-width little-endian integer.
func (p *Parser) parseInteger(s *stream, argType ArgType) (Node, error) {
	offset := s.Offset()
	width := argType.width()

	b, err := s.ReadBytes(width)
	if err != nil {
		return nil, p.fail(s, ErrUnexpectedEndOfStream, "truncated %s", argType)
	}

	return p.newDataNode(DataType(argType-ArgTypeUInt8)+DataTypeUInt8, b, offset)
}

// parseNameString reads a complete NameString, prefixes included.
func (p *Parser) parseNameString(s *stream) (Node, error) {
	offset := s.Offset()

	b := s.unread()
	n, err := nameStringLength(b)
	if err != nil {
		return nil, p.fail(s, err, "malformed NameString")
	}

	s.skip(n)
	return p.newDataNode(DataTypeNameString, b[:n], offset)
}

// parseString reads a null-terminated string; the terminator is kept.
func (p *Parser) parseString(s *stream) (Node, error) {
	offset := s.Offset()
	start := s.unread()

	var n uint32
	for {
		b, err := s.ReadByte()
		if err != nil {
			return nil, p.fail(s, ErrUnexpectedEndOfStream, "unterminated string")
		}
		n++
		if b == 0 {
			break
		}
	}

	return p.newDataNode(DataTypeString, start[:n], offset)
}

// parseFieldPkgLen reads the PkgLength that defines the bit width of a field
// element. It is only valid as an argument of a field element.
func (p *Parser) parseFieldPkgLen(parent Node, s *stream) (Node, error) {
	if !isFieldElement(parent) {
		return nil, p.fail(s, ErrInvalidParameter, "FieldPkgLen outside of a field list")
	}

	offset := s.Offset()
	lead, err := s.PeekByte()
	if err != nil {
		return nil, p.fail(s, ErrUnexpectedEndOfStream, "missing field length")
	}

	b, err := s.ReadBytes(uint32(lead>>6) + 1)
	if err != nil {
		return nil, p.fail(s, ErrUnexpectedEndOfStream, "truncated field length")
	}

	return p.newDataNode(DataTypeFieldPkgLen, b, offset)
}

func (p *Parser) newDataNode(dataType DataType, b []byte, offset uint32) (Node, error) {
	dn, err := p.tree.NewDataNode(dataType, b)
	if err != nil {
		return nil, p.failAt(offset, err, "cannot allocate %s node", dataType)
	}
	dn.amlOffset = offset
	return dn, nil
}
