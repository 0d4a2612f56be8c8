package aml

import "bytes"

// ErrPkgLengthOverflow is returned by Serialize when an object body is too
// large to be described by a PkgLength.
var ErrPkgLengthOverflow = &Error{Module: "acpi_aml_codegen", Message: "object body too large for a PkgLength"}

// maxPkgLength is the largest value that a 4 byte PkgLength can hold.
const maxPkgLength = 1<<28 - 1

// Serialize encodes the subtree rooted at n back to AML bytecode. For a
// RootNode the result is the definition block body without its header.
// PkgLengths are encoded using at least as many bytes as the parsed input
// used, so that serializing a parsed tree reproduces the original bytes.
func Serialize(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := serialize(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func serialize(buf *bytes.Buffer, n Node) error {
	switch v := n.(type) {
	case *RootNode:
		return serializeList(buf, v.children)
	case *DataNode:
		buf.Write(v.data)
		return nil
	case *ObjectNode:
		buf.Write(v.enc.OpcodeBytes())
		if !v.enc.Has(AttrHasPkgLength) {
			if err := serializeList(buf, v.fixedArgs); err != nil {
				return err
			}
			return serializeList(buf, v.children)
		}

		var body bytes.Buffer
		if err := serializeList(&body, v.fixedArgs); err != nil {
			return err
		}
		if err := serializeList(&body, v.children); err != nil {
			return err
		}

		pkgLen, err := encodePkgLength(uint32(body.Len()), v.pkgLenWidth)
		if err != nil {
			return err
		}
		buf.Write(pkgLen)
		buf.Write(body.Bytes())
	}

	return nil
}

func serializeList(buf *bytes.Buffer, list []Node) error {
	for _, n := range list {
		if n == nil {
			continue
		}
		if err := serialize(buf, n); err != nil {
			return err
		}
	}
	return nil
}

// encodePkgLength returns the PkgLength encoding for a body of bodyLen
// bytes. The encoding uses the smallest width, not less than minWidth, that
// can hold bodyLen plus the width itself.
func encodePkgLength(bodyLen uint32, minWidth uint8) ([]byte, error) {
	if minWidth == 0 {
		minWidth = 1
	}

	for width := uint32(minWidth); width <= 4; width++ {
		if bodyLen > maxPkgLength-width {
			break
		}
		pkgLen := bodyLen + width

		switch {
		case width == 1 && pkgLen <= 0x3f:
			return []byte{byte(pkgLen)}, nil
		case width == 1:
			continue
		case pkgLen >= 1<<(4+8*(width-1)):
			continue
		}

		out := make([]byte, width)
		out[0] = byte(width-1)<<6 | byte(pkgLen&0xf)
		for i := uint32(1); i < width; i++ {
			out[i] = byte(pkgLen >> (4 + 8*(i-1)))
		}
		return out, nil
	}

	return nil, ErrPkgLengthOverflow
}
