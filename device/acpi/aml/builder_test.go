package aml

import (
	"amlkit/device/acpi/table"
	"encoding/binary"
	"strings"
)

// The helpers below assemble AML fixtures by hand. PkgLengths are computed
// independently of the codegen package code.

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}

// calcPkgLength returns the minimal PkgLength encoding for a body of length
// bytes.
func calcPkgLength(length uint32) []byte {
	switch {
	case length+1 <= 63:
		return []byte{byte(length + 1)}
	case length+2 < 4096:
		length += 2
		return []byte{1<<6 | byte(length&0xf), byte(length >> 4)}
	case length+3 < 1048576:
		length += 3
		return []byte{2<<6 | byte(length&0xf), byte(length >> 4), byte(length >> 12)}
	}
	length += 4
	return []byte{3<<6 | byte(length&0xf), byte(length >> 4), byte(length >> 12), byte(length >> 20)}
}

func withPkg(op []byte, body ...[]byte) []byte {
	b := cat(body...)
	return cat(op, calcPkgLength(uint32(len(b))), b)
}

// path encodes an ASL path such as `\_SB_.PCI0` or `^FOO_`.
func path(p string) []byte {
	var out []byte
	if strings.HasPrefix(p, `\`) {
		out = append(out, rootChar)
		p = p[1:]
	}
	for strings.HasPrefix(p, "^") {
		out = append(out, parentPrefixChar)
		p = p[1:]
	}

	if p == "" {
		return append(out, nullName)
	}

	segs := strings.Split(p, ".")
	switch len(segs) {
	case 1:
	case 2:
		out = append(out, dualNamePrefix)
	default:
		out = append(out, multiNamePrefix, byte(len(segs)))
	}
	for _, seg := range segs {
		out = append(out, seg...)
	}
	return out
}

func byteConst(v byte) []byte { return []byte{byte(OpBytePrefix), v} }

func dwordConst(v uint32) []byte {
	out := []byte{byte(OpDwordPrefix), 0, 0, 0, 0}
	binary.LittleEndian.PutUint32(out[1:], v)
	return out
}

func stringConst(s string) []byte {
	return cat([]byte{byte(OpStringPrefix)}, []byte(s), []byte{0})
}

func op(o Opcode) []byte {
	if o.IsExtended() {
		return []byte{extOpPrefix, byte(o)}
	}
	return []byte{byte(o)}
}

func nameDecl(p string, value []byte) []byte {
	return cat(op(OpName), path(p), value)
}

func scope(p string, body ...[]byte) []byte {
	return withPkg(op(OpScope), cat(path(p), cat(body...)))
}

func device(p string, body ...[]byte) []byte {
	return withPkg(op(OpDevice), cat(path(p), cat(body...)))
}

func method(p string, flags byte, body ...[]byte) []byte {
	return withPkg(op(OpMethod), cat(path(p), []byte{flags}, cat(body...)))
}

func external(p string, objType, argCount byte) []byte {
	return cat(op(OpExternal), path(p), []byte{objType, argCount})
}

func buffer(size []byte, data []byte) []byte {
	return withPkg(op(OpBuffer), size, data)
}

// mockTable prepends an SDT header whose length covers body.
func mockTable(body []byte) []byte {
	hdr := table.SDTHeader{
		Signature:  [4]byte{'D', 'S', 'D', 'T'},
		Length:     uint32(table.HeaderLength + len(body)),
		Revision:   2,
		OEMID:      [6]byte{'A', 'M', 'L', 'K', 'I', 'T'},
		OEMTableID: [8]byte{'T', 'E', 'S', 'T', 'T', 'B', 'L', ' '},
	}
	return append(hdr.Bytes(), body...)
}
