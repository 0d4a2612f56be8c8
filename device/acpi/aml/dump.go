package aml

import (
	"bytes"
	"fmt"
	"io"
)

// PrettyPrint outputs a pretty-printed version of the tree rooted at n to w.
func PrettyPrint(w io.Writer, n Node) {
	var padBuf bytes.Buffer
	padBuf.WriteByte(' ')
	toString(w, &padBuf, n, true)
}

func toString(w io.Writer, padBuf *bytes.Buffer, n Node, last bool) {
	_, _ = w.Write(padBuf.Bytes())

	var args []Node
	switch v := n.(type) {
	case *RootNode:
		fmt.Fprintf(w, "+- [Root, offset: 0x%x]", v.amlOffset)
		args = v.children
	case *ObjectNode:
		fmt.Fprintf(w, "+- [%s", v.enc.name)
		if v.path != "" {
			fmt.Fprintf(w, ", path: %q", v.path)
		}
		if v.enc.Has(AttrHasPkgLength) {
			fmt.Fprintf(w, ", pkgLen: %d", v.pkgLen)
		}
		if v.enc.op == OpMethod {
			if argCount, ok := invocationArgCount(v); ok {
				fmt.Fprintf(w, ", argCount: %d", argCount)
			}
		}
		fmt.Fprintf(w, ", offset: 0x%x]", v.amlOffset)

		if v.IsMethodInvocation() {
			fmt.Fprintf(w, " -> [call to %q, argCount: %d, offset: 0x%x]", v.decl.path, v.argCount, v.decl.amlOffset)
		}

		args = make([]Node, 0, len(v.fixedArgs)+len(v.children))
		for _, arg := range v.fixedArgs {
			if arg != nil {
				args = append(args, arg)
			}
		}
		args = append(args, v.children...)
	case *DataNode:
		fmt.Fprintf(w, "+- [%s, offset: 0x%x]", v.dataType, v.amlOffset)
		printDataValue(w, v)
	}

	fmt.Fprintf(w, "\n")

	padLen := padBuf.Len()
	if last {
		padBuf.WriteByte(' ')
	} else {
		padBuf.WriteByte('|')
	}
	padBuf.WriteByte(' ')
	padBuf.WriteByte(' ')

	for i, arg := range args {
		toString(w, padBuf, arg, i == len(args)-1)
	}

	padBuf.Truncate(padLen)
}

func printDataValue(w io.Writer, n *DataNode) {
	switch n.dataType {
	case DataTypeUInt8, DataTypeUInt16, DataTypeUInt32, DataTypeUInt64:
		v, _ := n.Uint()
		fmt.Fprintf(w, " -> [num value; dec: %d, hex: 0x%x]", v, v)

		// If this is an encoded EISA id convert it back to a string
		if n.dataType == DataTypeUInt32 && isEISAIDHolder(n) {
			fmt.Fprintf(w, " [EISA: %q]", eisaID(uint32(v)))
		}
	case DataTypeNameString:
		path, _ := n.NamePath()
		fmt.Fprintf(w, " -> [namepath: %q]", path)
	case DataTypeString:
		fmt.Fprintf(w, " -> [string value: %q]", n.data[:len(n.data)-1])
	case DataTypeFieldPkgLen:
		width, _ := n.FieldWidth()
		fmt.Fprintf(w, " -> [width(bits): %d]", width)
	case DataTypeResourceData:
		res, _ := n.Resource()
		fmt.Fprintf(w, " -> [large: %t, type: 0x%x, len: %d]", res.Large, res.Type, len(res.Data))
	default:
		fmt.Fprintf(w, " -> [bytelist value; len: %d; data: % x]", len(n.data), n.data)
	}
}

// isEISAIDHolder returns true if n is the value of a Name(_HID, ...) or
// Name(_CID, ...) declaration.
func isEISAIDHolder(n *DataNode) bool {
	dwordObj, ok := n.Parent().(*ObjectNode)
	if !ok || dwordObj.enc.op != OpDwordPrefix {
		return false
	}

	nameObj, ok := dwordObj.Parent().(*ObjectNode)
	if !ok || nameObj.enc.op != OpName {
		return false
	}

	name := nameObj.name()
	return name != nil && (bytes.HasSuffix(name.data, []byte("_HID")) || bytes.HasSuffix(name.data, []byte("_CID")))
}

// eisaID decodes a compressed EISA id. The id is stored big-endian inside
// the little-endian integer.
func eisaID(v uint32) string {
	id := (v>>24)&0xff |
		((v>>16)&0xff)<<8 |
		((v>>8)&0xff)<<16 |
		(v&0xff)<<24

	return string([]byte{
		'@' + byte((id>>26)&0x1f),
		'@' + byte((id>>21)&0x1f),
		'@' + byte((id>>16)&0x1f),
		hexToASCII(id >> 12),
		hexToASCII(id >> 8),
		hexToASCII(id >> 4),
		hexToASCII(id),
	})
}

func hexToASCII(val uint32) byte {
	v := byte(val & 0xf)
	if v <= 9 {
		return '0' + v
	}

	return 'A' + (v - 0xa)
}
