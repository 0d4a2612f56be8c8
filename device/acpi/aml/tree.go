package aml

import "encoding/binary"

// NodeType identifies the variant of a Node.
type NodeType uint8

// The list of node variants.
const (
	NodeTypeRoot NodeType = iota
	NodeTypeObject
	NodeTypeData
)

// DataType tags the contents of a DataNode.
type DataType uint8

// The list of supported data node contents.
const (
	DataTypeUInt8 DataType = iota
	DataTypeUInt16
	DataTypeUInt32
	DataTypeUInt64
	DataTypeNameString
	DataTypeString
	DataTypeRaw
	DataTypeFieldPkgLen
	DataTypeResourceData
)

var dataTypeNames = [...]string{
	DataTypeUInt8:        "UInt8",
	DataTypeUInt16:       "UInt16",
	DataTypeUInt32:       "UInt32",
	DataTypeUInt64:       "UInt64",
	DataTypeNameString:   "NameString",
	DataTypeString:       "String",
	DataTypeRaw:          "Raw",
	DataTypeFieldPkgLen:  "FieldPkgLen",
	DataTypeResourceData: "ResourceData",
}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return "unknown"
}

// Node is implemented by *RootNode, *ObjectNode and *DataNode. No other
// implementations exist.
type Node interface {
	// Type returns the node variant.
	Type() NodeType

	// Parent returns the node that owns this node or nil for detached
	// nodes.
	Parent() Node

	// Offset returns the absolute offset in the table where the node
	// was decoded.
	Offset() uint32

	hdr() *nodeHeader
}

type nodeHeader struct {
	// The index of this node in the tree pool.
	index uint32

	parent    Node
	amlOffset uint32
}

func (h *nodeHeader) Parent() Node     { return h.parent }
func (h *nodeHeader) Offset() uint32   { return h.amlOffset }
func (h *nodeHeader) hdr() *nodeHeader { return h }

// RootNode is the top of a parsed definition block.
type RootNode struct {
	nodeHeader

	children []Node
}

// Type implements Node.
func (n *RootNode) Type() NodeType { return NodeTypeRoot }

// Children returns the top-level objects of the definition block.
func (n *RootNode) Children() []Node { return n.children }

// ObjectNode is an opcode together with its decoded arguments.
type ObjectNode struct {
	nodeHeader

	enc       *ByteEncoding
	fixedArgs []Node
	children  []Node

	// The decoded PkgLength and the number of bytes used to encode it.
	pkgLen      uint32
	pkgLenWidth uint8

	// The absolute namespace path for name-declaring objects.
	path string

	// For method invocations: the invoked declaration and the number of
	// arguments that follow the name.
	decl     *ObjectNode
	argCount uint8
}

// Type implements Node.
func (n *ObjectNode) Type() NodeType { return NodeTypeObject }

// Encoding returns the encoding that describes this object.
func (n *ObjectNode) Encoding() *ByteEncoding { return n.enc }

// Opcode returns the opcode of this object.
func (n *ObjectNode) Opcode() Opcode { return n.enc.op }

// NumFixedArgs returns the number of fixed argument slots.
func (n *ObjectNode) NumFixedArgs() int { return len(n.fixedArgs) }

// FixedArg returns the node stored in fixed argument slot i or nil if the
// slot is empty or out of range.
func (n *ObjectNode) FixedArg(i int) Node {
	if i < 0 || i >= len(n.fixedArgs) {
		return nil
	}
	return n.fixedArgs[i]
}

// Children returns the variable arguments of the object in stream order.
func (n *ObjectNode) Children() []Node { return n.children }

// PkgLength returns the decoded PkgLength or 0 if the encoding has none.
func (n *ObjectNode) PkgLength() uint32 { return n.pkgLen }

// Path returns the absolute namespace path declared by this object. It
// returns an empty string for objects that do not declare a name.
func (n *ObjectNode) Path() string { return n.path }

// IsMethodInvocation returns true if the object is a call to a method.
func (n *ObjectNode) IsMethodInvocation() bool { return n.enc.op == OpIntMethodInvocation }

// Declaration returns the invoked Method or External object for a method
// invocation and nil otherwise.
func (n *ObjectNode) Declaration() *ObjectNode { return n.decl }

// ArgCount returns the number of arguments of a method invocation.
func (n *ObjectNode) ArgCount() uint8 { return n.argCount }

// name returns the NameString data node of a name-declaring object.
func (n *ObjectNode) name() *DataNode {
	if !n.enc.Has(AttrDeclaresName) {
		return nil
	}
	dn, _ := n.FixedArg(int(n.enc.nameArg)).(*DataNode)
	if dn == nil || dn.dataType != DataTypeNameString {
		return nil
	}
	return dn
}

// DataNode holds a chunk of the stream that is interpreted by its consumer.
type DataNode struct {
	nodeHeader

	dataType DataType
	data     []byte
}

// Type implements Node.
func (n *DataNode) Type() NodeType { return NodeTypeData }

// DataType returns the tag that describes the node contents.
func (n *DataNode) DataType() DataType { return n.dataType }

// Bytes returns the encoded node contents.
func (n *DataNode) Bytes() []byte { return n.data }

// Uint decodes the contents of an integer data node. The second return value
// is false for other node types.
func (n *DataNode) Uint() (uint64, bool) {
	switch n.dataType {
	case DataTypeUInt8:
		return uint64(n.data[0]), true
	case DataTypeUInt16:
		return uint64(binary.LittleEndian.Uint16(n.data)), true
	case DataTypeUInt32:
		return uint64(binary.LittleEndian.Uint32(n.data)), true
	case DataTypeUInt64:
		return binary.LittleEndian.Uint64(n.data), true
	}
	return 0, false
}

// NamePath returns the ASL form of a NameString data node.
func (n *DataNode) NamePath() (string, bool) {
	if n.dataType != DataTypeNameString {
		return "", false
	}
	np, err := decodeNameString(n.data)
	if err != nil {
		return "", false
	}
	return np.String(), true
}

// Tree allocates the nodes of parsed AML streams. Nodes live in a pool and
// freed slots are recycled through a free list.
type Tree struct {
	pool     []Node
	freeList []uint32
	live     int

	// MaxNodes caps the number of live nodes; allocations beyond the cap
	// fail with ErrOutOfResources. A zero value means no limit.
	MaxNodes int
}

// NewTree returns a new Tree instance.
func NewTree() *Tree {
	return &Tree{}
}

// Live returns the number of allocated nodes that have not been freed.
func (t *Tree) Live() int {
	return t.live
}

// NodeAt returns the live node stored at the specified pool index or nil.
func (t *Tree) NodeAt(index uint32) Node {
	if index >= uint32(len(t.pool)) {
		return nil
	}
	return t.pool[index]
}

func (t *Tree) alloc(n Node) error {
	if t.MaxNodes != 0 && t.live >= t.MaxNodes {
		return ErrOutOfResources
	}

	h := n.hdr()
	if last := len(t.freeList) - 1; last >= 0 {
		h.index = t.freeList[last]
		t.freeList = t.freeList[:last]
		t.pool[h.index] = n
	} else {
		h.index = uint32(len(t.pool))
		t.pool = append(t.pool, n)
	}

	t.live++
	return nil
}

// NewRootNode allocates an empty root node.
func (t *Tree) NewRootNode() (*RootNode, error) {
	n := &RootNode{}
	if err := t.alloc(n); err != nil {
		return nil, err
	}
	return n, nil
}

// NewObjectNode allocates an object node for enc with one empty slot per
// fixed argument.
func (t *Tree) NewObjectNode(enc *ByteEncoding, pkgLen uint32) (*ObjectNode, error) {
	n := &ObjectNode{
		enc:       enc,
		fixedArgs: make([]Node, enc.NumFixedArgs()),
		pkgLen:    pkgLen,
	}
	if err := t.alloc(n); err != nil {
		return nil, err
	}
	return n, nil
}

// NewDataNode allocates a data node holding a copy of data.
func (t *Tree) NewDataNode(dataType DataType, data []byte) (*DataNode, error) {
	n := &DataNode{
		dataType: dataType,
		data:     append([]byte(nil), data...),
	}
	if err := t.alloc(n); err != nil {
		return nil, err
	}
	return n, nil
}

// free returns n to the pool. Callers must ensure that n no longer owns any
// nodes and must not use n after calling free.
func (t *Tree) free(n Node) {
	h := n.hdr()
	if h.index >= uint32(len(t.pool)) || t.pool[h.index] != n {
		panic("aml.Tree: attempted to free a node that is not live")
	}

	switch v := n.(type) {
	case *RootNode:
		if len(v.children) != 0 {
			panic("aml.Tree: attempted to free node that still contains child references")
		}
	case *ObjectNode:
		if len(v.children) != 0 {
			panic("aml.Tree: attempted to free node that still contains child references")
		}
		for _, arg := range v.fixedArgs {
			if arg != nil {
				panic("aml.Tree: attempted to free node that still contains argument references")
			}
		}
	}

	if h.parent != nil {
		t.detach(n)
	}

	t.pool[h.index] = nil
	t.freeList = append(t.freeList, h.index)
	t.live--
}

// Delete detaches n from its parent and frees n together with every node
// it owns.
func (t *Tree) Delete(n Node) {
	if n.hdr().parent != nil {
		t.detach(n)
	}
	t.release(n)
}

// release frees the detached node n and its subtree. Owned nodes are
// unlinked in bulk so that the cost stays linear in the subtree size.
func (t *Tree) release(n Node) {
	switch v := n.(type) {
	case *RootNode:
		t.releaseList(v.children)
		v.children = nil
	case *ObjectNode:
		t.releaseList(v.children)
		v.children = nil
		t.releaseList(v.fixedArgs)
		for i := range v.fixedArgs {
			v.fixedArgs[i] = nil
		}
	}

	t.free(n)
}

// releaseList frees the nodes in list, last to first. Empty fixed argument
// slots are skipped.
func (t *Tree) releaseList(list []Node) {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] == nil {
			continue
		}
		list[i].hdr().parent = nil
		t.release(list[i])
	}
}

// appendChild makes child the last variable argument of parent.
func (t *Tree) appendChild(parent, child Node) {
	child.hdr().parent = parent
	switch p := parent.(type) {
	case *RootNode:
		p.children = append(p.children, child)
	case *ObjectNode:
		p.children = append(p.children, child)
	default:
		panic("aml.Tree: data nodes cannot own other nodes")
	}
}

// setFixedArg stores child in fixed argument slot i of parent.
func (t *Tree) setFixedArg(parent *ObjectNode, i int, child Node) {
	if parent.fixedArgs[i] != nil {
		panic("aml.Tree: fixed argument slot already in use")
	}
	child.hdr().parent = parent
	parent.fixedArgs[i] = child
}

// detach removes n from its parent's fixed argument slots or child list.
func (t *Tree) detach(n Node) {
	h := n.hdr()
	switch p := h.parent.(type) {
	case *RootNode:
		p.children = removeNode(p.children, n)
	case *ObjectNode:
		for i, arg := range p.fixedArgs {
			if arg == n {
				p.fixedArgs[i] = nil
				h.parent = nil
				return
			}
		}
		p.children = removeNode(p.children, n)
	}
	h.parent = nil
}

// replace puts newNode in the place old occupies inside its parent and
// detaches old.
func (t *Tree) replace(old, newNode Node) {
	h := old.hdr()
	switch p := h.parent.(type) {
	case *RootNode:
		replaceNode(p.children, old, newNode)
	case *ObjectNode:
		replaceNode(p.fixedArgs, old, newNode)
		replaceNode(p.children, old, newNode)
	}
	newNode.hdr().parent = h.parent
	h.parent = nil
}

func removeNode(list []Node, n Node) []Node {
	for i, entry := range list {
		if entry == n {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			return list[:len(list)-1]
		}
	}
	return list
}

func replaceNode(list []Node, old, newNode Node) {
	for i, entry := range list {
		if entry == old {
			list[i] = newNode
		}
	}
}
