package aml

import "encoding/binary"

const (
	// Resource descriptors with this bit set in their first byte use the
	// large item format.
	largeResourceItem = 0x80

	smallResourceEndTag = 0x0f
)

// resourceDescriptorSize returns the encoded size of the resource descriptor
// at the start of b and whether it is an End Tag. It returns 0 if b is too
// short to contain the descriptor header.
func resourceDescriptorSize(b []byte) (uint32, bool) {
	if len(b) == 0 {
		return 0, false
	}

	if b[0]&largeResourceItem == 0 {
		return 1 + uint32(b[0]&0x7), (b[0]>>3)&0xf == smallResourceEndTag
	}

	if len(b) < 3 {
		return 0, false
	}
	return 3 + uint32(binary.LittleEndian.Uint16(b[1:3])), false
}

// looksLikeResourceData returns true if the unread bytes of s form a list of
// resource descriptors that ends with an End Tag at exactly the end of the
// window.
func looksLikeResourceData(s *stream) bool {
	b := s.unread()

	for offset := uint32(0); offset < uint32(len(b)); {
		size, isEndTag := resourceDescriptorSize(b[offset:])
		if size == 0 || offset+size > uint32(len(b)) {
			return false
		}

		offset += size
		if isEndTag {
			return offset == uint32(len(b))
		}
	}

	return false
}

// parseResourceData appends one ResourceData node per resource descriptor in
// s to obj. Callers must check the contents with looksLikeResourceData first.
func (p *Parser) parseResourceData(obj *ObjectNode, s *stream) error {
	for !s.EOF() {
		offset := s.Offset()

		b := s.unread()
		size, _ := resourceDescriptorSize(b)
		if size == 0 || size > s.Remaining() {
			return p.fail(s, ErrInvalidEncoding, "malformed resource descriptor")
		}

		s.skip(size)
		dn, err := p.newDataNode(DataTypeResourceData, b[:size], offset)
		if err != nil {
			return err
		}
		p.tree.appendChild(obj, dn)
	}

	return nil
}

// parseByteList parses the byte list that follows the fixed arguments of a
// Buffer. Byte lists holding resource descriptors are split into one node
// per descriptor; anything else is kept as a single Raw node.
func (p *Parser) parseByteList(obj *ObjectNode, s *stream) error {
	if s.EOF() {
		return nil
	}

	if looksLikeResourceData(s) {
		return p.parseResourceData(obj, s)
	}

	offset := s.Offset()
	b := s.unread()
	s.skip(s.Remaining())
	dn, err := p.newDataNode(DataTypeRaw, b, offset)
	if err != nil {
		return err
	}
	p.tree.appendChild(obj, dn)
	return nil
}

// ResourceDescriptor describes the header of a ResourceData node.
type ResourceDescriptor struct {
	// Large is set for descriptors using the large item format.
	Large bool

	// Type is the small (4 bit) or large (7 bit) item type.
	Type uint8

	// Data holds the descriptor body without its header.
	Data []byte
}

// Resource decodes the header of a ResourceData node.
func (n *DataNode) Resource() (ResourceDescriptor, bool) {
	if n.dataType != DataTypeResourceData || len(n.data) == 0 {
		return ResourceDescriptor{}, false
	}

	if n.data[0]&largeResourceItem == 0 {
		return ResourceDescriptor{Type: (n.data[0] >> 3) & 0xf, Data: n.data[1:]}, true
	}
	return ResourceDescriptor{Large: true, Type: n.data[0] &^ largeResourceItem, Data: n.data[3:]}, true
}
