package aml

// parseFieldList parses the field elements that follow the fixed arguments
// of a Field, IndexField or BankField and appends them to field.
func (p *Parser) parseFieldList(field *ObjectNode, s *stream) error {
	for !s.EOF() {
		offset := s.Offset()
		lead, _ := s.PeekByte()

		enc := fieldEncodingFor(lead)
		if enc == nil {
			return p.fail(s, ErrInvalidEncoding, "unknown field element 0x%x", lead)
		}

		sub := s.SubStream()
		// Named fields have no lead byte; the others use the byte just peeked.
		sub.skip(enc.opcodeLen())

		elem, err := p.tree.NewObjectNode(enc, 0)
		if err != nil {
			return p.failAt(offset, err, "cannot allocate %s node", enc.name)
		}
		elem.amlOffset = offset
		p.tree.appendChild(field, elem)

		if err = p.parseNode(elem, sub); err != nil {
			p.tree.Delete(elem)
			return err
		}
		s.skip(sub.Position())
	}

	return nil
}

// FieldWidth decodes the bit width of a FieldPkgLen data node.
func (n *DataNode) FieldWidth() (uint32, bool) {
	if n.dataType != DataTypeFieldPkgLen {
		return 0, false
	}
	return decodePkgLength(n.data), true
}
