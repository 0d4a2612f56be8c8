package table

import (
	"bytes"
	"encoding/binary"
)

// HeaderLength is the encoded size of SDTHeader in bytes.
const HeaderLength = 36

// ErrTruncatedHeader is returned by ReadHeader when the supplied buffer cannot
// hold a complete SDT header.
const ErrTruncatedHeader = Error("table: buffer too short for an SDT header")

// Error is a string-backed error value for table decoding failures.
type Error string

// Error implements the error interface.
func (err Error) Error() string {
	return string(err)
}

// SDTHeader defines the common header for all ACPI-related tables.
type SDTHeader struct {
	// The signature defines the table type.
	Signature [4]byte

	// The length of the table, header included.
	Length uint32

	// For DSDT/SSDT tables a revision < 2 indicates that integers are
	// 32 bits wide.
	Revision uint8

	// A value that when added to the sum of all other bytes in the table
	// should result in the value 0.
	Checksum uint8

	OEMID       [6]byte
	OEMTableID  [8]byte
	OEMRevision uint32

	CreatorID       uint32
	CreatorRevision uint32
}

// ReadHeader decodes the little-endian SDT header at the start of buf.
func ReadHeader(buf []byte) (*SDTHeader, error) {
	if len(buf) < HeaderLength {
		return nil, ErrTruncatedHeader
	}

	var hdr SDTHeader
	if err := binary.Read(bytes.NewReader(buf[:HeaderLength]), binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}

	return &hdr, nil
}

// Bytes encodes the header back to its little-endian wire form.
func (hdr *SDTHeader) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderLength)
	// SDTHeader only has fixed-size fields and bytes.Buffer writes never
	// fail, so binary.Write cannot return an error here.
	_ = binary.Write(&buf, binary.LittleEndian, hdr)
	return buf.Bytes()
}

// SignatureString returns the table signature as a string.
func (hdr *SDTHeader) SignatureString() string {
	return string(hdr.Signature[:])
}
