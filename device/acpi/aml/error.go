package aml

// Error describes an AML parser error. All parser errors are package-level
// pointers to an Error structure and are compared by identity.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrInvalidParameter is returned when a length or argument does not fit
	// the window it was decoded from.
	ErrInvalidParameter = &Error{Module: "acpi_aml_parser", Message: "invalid parameter"}

	// ErrUnexpectedEndOfStream is returned when a read would go past the
	// end of the current window.
	ErrUnexpectedEndOfStream = &Error{Module: "acpi_aml_parser", Message: "unexpected end of AML stream"}

	// ErrInvalidEncoding is returned for bytes that do not form a valid
	// AML encoding.
	ErrInvalidEncoding = &Error{Module: "acpi_aml_parser", Message: "invalid AML encoding"}

	// ErrOutOfResources is returned when a node cannot be allocated.
	ErrOutOfResources = &Error{Module: "acpi_aml_tree", Message: "out of resources"}
)
