package aml

import "strings"

const (
	rootChar         = '\\'
	parentPrefixChar = '^'
	dualNamePrefix   = 0x2e
	multiNamePrefix  = 0x2f
	nullName         = 0x00

	// The size of AML name segments in bytes.
	amlNameLen = 4

	// The path of the root scope.
	rootPath = `\`
)

func isLeadNameChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isLeadNameChar(ch) || (ch >= '0' && ch <= '9')
}

// nameStringLength returns the encoded length of the NameString at the start
// of b. The length is checked against len(b) before segment contents are
// validated so that a short buffer is always reported as such.
func nameStringLength(b []byte) (uint32, error) {
	var (
		index    int
		segCount int
	)

	if len(b) != 0 && b[0] == rootChar {
		index++
	} else {
		for index < len(b) && b[index] == parentPrefixChar {
			index++
		}
	}

	if index >= len(b) {
		return 0, ErrUnexpectedEndOfStream
	}

	segStart := index
	switch b[index] {
	case nullName:
		return uint32(index + 1), nil
	case dualNamePrefix:
		segStart, segCount = index+1, 2
	case multiNamePrefix:
		if index+1 >= len(b) {
			return 0, ErrUnexpectedEndOfStream
		}
		segStart, segCount = index+2, int(b[index+1])
		if segCount == 0 {
			return 0, ErrInvalidEncoding
		}
	default:
		if !isLeadNameChar(b[index]) {
			return 0, ErrInvalidEncoding
		}
		segCount = 1
	}

	end := segStart + segCount*amlNameLen
	if end > len(b) {
		return 0, ErrUnexpectedEndOfStream
	}

	for seg := segStart; seg < end; seg += amlNameLen {
		if !isLeadNameChar(b[seg]) {
			return 0, ErrInvalidEncoding
		}
		for _, ch := range b[seg+1 : seg+amlNameLen] {
			if !isNameChar(ch) {
				return 0, ErrInvalidEncoding
			}
		}
	}

	return uint32(end), nil
}

// namePath is the decoded form of an encoded NameString.
type namePath struct {
	absolute    bool
	parentCount int
	segments    []string
}

// decodeNameString splits a complete encoded NameString into its prefix and
// name segments.
func decodeNameString(b []byte) (namePath, error) {
	var np namePath

	n, err := nameStringLength(b)
	if err != nil {
		return np, err
	}
	b = b[:n]

	if b[0] == rootChar {
		np.absolute = true
		b = b[1:]
	}
	for len(b) != 0 && b[0] == parentPrefixChar {
		np.parentCount++
		b = b[1:]
	}

	switch b[0] {
	case nullName:
		return np, nil
	case dualNamePrefix:
		b = b[1:]
	case multiNamePrefix:
		b = b[2:]
	}

	for ; len(b) != 0; b = b[amlNameLen:] {
		np.segments = append(np.segments, string(b[:amlNameLen]))
	}
	return np, nil
}

// isSimpleName returns true for a single relative name segment; only such
// names are subject to the upward namespace search rule.
func (np namePath) isSimpleName() bool {
	return !np.absolute && np.parentCount == 0 && len(np.segments) == 1
}

// resolve returns the absolute path that np refers to when it is used inside
// the scope with absolute path scope. It returns false if the name climbs
// above the root scope.
func (np namePath) resolve(scope string) (string, bool) {
	var segments []string
	if !np.absolute {
		segments = splitPath(scope)
		if np.parentCount > len(segments) {
			return "", false
		}
		segments = segments[:len(segments)-np.parentCount]
	}

	return joinPath(append(segments, np.segments...)), true
}

// String returns the ASL form of the name.
func (np namePath) String() string {
	var sb strings.Builder
	if np.absolute {
		sb.WriteByte(rootChar)
	}
	for i := 0; i < np.parentCount; i++ {
		sb.WriteByte(parentPrefixChar)
	}
	sb.WriteString(strings.Join(np.segments, "."))
	return sb.String()
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, rootPath)
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func joinPath(segments []string) string {
	return rootPath + strings.Join(segments, ".")
}

// parentPath returns the path of the scope enclosing path and false if path
// is the root scope.
func parentPath(path string) (string, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return "", false
	}
	return joinPath(segments[:len(segments)-1]), true
}
