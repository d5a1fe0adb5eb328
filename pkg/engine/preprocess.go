package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites road source into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbol and cannot clash with user variables.
//  2. kebab-case identifiers become snake_case (edge-width -> edge_width),
//     since zygomys reads a hyphen as subtraction.
//  3. ; and ;; line comments become // comments.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	sc := scanner{src: source}
	sc.out.Grow(len(source) + len(source)/4)
	for !sc.done() {
		c := sc.peek(0)
		switch {
		case c == '"':
			sc.quoted('"', true)
		case c == '`':
			sc.quoted('`', false)
		case c == ';':
			sc.comment()
		case c == ':' && sc.peek(1) == '=':
			sc.copy(2)
		case c == ':' && isLetter(sc.peek(1)):
			sc.keyword()
		case c == '-' && sc.pos > 0 && isIdentChar(sc.src[sc.pos-1]) && isLetter(sc.peek(1)):
			sc.out.WriteByte('_')
			sc.pos++
		default:
			sc.copy(1)
		}
	}
	return sc.out.String()
}

// scanner walks the source one token-ish unit at a time.
type scanner struct {
	src string
	pos int
	out strings.Builder
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

// peek returns the byte at pos+off, or 0 past the end.
func (s *scanner) peek(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) copy(n int) {
	if s.pos+n > len(s.src) {
		n = len(s.src) - s.pos
	}
	s.out.WriteString(s.src[s.pos : s.pos+n])
	s.pos += n
}

// quoted copies a string literal including both delimiters.
func (s *scanner) quoted(delim byte, escapes bool) {
	s.copy(1)
	for !s.done() && s.peek(0) != delim {
		if escapes && s.peek(0) == '\\' {
			s.copy(2)
			continue
		}
		s.copy(1)
	}
	s.copy(1)
}

// comment converts a run of semicolons to // and copies the rest of the line.
func (s *scanner) comment() {
	for s.peek(0) == ';' {
		s.pos++
	}
	s.out.WriteString("//")
	for !s.done() && s.peek(0) != '\n' {
		s.copy(1)
	}
}

// keyword rewrites :name as "__kw_name".
func (s *scanner) keyword() {
	start := s.pos + 1
	end := start
	for end < len(s.src) && isKWChar(s.src[end]) {
		end++
	}
	s.out.WriteByte('"')
	s.out.WriteString(kwPrefix)
	s.out.WriteString(s.src[start:end])
	s.out.WriteByte('"')
	s.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
