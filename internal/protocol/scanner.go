package protocol

import "math"

// scanner is a minimal reader for flat JSON objects whose values are plain
// strings or unsigned integers. Every lookup restarts at the opening brace so
// key order in the request does not matter. Escape sequences are not decoded.
type scanner struct {
	data []byte
	pos  int
}

func newScanner(line []byte) *scanner {
	return &scanner{data: line}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) peek() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	return s.data[s.pos], true
}

// find positions the scanner at the value of key and reports whether it was
// found. Unsupported value types end the search.
func (s *scanner) find(key string) bool {
	s.pos = 0
	s.skipSpace()
	if c, ok := s.peek(); !ok || c != '{' {
		return false
	}
	s.pos++
	for s.pos < len(s.data) {
		s.skipSpace()
		if c, ok := s.peek(); !ok || c == '}' {
			return false
		}
		current, ok := s.str()
		if !ok {
			return false
		}
		s.skipSpace()
		if c, ok := s.peek(); !ok || c != ':' {
			return false
		}
		s.pos++
		if current == key {
			return true
		}
		if !s.skipValue() {
			return false
		}
		s.skipSpace()
		if c, ok := s.peek(); ok && c == ',' {
			s.pos++
		}
	}
	return false
}

func (s *scanner) skipValue() bool {
	s.skipSpace()
	c, ok := s.peek()
	if !ok {
		return false
	}
	switch {
	case c == '"':
		_, ok := s.str()
		return ok
	case c == '-' || isDigit(c):
		s.pos++
		for s.pos < len(s.data) && (isDigit(s.data[s.pos]) || s.data[s.pos] == '.') {
			s.pos++
		}
		return true
	}
	return false
}

// str reads a double-quoted string at the current position.
func (s *scanner) str() (string, bool) {
	s.skipSpace()
	if c, ok := s.peek(); !ok || c != '"' {
		return "", false
	}
	s.pos++
	start := s.pos
	for s.pos < len(s.data) && s.data[s.pos] != '"' {
		s.pos++
	}
	if s.pos >= len(s.data) {
		return "", false
	}
	out := string(s.data[start:s.pos])
	s.pos++
	return out, true
}

// unsigned reads an unsigned decimal integer. A leading sign, an empty digit run,
// or a value beyond int32 range is a parse failure.
func (s *scanner) unsigned() (int, bool) {
	s.skipSpace()
	c, ok := s.peek()
	if !ok || !isDigit(c) {
		return 0, false
	}
	value := 0
	for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
		value = value*10 + int(s.data[s.pos]-'0')
		if value > math.MaxInt32 {
			return 0, false
		}
		s.pos++
	}
	return value, true
}

func (s *scanner) stringField(key string) (string, bool) {
	if !s.find(key) {
		return "", false
	}
	return s.str()
}

func (s *scanner) intField(key string) (int, bool) {
	if !s.find(key) {
		return 0, false
	}
	return s.unsigned()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
