package parser

import (
	"encoding/json"
	"html"
	"strings"
)

// maxEnclosingCandidates bounds how many '{' positions are tried before a key.
const maxEnclosingCandidates = 512

// ExtractEnclosingObject finds the property "key" in doc and returns the
// innermost JSON object that holds it. Object boundaries are found with a
// scanner that skips braces inside string literals. When the raw document has
// no match, the HTML-unescaped text is searched (payloads stored in attributes).
func ExtractEnclosingObject(doc, key string) []byte {
	return ExtractEnclosingObjectFunc(doc, key, nil)
}

// ExtractEnclosingObjectFunc is ExtractEnclosingObject that skips objects
// rejected by accept and keeps scanning. A nil accept takes the first object.
func ExtractEnclosingObjectFunc(doc, key string, accept func([]byte) bool) []byte {
	needle := `"` + key + `"`
	if obj := findEnclosing(doc, needle, accept); obj != nil {
		return obj
	}
	if unescaped := html.UnescapeString(doc); unescaped != doc {
		return findEnclosing(unescaped, needle, accept)
	}
	return nil
}

func findEnclosing(doc, needle string, accept func([]byte) bool) []byte {
	from := 0
	for from < len(doc) {
		idx := strings.Index(doc[from:], needle)
		if idx < 0 {
			return nil
		}
		at := from + idx
		from = at + len(needle)

		if !isKey(doc, from) {
			continue
		}
		obj := enclosingObject(doc, at, len(needle))
		if obj != nil && (accept == nil || accept(obj)) {
			return obj
		}
	}
	return nil
}

// isKey reports whether the literal ending at end is followed by a colon.
func isKey(s string, end int) bool {
	rest := strings.TrimLeft(s[end:], " \t\r\n")
	return strings.HasPrefix(rest, ":")
}

// enclosingObject walks backward from at over '{' candidates. A candidate
// encloses the match when its balanced end lies past the match; the first
// such candidate that is valid JSON wins.
func enclosingObject(s string, at, n int) []byte {
	tried := 0
	for i := at - 1; i >= 0 && tried < maxEnclosingCandidates; i-- {
		if s[i] != '{' {
			continue
		}
		tried++

		end := matchingBrace(s, i)
		if end < at+n {
			continue
		}
		candidate := []byte(s[i : end+1])
		if json.Valid(candidate) {
			return candidate
		}
	}
	return nil
}

// matchingBrace returns the index of the '}' balancing the '{' at start, or
// -1 when the object never closes. Quotes open and close string literals;
// a backslash escapes the next byte inside a literal.
func matchingBrace(s string, start int) int {
	if start < 0 || start >= len(s) || s[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
