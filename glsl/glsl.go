// Package glsl prepares shader source text for compilation.
//
// Preparation has two steps: minification (strip comments and
// insignificant whitespace without altering token semantics) and float
// precision injection (prepend a default precision qualifier when the
// source declares none). Minification is best-effort: unparsable source
// passes through unmodified rather than failing, since it is an
// optimization and not a correctness requirement.
package glsl

import "strings"

// Precision is a GLSL float precision qualifier token.
type Precision string

// Float precision qualifiers, lowest to highest.
const (
	PrecisionLow    Precision = "lowp"
	PrecisionMedium Precision = "mediump"
	PrecisionHigh   Precision = "highp"
)

// Valid reports whether p is one of the known qualifier tokens.
func (p Precision) Valid() bool {
	switch p {
	case PrecisionLow, PrecisionMedium, PrecisionHigh:
		return true
	}
	return false
}

// Prepare minifies source and ensures it carries a float precision
// qualifier, injecting precision when the source has none. An existing
// qualifier is never duplicated or overridden.
func Prepare(source string, precision Precision) string {
	out := Minify(source)
	if !hasPrecision(out) && precision.Valid() {
		out = "precision " + string(precision) + " float;" + out
	}
	return out
}

// hasPrecision reports whether the source already declares a precision
// qualifier. Minification has already removed comments, so a plain
// token scan cannot be fooled by commented-out declarations.
func hasPrecision(source string) bool {
	rest := source
	for {
		i := strings.Index(rest, "precision")
		if i < 0 {
			return false
		}
		before := byte(0)
		if i > 0 {
			before = rest[i-1]
		}
		after := byte(0)
		if i+len("precision") < len(rest) {
			after = rest[i+len("precision")]
		}
		if !identByte(before) && !identByte(after) {
			return true
		}
		rest = rest[i+len("precision"):]
	}
}

// Minify strips comments and insignificant whitespace from shader
// source. Token semantics are preserved: identifiers and numbers stay
// separated, and preprocessor directives keep their own lines. If the
// source cannot be scanned (unterminated comment), it is returned
// unmodified.
func Minify(source string) string {
	stripped, ok := stripComments(source)
	if !ok {
		return source
	}

	var b strings.Builder
	b.Grow(len(stripped))

	for _, line := range strings.Split(stripped, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] == '#' {
			// Preprocessor directives are line-oriented. Keep the
			// directive on its own line, with a terminator before it if
			// output is mid-expression.
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(collapseSpaces(line))
			b.WriteByte('\n')
			continue
		}
		appendCode(&b, line)
	}

	return b.String()
}

// stripComments removes // line comments and /* */ block comments,
// replacing each with a single space so adjacent tokens stay separated.
// Returns ok=false for an unterminated block comment.
func stripComments(source string) (string, bool) {
	var b strings.Builder
	b.Grow(len(source))

	for i := 0; i < len(source); {
		c := source[i]
		if c == '/' && i+1 < len(source) {
			switch source[i+1] {
			case '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				continue
			case '*':
				end := strings.Index(source[i+2:], "*/")
				if end < 0 {
					return "", false
				}
				b.WriteByte(' ')
				i += 2 + end + 2
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), true
}

// appendCode writes a line of code with whitespace collapsed: spaces
// survive only between two identifier/number characters.
func appendCode(b *strings.Builder, line string) {
	pendingSpace := false
	// A space is also needed if the previous appended line ended in an
	// identifier character and this one starts with one.
	if b.Len() > 0 {
		last := b.String()[b.Len()-1]
		pendingSpace = identByte(last)
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' || c == '\r' {
			pendingSpace = b.Len() > 0 && identByte(b.String()[b.Len()-1])
			continue
		}
		if pendingSpace && identByte(c) {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteByte(c)
	}
}

// collapseSpaces reduces interior whitespace runs to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// identByte reports whether c can be part of an identifier or number.
func identByte(c byte) bool {
	return c == '_' || c == '.' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
