package gpu

import (
	"strconv"
	"strings"
)

// Source reflection for WGSL programs.
//
// WGSL declares vertex inputs with @location attributes and uniforms
// with @group/@binding attributes, so the active-variable tables can be
// recovered from the (already minified) source text without a device
// round trip. Reflection runs once at compile time; the resulting
// tables are immutable.

// reflectAttributes scans vertex source for @location(N) declarations
// and returns them as active attributes.
func reflectAttributes(source string) []ActiveAttrib {
	var attrs []ActiveAttrib
	rest := source
	for {
		i := strings.Index(rest, "@location(")
		if i < 0 {
			break
		}
		rest = rest[i+len("@location("):]

		close := strings.IndexByte(rest, ')')
		if close < 0 {
			break
		}
		loc, err := strconv.Atoi(strings.TrimSpace(rest[:close]))
		if err != nil {
			continue
		}
		rest = rest[close+1:]

		name, typ, ok := parseDecl(rest)
		if !ok {
			continue
		}
		// @location also annotates entry-point outputs and fragment
		// inputs; only the first declaration per location in vertex
		// source is an attribute. Skip duplicates.
		if hasLocation(attrs, loc) {
			continue
		}
		attrs = append(attrs, ActiveAttrib{
			Name:     name,
			Location: loc,
			Size:     typeComponents(typ),
		})
	}
	return attrs
}

// reflectUniforms scans source for var<uniform> declarations and
// returns them as active uniforms with zero defaults. The binding index
// serves as the location.
func reflectUniforms(source string) []ActiveUniform {
	var uniforms []ActiveUniform
	rest := source
	for {
		i := strings.Index(rest, "var<uniform>")
		if i < 0 {
			break
		}
		binding := lastBinding(rest[:i])
		rest = rest[i+len("var<uniform>"):]

		name, typ, ok := parseDecl(rest)
		if !ok {
			continue
		}
		uniforms = append(uniforms, ActiveUniform{
			Name:     name,
			Location: binding,
			Default:  zeroValue(typ),
		})
	}
	return uniforms
}

// parseDecl reads "name : type" from the head of rest.
func parseDecl(rest string) (name, typ string, ok bool) {
	rest = strings.TrimLeft(rest, " \t\n")
	end := 0
	for end < len(rest) && identChar(rest[end]) {
		end++
	}
	if end == 0 {
		return "", "", false
	}
	name = rest[:end]

	rest = strings.TrimLeft(rest[end:], " \t\n")
	if len(rest) == 0 || rest[0] != ':' {
		return "", "", false
	}
	rest = strings.TrimLeft(rest[1:], " \t\n")

	end = 0
	for end < len(rest) && (identChar(rest[end]) || rest[end] == '<' || rest[end] == '>') {
		end++
	}
	if end == 0 {
		return "", "", false
	}
	return name, rest[:end], true
}

// lastBinding finds the @binding(N) index closest before a declaration.
// Returns 0 when none is present.
func lastBinding(prefix string) int {
	i := strings.LastIndex(prefix, "@binding(")
	if i < 0 {
		return 0
	}
	rest := prefix[i+len("@binding("):]
	close := strings.IndexByte(rest, ')')
	if close < 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest[:close]))
	if err != nil {
		return 0
	}
	return n
}

// typeComponents returns the component count of a WGSL value type.
func typeComponents(typ string) int {
	switch {
	case strings.HasPrefix(typ, "vec2"):
		return 2
	case strings.HasPrefix(typ, "vec3"):
		return 3
	case strings.HasPrefix(typ, "vec4"):
		return 4
	default:
		return 1
	}
}

// zeroValue returns the introspection default for a WGSL value type:
// scalar 0 or a flat zero vector/matrix.
func zeroValue(typ string) any {
	switch {
	case strings.HasPrefix(typ, "vec"), strings.HasPrefix(typ, "mat"):
		return make([]float64, matrixSize(typ))
	case strings.HasPrefix(typ, "i32"), strings.HasPrefix(typ, "u32"):
		return 0
	default:
		return 0.0
	}
}

// matrixSize returns the element count of a vecN or matCxR type.
func matrixSize(typ string) int {
	if strings.HasPrefix(typ, "vec") {
		return typeComponents(typ)
	}
	// matCxR<f32>
	if len(typ) >= 6 && strings.HasPrefix(typ, "mat") {
		cols := int(typ[3] - '0')
		rows := int(typ[5] - '0')
		if cols >= 2 && cols <= 4 && rows >= 2 && rows <= 4 {
			return cols * rows
		}
	}
	return 1
}

func hasLocation(attrs []ActiveAttrib, loc int) bool {
	for _, a := range attrs {
		if a.Location == loc {
			return true
		}
	}
	return false
}

func identChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
