package nbt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ToSNBT serializes v to stringified NBT. Compound keys are emitted in
// sorted order, so structurally equal trees always produce the same string;
// the counter relies on this when it uses the output as an identity
// signature.
func ToSNBT(v Value) string {
	var sb strings.Builder
	writeSNBT(&sb, v)
	return sb.String()
}

func writeSNBT(sb *strings.Builder, v Value) {
	switch val := v.(type) {
	case Byte:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
		sb.WriteByte('b')
	case Short:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
		sb.WriteByte('s')
	case Int:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case Long:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
		sb.WriteByte('L')
	case Float:
		sb.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 32))
		sb.WriteByte('f')
	case Double:
		sb.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 64))
		sb.WriteByte('d')
	case String:
		sb.WriteString(quoteString(string(val)))
	case ByteArray:
		sb.WriteString("[B;")
		for i, b := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(int64(b), 10))
			sb.WriteByte('b')
		}
		sb.WriteByte(']')
	case IntArray:
		sb.WriteString("[I;")
		for i, n := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(int64(n), 10))
		}
		sb.WriteByte(']')
	case LongArray:
		sb.WriteString("[L;")
		for i, n := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(n, 10))
			sb.WriteByte('L')
		}
		sb.WriteByte(']')
	case List:
		sb.WriteByte('[')
		for i, el := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeSNBT(sb, el)
		}
		sb.WriteByte(']')
	case Compound:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			if isBareToken(key) {
				sb.WriteString(key)
			} else {
				sb.WriteString(quoteString(key))
			}
			sb.WriteByte(':')
			writeSNBT(sb, val[key])
		}
		sb.WriteByte('}')
	}
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func isBareToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.', r == '+':
		default:
			return false
		}
	}
	return true
}

// EscapeSNBT makes an SNBT string safe for single-line display by escaping
// backslashes, newlines and other control characters.
func EscapeSNBT(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ParseSNBT parses a stringified NBT literal, e.g.
// {components:{"minecraft:custom_name":"Portable Chest"},count:3}.
// Lists must be homogeneous; trailing input after the value is an error.
func ParseSNBT(input string) (Value, error) {
	p := &snbtParser{src: input}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("snbt: trailing data at offset %d", p.pos)
	}
	return v, nil
}

type snbtParser struct {
	src string
	pos int
}

func (p *snbtParser) errf(format string, args ...any) error {
	return fmt.Errorf("snbt: %s (offset %d)", fmt.Sprintf(format, args...), p.pos)
}

func (p *snbtParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *snbtParser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *snbtParser) expect(want byte) error {
	c, ok := p.peek()
	if !ok {
		return p.errf("unexpected end of input, want %q", want)
	}
	if c != want {
		return p.errf("unexpected %q, want %q", c, want)
	}
	p.pos++
	return nil
}

func (p *snbtParser) parseValue() (Value, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return nil, p.errf("unexpected end of input")
	}
	switch c {
	case '{':
		return p.parseCompound()
	case '[':
		return p.parseListOrArray()
	case '"', '\'':
		s, err := p.parseQuoted()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	default:
		return p.parseScalar()
	}
}

func (p *snbtParser) parseCompound() (Value, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	compound := Compound{}
	p.skipSpace()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return compound, nil
	}
	for {
		p.skipSpace()
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		compound[key] = val
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errf("unterminated compound")
		}
		if c == ',' {
			p.pos++
			continue
		}
		if c == '}' {
			p.pos++
			return compound, nil
		}
		return nil, p.errf("unexpected %q in compound", c)
	}
}

func (p *snbtParser) parseKey() (string, error) {
	c, ok := p.peek()
	if !ok {
		return "", p.errf("unexpected end of input in key")
	}
	if c == '"' || c == '\'' {
		return p.parseQuoted()
	}
	start := p.pos
	for p.pos < len(p.src) && isBareByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errf("empty compound key")
	}
	return p.src[start:p.pos], nil
}

func (p *snbtParser) parseListOrArray() (Value, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	// [B; [I; [L; introduce typed arrays.
	if p.pos+1 < len(p.src) && p.src[p.pos+1] == ';' {
		kind := p.src[p.pos]
		switch kind {
		case 'B', 'I', 'L':
			p.pos += 2
			return p.parseArray(kind)
		}
	}
	var list List
	p.skipSpace()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return list, nil
	}
	for {
		el, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if len(list) > 0 && list[0].Tag() != el.Tag() {
			return nil, p.errf("mixed list element types %s and %s", list[0].Tag(), el.Tag())
		}
		list = append(list, el)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errf("unterminated list")
		}
		if c == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		if c == ']' {
			p.pos++
			return list, nil
		}
		return nil, p.errf("unexpected %q in list", c)
	}
}

func (p *snbtParser) parseArray(kind byte) (Value, error) {
	var bytes ByteArray
	var ints IntArray
	var longs LongArray
	p.skipSpace()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
	} else {
		for {
			el, err := p.parseScalar()
			if err != nil {
				return nil, err
			}
			switch kind {
			case 'B':
				b, ok := el.(Byte)
				if !ok {
					return nil, p.errf("byte array element has tag %s", el.Tag())
				}
				bytes = append(bytes, int8(b))
			case 'I':
				n, ok := el.(Int)
				if !ok {
					return nil, p.errf("int array element has tag %s", el.Tag())
				}
				ints = append(ints, int32(n))
			case 'L':
				n, ok := el.(Long)
				if !ok {
					return nil, p.errf("long array element has tag %s", el.Tag())
				}
				longs = append(longs, int64(n))
			}
			p.skipSpace()
			c, ok := p.peek()
			if !ok {
				return nil, p.errf("unterminated array")
			}
			if c == ',' {
				p.pos++
				p.skipSpace()
				continue
			}
			if c == ']' {
				p.pos++
				break
			}
			return nil, p.errf("unexpected %q in array", c)
		}
	}
	switch kind {
	case 'B':
		if bytes == nil {
			bytes = ByteArray{}
		}
		return bytes, nil
	case 'I':
		if ints == nil {
			ints = IntArray{}
		}
		return ints, nil
	default:
		if longs == nil {
			longs = LongArray{}
		}
		return longs, nil
	}
}

func (p *snbtParser) parseQuoted() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errf("dangling escape")
			}
			next := p.src[p.pos+1]
			switch next {
			case '\\', '"', '\'':
				sb.WriteByte(next)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				return "", p.errf("unknown escape \\%c", next)
			}
			p.pos += 2
		case quote:
			p.pos++
			return sb.String(), nil
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errf("unterminated string")
}

// parseScalar handles numbers with optional type suffix, booleans and bare
// strings.
func (p *snbtParser) parseScalar() (Value, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isBareByte(p.src[p.pos]) {
		p.pos++
	}
	token := p.src[start:p.pos]
	if token == "" {
		return nil, p.errf("expected a value")
	}
	switch token {
	case "true":
		return Byte(1), nil
	case "false":
		return Byte(0), nil
	}
	if v, ok := parseNumber(token); ok {
		return v, nil
	}
	return String(token), nil
}

func parseNumber(token string) (Value, bool) {
	if token == "" {
		return nil, false
	}
	body, suffix := token, byte(0)
	last := token[len(token)-1]
	switch last {
	case 'b', 'B', 's', 'S', 'l', 'L', 'f', 'F', 'd', 'D':
		body, suffix = token[:len(token)-1], lowerByte(last)
	}
	if body == "" {
		return nil, false
	}

	switch suffix {
	case 'b':
		n, err := strconv.ParseInt(body, 10, 8)
		if err != nil {
			return nil, false
		}
		return Byte(n), true
	case 's':
		n, err := strconv.ParseInt(body, 10, 16)
		if err != nil {
			return nil, false
		}
		return Short(n), true
	case 'l':
		n, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return nil, false
		}
		return Long(n), true
	case 'f':
		f, err := strconv.ParseFloat(body, 32)
		if err != nil {
			return nil, false
		}
		return Float(f), true
	case 'd':
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return nil, false
		}
		return Double(f), true
	}

	// No suffix: integer literals are Int, decimal or exponent forms Double.
	if n, err := strconv.ParseInt(body, 10, 32); err == nil {
		return Int(n), true
	}
	if strings.ContainsAny(body, ".eE") {
		if f, err := strconv.ParseFloat(body, 64); err == nil {
			return Double(f), true
		}
	}
	return nil, false
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isBareByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.', c == '+':
		return true
	}
	return false
}
