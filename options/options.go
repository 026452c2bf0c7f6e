// Package options implements parsing of CUPS's text options, also
// known as PAPI text attributes, and their application to CUPS Raster
// page headers.
package options

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// The parser implemented in this file parses PAPI attributes/text
// options. Its specification can be found in
// http://www.opensource.apple.com/source/cups/cups-136.9/cups/standards/papi-1.0.pdf
// on page 120.

const errEOF = "unexpected end of input"

// A SyntaxError describes malformed option text. Offset is the byte
// offset in the input at which the error was detected.
type SyntaxError struct {
	Offset int
	msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("options: %s at offset %d", e.msg, e.Offset)
}

type Range struct {
	Start int
	End   int
}

type Resolution struct {
	X int
	Y int
}

// An Option is a named option with zero or more values. Options
// without values are boolean flags; a "no" prefix negates them.
type Option struct {
	Name   string
	Values []string
}

// RealName returns the option's name without the negating "no" prefix
// of flags.
func (o Option) RealName() string {
	if len(o.Values) == 0 && len(o.Name) > 2 && strings.HasPrefix(o.Name, "no") {
		return o.Name[2:]
	}
	return o.Name
}

// Bool returns the option's boolean value. Flags are true unless
// negated. Options with a single value are true if the value is "yes"
// or "true". All other options are false.
func (o Option) Bool() bool {
	switch len(o.Values) {
	case 0:
		return o.RealName() == o.Name
	case 1:
		v, _ := ParseBool(o.Values[0])
		return v
	default:
		return false
	}
}

// Value returns the option's first value, or the empty string.
func (o Option) Value() string {
	if len(o.Values) == 0 {
		return ""
	}
	return o.Values[0]
}

type decoder struct {
	input  string
	offset int
}

func (d *decoder) eof() bool {
	return d.offset >= len(d.input)
}

func (d *decoder) errorf(msg string) error {
	return &SyntaxError{Offset: d.offset, msg: msg}
}

// ParseOptions parses a list of space separated options. Values are
// returned verbatim, with quoting and escapes removed. Collection
// values keep their braces and quoting and can be parsed by another
// call to ParseOptions.
func ParseOptions(s string) ([]Option, error) {
	d := &decoder{input: s}
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		d.input = s[:len(s)-1]
		d.offset = 1
	}
	var opts []Option
	for {
		name := d.parseName()
		if name == "" {
			if !d.eof() {
				return nil, d.errorf("missing option name")
			}
			return opts, nil
		}
		option := Option{Name: name}
		d.consumeSpace()
		if !d.eof() && d.input[d.offset] == '=' {
			// this is a value option
			d.offset++
			for {
				v, err := d.parseValue()
				if err != nil {
					return nil, err
				}
				option.Values = append(option.Values, v)
				if d.eof() || d.input[d.offset] != ',' {
					break
				}
				d.offset++
			}
		}
		opts = append(opts, option)
	}
}

func (d *decoder) parseValue() (string, error) {
	d.consumeSpace()
	if d.eof() {
		return "", d.errorf(errEOF)
	}
	switch d.input[d.offset] {
	case '{':
		return d.parseCollection()
	case '\'', '"':
		return d.parseString(true)
	case ',':
		return "", d.errorf("empty value")
	default:
		return d.parseString(false)
	}
}

// parseCollection returns a brace-delimited value, including the
// braces. Braces inside quotes or after a backslash don't count.
func (d *decoder) parseCollection() (string, error) {
	start := d.offset
	depth := 0
	escape := false
	var quote byte
	for ; !d.eof(); d.offset++ {
		c := d.input[d.offset]
		if escape {
			escape = false
			continue
		}
		switch c {
		case '\\':
			escape = true
		case '\'', '"':
			if c == quote {
				quote = 0
			} else if quote == 0 {
				quote = c
			}
		case '{':
			if quote == 0 {
				depth++
			}
		case '}':
			if quote == 0 {
				depth--
				if depth == 0 {
					d.offset++
					return d.input[start:d.offset], nil
				}
			}
		}
	}
	return "", d.errorf(errEOF)
}

// parseOctal parses the three digits of an octal escape.
func (d *decoder) parseOctal() (byte, error) {
	n := 0
	i := 0
	for ; i < 3 && !d.eof(); i++ {
		c := d.input[d.offset]
		if c < '0' || c > '7' {
			break
		}
		n = n*8 + int(c-'0')
		d.offset++
	}
	if i != 3 || n > math.MaxUint8 {
		return 0, d.errorf("invalid octal number")
	}
	return byte(n), nil
}

func validStringByte(c byte) bool {
	return c == 0x21 ||
		(c >= 0x23 && c <= 0x26) ||
		(c >= 0x28 && c <= 0x5b) ||
		(c >= 0x5d && c <= 0x7e) ||
		c >= 0xa0
}

func (d *decoder) parseString(quoted bool) (string, error) {
	var open byte
	if quoted {
		if len(d.input)-d.offset < 2 {
			return "", d.errorf(errEOF)
		}
		open = d.input[d.offset]
		d.offset++
		if open != '"' && open != '\'' {
			return "", d.errorf("improperly quoted string")
		}
	}
	var sb strings.Builder
	for !d.eof() {
		c := d.input[d.offset]
		switch {
		case c == '\\':
			d.offset++
			if d.eof() {
				return "", d.errorf(errEOF)
			}
			c = d.input[d.offset]
			if c >= '0' && c <= '7' {
				v, err := d.parseOctal()
				if err != nil {
					return "", err
				}
				sb.WriteByte(v)
				continue
			}
			if c != ' ' && c != '"' && c != '\'' && c != '\\' && !validStringByte(c) {
				return "", d.errorf("invalid byte in string")
			}
			sb.WriteByte(c)
		case quoted && c == open:
			d.offset++
			return sb.String(), nil
		case c == '"' || c == '\'':
			if !quoted {
				return "", d.errorf("unescaped quote in unquoted string")
			}
			sb.WriteByte(c)
		case c == ' ' || c == ',':
			if !quoted {
				// commas separate multiple values, even though the
				// grammar permits them in unquoted strings.
				return sb.String(), nil
			}
			sb.WriteByte(c)
		case validStringByte(c):
			sb.WriteByte(c)
		default:
			if !quoted && unicode.IsSpace(rune(c)) {
				return sb.String(), nil
			}
			return "", d.errorf("invalid byte in string")
		}
		d.offset++
	}
	if quoted {
		// didn't see a closing quote
		return "", d.errorf(errEOF)
	}
	return sb.String(), nil
}

func (d *decoder) parseName() string {
	d.consumeSpace()
	start := d.offset
	for ; !d.eof(); d.offset++ {
		c := d.input[d.offset]
		if unicode.IsSpace(rune(c)) || c == '=' {
			break
		}
	}
	return d.input[start:d.offset]
}

func (d *decoder) consumeSpace() {
	for !d.eof() && unicode.IsSpace(rune(d.input[d.offset])) {
		d.offset++
	}
}

// ParseBool interprets s as a boolean value. "yes" and "true"
// evaluate to true, while "no" and "false" evaluate to false. Other
// values are not permitted.
func ParseBool(s string) (v bool, ok bool) {
	if s == "yes" || s == "no" || s == "true" || s == "false" {
		return s == "yes" || s == "true", true
	}
	return false, false
}

// ParseNumber interprets s as a whole number, optionally with a sign.
func ParseNumber(s string) (v int, ok bool) {
	if !isNumber(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// ParseRange interprets s as a range consisting of two whole,
// positive numbers without signs.
func ParseRange(s string) (v Range, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return Range{}, false
	}
	n1, err1 := strconv.ParseInt(parts[0], 10, 32)
	n2, err2 := strconv.ParseInt(parts[1], 10, 32)
	if err1 != nil || err2 != nil {
		return Range{}, false
	}
	return Range{int(n1), int(n2)}, true
}

// ParseResolution interprets s as a resolution. Valid inputs look
// like "600dpi", "600x300dpi", "600dpc" or "600x300dpc". Resolutions
// in dots per centimeter will be converted to dots per inch.
func ParseResolution(s string) (v Resolution, ok bool) {
	if len(s) < 4 {
		return Resolution{}, false
	}
	suffix := s[len(s)-3:]
	prefix := s[:len(s)-3]
	if suffix != "dpi" && suffix != "dpc" {
		return Resolution{}, false
	}
	parts := strings.SplitN(prefix, "x", 2)
	s1 := parts[0]
	s2 := s1
	if len(parts) == 2 {
		s2 = parts[1]
	}
	if !isDigits(s1) || !isDigits(s2) {
		return Resolution{}, false
	}
	n1, err1 := strconv.ParseInt(s1, 10, 32)
	n2, err2 := strconv.ParseInt(s2, 10, 32)
	if err1 != nil || err2 != nil {
		return Resolution{}, false
	}

	if suffix == "dpi" {
		return Resolution{int(n1), int(n2)}, true
	}
	return Resolution{
		int(math.Floor(float64(n1)*2.54 + 0.5)),
		int(math.Floor(float64(n2)*2.54 + 0.5)),
	}, true
}

func isNumber(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '-' || s[i] == '+' {
			if i != 0 || len(s) == 1 {
				return false
			}
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
