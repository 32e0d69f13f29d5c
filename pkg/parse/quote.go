package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"
)

var errNonASCIIBytes = errors.New("bytes can only contain ASCII literal characters")

// decodeString returns the kind and value of a string literal token. The
// value of a format string is not decoded and is always empty.
func decodeString(text string) (stringKind, string, error) {
	i := strings.IndexAny(text, `'"`)
	prefix := strings.ToLower(text[:i])
	quoted := text[i:]
	delim := quoted[:1]
	if len(quoted) >= 6 && quoted[:3] == strings.Repeat(delim, 3) {
		delim = quoted[:3]
	}
	body := quoted[len(delim) : len(quoted)-len(delim)]
	body = strings.ReplaceAll(body, "\r\n", "\n")

	kind := plainString
	switch {
	case strings.ContainsRune(prefix, 'f'):
		return formatString, "", nil
	case strings.ContainsRune(prefix, 'b'):
		kind = bytesString
		for j := 0; j < len(body); j++ {
			if body[j] >= utf8.RuneSelf {
				return 0, "", errNonASCIIBytes
			}
		}
	}
	if strings.ContainsRune(prefix, 'r') {
		return kind, body, nil
	}
	value, err := unescape(body, kind == bytesString)
	return kind, value, err
}

// unescape decodes backslash escape sequences. For bytes, \x and octal
// escapes produce single bytes and \u, \U and \N are not escapes.
func unescape(s string, bytes bool) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case '\n':
		case '\\', '\'', '"':
			sb.WriteByte(e)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			writeCode(&sb, rune(v), bytes)
			i = j - 1
		case 'x', 'u', 'U':
			n := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
			if bytes && e != 'x' {
				sb.WriteByte('\\')
				sb.WriteByte(e)
				continue
			}
			if i+1+n > len(s) {
				return "", fmt.Errorf(`truncated \%c escape`, e)
			}
			v, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32)
			if err != nil {
				return "", fmt.Errorf(`truncated \%c escape`, e)
			}
			if v > unicode.MaxRune {
				return "", fmt.Errorf(`illegal Unicode character in \%c escape`, e)
			}
			writeCode(&sb, rune(v), bytes)
			i += n
		case 'N':
			if bytes {
				sb.WriteString(`\N`)
				continue
			}
			end := strings.IndexByte(s[i:], '}')
			if i+1 == len(s) || s[i+1] != '{' || end < 0 {
				return "", errors.New(`malformed \N character escape`)
			}
			r, ok := lookupRune(s[i+2 : i+end])
			if !ok {
				return "", errors.New("unknown Unicode character name")
			}
			sb.WriteRune(r)
			i += end
		default:
			// Unrecognized escapes are kept verbatim.
			sb.WriteByte('\\')
			sb.WriteByte(e)
		}
	}
	return sb.String(), nil
}

var (
	runesByName     map[string]rune
	runesByNameOnce sync.Once
)

const cjkPrefix = "CJK UNIFIED IDEOGRAPH-"

// lookupRune finds a character by its Unicode name, ignoring case. Names of
// CJK unified ideographs are derived from their code points.
func lookupRune(name string) (rune, bool) {
	name = strings.ToUpper(name)
	if hex := strings.TrimPrefix(name, cjkPrefix); hex != name {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || (len(hex) != 4 && len(hex) != 5) ||
			!unicode.Is(unicode.Unified_Ideograph, rune(v)) {
			return 0, false
		}
		return rune(v), true
	}
	runesByNameOnce.Do(func() {
		runesByName = make(map[string]rune)
		for r := rune(0); r <= unicode.MaxRune; r++ {
			if n := runenames.Name(r); n != "" && n[0] != '<' {
				runesByName[n] = r
			}
		}
	})
	r, ok := runesByName[name]
	return r, ok
}

func writeCode(sb *strings.Builder, r rune, bytes bool) {
	if bytes {
		sb.WriteByte(byte(r))
	} else {
		sb.WriteRune(r)
	}
}

// quoteString renders s the way the repr of a str does: single quotes unless
// s contains a single quote and no double quote, with non-printable
// characters escaped.
func quoteString(s string) string {
	q := pickQuote(s)
	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\' || r == rune(q):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

// quoteBytes renders the bytes of s the way the repr of a bytes value does.
func quoteBytes(s string) string {
	q := pickQuote(s)
	var sb strings.Builder
	sb.WriteString("b")
	sb.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' || c == q:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

func pickQuote(s string) byte {
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		return '"'
	}
	return '\''
}
