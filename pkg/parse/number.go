package parse

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

type numberKind int

const (
	intNumber numberKind = iota
	floatNumber
	imagNumber
)

// number is the value of a numeric literal.
type number struct {
	kind numberKind
	int  *big.Int
	// Value of a float literal, or the imaginary part of an imaginary
	// literal.
	float float64
}

// numberValue returns the value of a numeric literal, and whether the
// literal is well-formed.
func numberValue(text string) (number, bool) {
	lower := strings.ToLower(text)
	if len(lower) > 2 && lower[0] == '0' && strings.ContainsRune("xob", rune(lower[1])) {
		base := map[byte]int{'x': 16, 'o': 8, 'b': 2}[lower[1]]
		digits, ok := cleanDigits(lower[2:], true)
		if !ok {
			return number{}, false
		}
		n, ok := new(big.Int).SetString(digits, base)
		if !ok {
			return number{}, false
		}
		return number{kind: intNumber, int: n}, true
	}

	if strings.HasSuffix(lower, "j") {
		f, ok := floatValue(lower[:len(lower)-1])
		return number{kind: imagNumber, float: f}, ok
	}
	if strings.ContainsAny(lower, ".e") {
		f, ok := floatValue(lower)
		return number{kind: floatNumber, float: f}, ok
	}

	digits, ok := cleanDigits(lower, false)
	if !ok {
		return number{}, false
	}
	if len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "0") != "" {
		// Leading zeros in a non-zero decimal integer are not permitted.
		return number{}, false
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return number{}, false
	}
	return number{kind: intNumber, int: n}, true
}

// floatValue parses the body of a float literal, such as "1_0.5e-3".
func floatValue(s string) (float64, bool) {
	mantissa, exp := s, ""
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		mantissa, exp = s[:i], s[i+1:]
		if exp == "" {
			return 0, false
		}
	}
	whole, frac := mantissa, ""
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		whole, frac = mantissa[:i], mantissa[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, false
	}
	var ok bool
	if whole != "" {
		if whole, ok = cleanDigits(whole, false); !ok {
			return 0, false
		}
	}
	if frac != "" {
		if frac, ok = cleanDigits(frac, false); !ok {
			return 0, false
		}
	}
	clean := whole + "." + frac
	if exp != "" {
		sign := ""
		if exp[0] == '+' || exp[0] == '-' {
			sign, exp = exp[:1], exp[1:]
		}
		if exp, ok = cleanDigits(exp, false); !ok {
			return 0, false
		}
		clean += "e" + sign + exp
	}
	if whole == "" {
		clean = "0" + clean
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		if ne, isNumErr := err.(*strconv.NumError); !isNumErr || ne.Err != strconv.ErrRange {
			return 0, false
		}
	}
	return f, true
}

// cleanDigits removes the underscores of a digit group, checking that each
// underscore sits between two digits. If leading is true, a single leading
// underscore is allowed, as after a base prefix.
func cleanDigits(s string, leading bool) (string, bool) {
	if leading && strings.HasPrefix(s, "_") {
		s = s[1:]
	}
	if s == "" || s[0] == '_' || s[len(s)-1] == '_' || strings.Contains(s, "__") {
		return "", false
	}
	return strings.ReplaceAll(s, "_", ""), true
}

func (n number) render() string {
	switch n.kind {
	case intNumber:
		return n.int.String()
	case floatNumber:
		return floatRepr(n.float, true)
	default:
		return floatRepr(n.float, false) + "j"
	}
}

// floatRepr renders f the way a shortest-round-trip repr does: positional
// notation for decimal exponents in [-4, 16), scientific otherwise. If
// pointZero is true, integral values in positional notation get a ".0"
// suffix.
func floatRepr(f float64, pointZero bool) string {
	if math.IsInf(f, 0) {
		// The shortest literal that overflows to infinity.
		return "1e309"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if pointZero && !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
