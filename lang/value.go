package lang

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownLiteral is returned when a lexeme matches none of the
// literal shapes. Null and absent values are deliberately unsupported
// and classify as unknown.
var ErrUnknownLiteral = errors.New("no matching literal kind")

// ErrIncompatibleKinds is returned by Value operations combining
// values whose kinds do not support the operation together.
var ErrIncompatibleKinds = errors.New("incompatible literal kinds")

// Kind tags a decoded literal. The declaration order is the
// classification precedence: the first shape that matches wins.
type Kind uint8

const (
	KindShort Kind = iota
	KindLong
	KindByte
	KindInt
	KindBool
	KindFloat
	KindDouble
	KindChar
	KindString
	KindType
)

var kindNames = [...]string{
	KindShort:  "short",
	KindLong:   "long",
	KindByte:   "byte",
	KindInt:    "int",
	KindBool:   "bool",
	KindFloat:  "float",
	KindDouble: "double",
	KindChar:   "char",
	KindString: "string",
	KindType:   "type",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// The shapes mirror the classification table of the grammar: integer
// kinds carry a one-letter suffix (s/l/t), floats an f suffix, chars
// and strings their quotes, and type references the descriptor form.
var (
	reShortValue  = regexp.MustCompile(`^[-+]?(0x[0-9a-fA-F]+|[0-9]+)s$`)
	reLongValue   = regexp.MustCompile(`^[-+]?(0x[0-9a-fA-F]+|[0-9]+)l$`)
	reByteValue   = regexp.MustCompile(`^[-+]?(0x[0-9a-fA-F]+|[0-9]+)t$`)
	reIntValue    = regexp.MustCompile(`^[-+]?(0x[0-9a-fA-F]+|[0-9]+)$`)
	reBoolValue   = regexp.MustCompile(`^(true|false)$`)
	reFloatValue  = regexp.MustCompile(`^[-+]?[0-9]+\.[0-9]+f$`)
	reDoubleValue = regexp.MustCompile(`^[-+]?[0-9]+\.[0-9]+$`)
	reCharValue   = regexp.MustCompile(`^'.*'$`)
	reStringValue = regexp.MustCompile(`^".*"$`)
)

// Value is a literal decoded from source text: the raw lexeme, its
// kind tag and the decoded native value behind explicit accessors.
type Value struct {
	Raw  string
	Kind Kind

	num  int64
	real float64
	str  string
	bit  bool
	typ  Type
}

type valuePattern struct {
	re   *regexp.Regexp
	kind Kind
}

var valuePatterns = []valuePattern{
	{reShortValue, KindShort},
	{reLongValue, KindLong},
	{reByteValue, KindByte},
	{reIntValue, KindInt},
	{reBoolValue, KindBool},
	{reFloatValue, KindFloat},
	{reDoubleValue, KindDouble},
	{reCharValue, KindChar},
	{reStringValue, KindString},
	{reTypeDescriptor, KindType},
}

// ParseValue classifies a raw lexeme against the ordered shape table
// and decodes it. Lexemes matching no shape (including "null") return
// ErrUnknownLiteral.
func ParseValue(raw string) (Value, error) {
	v := Value{Raw: raw}
	for _, entry := range valuePatterns {
		if !entry.re.MatchString(raw) {
			continue
		}
		v.Kind = entry.kind
		if err := v.decode(); err != nil {
			return Value{}, err
		}
		return v, nil
	}
	return Value{}, fmt.Errorf("%w: %q", ErrUnknownLiteral, raw)
}

func (v *Value) decode() error {
	var err error
	switch v.Kind {
	case KindShort, KindLong, KindByte:
		v.num, err = parseIntLexeme(v.Raw[:len(v.Raw)-1])
	case KindInt:
		v.num, err = parseIntLexeme(v.Raw)
	case KindBool:
		v.bit = v.Raw == "true"
	case KindFloat:
		v.real, err = strconv.ParseFloat(v.Raw[:len(v.Raw)-1], 64)
	case KindDouble:
		v.real, err = strconv.ParseFloat(v.Raw, 64)
	case KindChar, KindString:
		v.str = v.Raw[1 : len(v.Raw)-1]
	case KindType:
		v.typ = NewType(v.Raw)
	}
	return err
}

// parseIntLexeme decodes base 10 by default and base 16 when the
// digits carry a 0x prefix, preserving an optional sign.
func parseIntLexeme(s string) (int64, error) {
	neg := false
	digits := s
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	base := 10
	if strings.HasPrefix(digits, "0x") {
		digits = digits[2:]
		base = 16
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		n = -n
	}
	return n, nil
}

// IsNumeric reports whether the value holds an integer or floating
// point number.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindShort, KindLong, KindByte, KindInt, KindFloat, KindDouble:
		return true
	}
	return false
}

// Int returns the decoded integer for the integer-like kinds.
func (v Value) Int() int64 {
	return v.num
}

// Float returns the decoded number as a float64. Integer kinds are
// widened.
func (v Value) Float() float64 {
	switch v.Kind {
	case KindFloat, KindDouble:
		return v.real
	default:
		return float64(v.num)
	}
}

func (v Value) Bool() bool {
	return v.bit
}

// Str returns the decoded text of char and string literals, without
// the quotes.
func (v Value) Str() string {
	return v.str
}

// TypeRef returns the decoded type reference of a KindType literal.
func (v Value) TypeRef() Type {
	return v.typ
}

// Len returns the decoded length of char and string literals.
func (v Value) Len() int {
	return len(v.str)
}

// Index returns the i-th character of a string literal as a new char
// value.
func (v Value) Index(i int) (Value, error) {
	if v.Kind != KindString && v.Kind != KindChar {
		return Value{}, fmt.Errorf("%w: cannot index %s", ErrIncompatibleKinds, v.Kind)
	}
	if i < 0 || i >= len(v.str) {
		return Value{}, fmt.Errorf("index %d out of range for %q", i, v.str)
	}
	ch := string(v.str[i])
	return Value{Raw: "'" + ch + "'", Kind: KindChar, str: ch}, nil
}

// Compare orders two values of comparable kinds: -1, 0 or 1.
func (v Value) Compare(other Value) (int, error) {
	switch {
	case v.IsNumeric() && other.IsNumeric():
		a, b := v.Float(), other.Float()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	case (v.Kind == KindString || v.Kind == KindChar) && (other.Kind == KindString || other.Kind == KindChar):
		return strings.Compare(v.str, other.str), nil
	case v.Kind == KindBool && other.Kind == KindBool:
		if v.bit == other.bit {
			return 0, nil
		}
		if other.bit {
			return -1, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %s and %s", ErrIncompatibleKinds, v.Kind, other.Kind)
}

// Add combines two values into a new one of the receiver's kind:
// numeric addition or string concatenation. The receiver is never
// mutated.
func (v Value) Add(other Value) (Value, error) {
	return v.combine(other, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
}

// Sub subtracts other from v, producing a new value of v's kind.
func (v Value) Sub(other Value) (Value, error) {
	return v.combine(other, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
}

// Mul multiplies two numeric values into a new one of v's kind.
func (v Value) Mul(other Value) (Value, error) {
	return v.combine(other, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
}

func (v Value) combine(other Value, ints func(a, b int64) int64, floats func(a, b float64) float64) (Value, error) {
	switch v.Kind {
	case KindShort, KindLong, KindByte, KindInt:
		if !other.IsNumeric() {
			return Value{}, fmt.Errorf("%w: %s and %s", ErrIncompatibleKinds, v.Kind, other.Kind)
		}
		b := other.num
		if other.Kind == KindFloat || other.Kind == KindDouble {
			b = int64(other.real)
		}
		n := ints(v.num, b)
		return Value{Raw: strconv.FormatInt(n, 10) + intSuffix(v.Kind), Kind: v.Kind, num: n}, nil
	case KindFloat, KindDouble:
		if !other.IsNumeric() {
			return Value{}, fmt.Errorf("%w: %s and %s", ErrIncompatibleKinds, v.Kind, other.Kind)
		}
		f := floats(v.real, other.Float())
		return Value{Raw: strconv.FormatFloat(f, 'g', -1, 64), Kind: v.Kind, real: f}, nil
	case KindString:
		if other.Kind != KindString && other.Kind != KindChar {
			return Value{}, fmt.Errorf("%w: %s and %s", ErrIncompatibleKinds, v.Kind, other.Kind)
		}
		s := v.str + other.str
		return Value{Raw: `"` + s + `"`, Kind: KindString, str: s}, nil
	}
	return Value{}, fmt.Errorf("%w: %s does not support arithmetic", ErrIncompatibleKinds, v.Kind)
}

func intSuffix(k Kind) string {
	switch k {
	case KindShort:
		return "s"
	case KindLong:
		return "l"
	case KindByte:
		return "t"
	}
	return ""
}

func (v Value) String() string {
	return v.Raw
}
