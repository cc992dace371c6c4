package lang

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedSignature is returned for method-type queries on a
// signature missing its parameter list parentheses.
var ErrMalformedSignature = errors.New("malformed signature")

const (
	// MethodInit is the constructor name; returned verbatim.
	MethodInit = "<init>"
	// MethodClinit is the static initializer name; returned verbatim.
	MethodClinit = "<clinit>"
)

var reTypeDescriptor = regexp.MustCompile(`^\[*(L\S*;|[ZCBSIFJD])$`)

// IsTypeDescriptor reports whether s is lexically a DVM type
// descriptor: an optional run of array markers followed by either an
// object descriptor "Lpkg/Name;" or a primitive letter.
func IsTypeDescriptor(s string) bool {
	return reTypeDescriptor.MatchString(s)
}

// Type wraps a smali signature string: a class descriptor
// ("Lpkg/Name;"), an array descriptor ("[Lpkg/Name;") or a full method
// signature ("name(params)return"). All queries are pure functions
// over the wrapped string.
type Type struct {
	signature string
}

func NewType(signature string) Type {
	return Type{signature: signature}
}

// TypeFromClassName converts a dotted class name back to its object
// descriptor form.
func TypeFromClassName(name string) Type {
	return Type{signature: "L" + strings.ReplaceAll(name, ".", "/") + ";"}
}

// Signature returns the wrapped string verbatim.
func (t Type) Signature() string {
	return t.signature
}

// Descriptor returns the internal descriptor form, e.g. "Lcom/a/B;".
func (t Type) Descriptor() string {
	return t.signature
}

// ArrayDepth counts the leading array markers of the descriptor.
func (t Type) ArrayDepth() int {
	depth := 0
	for depth < len(t.signature) && t.signature[depth] == '[' {
		depth++
	}
	return depth
}

// SimpleName returns the slash-separated name without array markers,
// "L" and ";".
func (t Type) SimpleName() string {
	name := t.signature[t.ArrayDepth():]
	if strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";") {
		return name[1 : len(name)-1]
	}
	return name
}

// ClassName returns the dotted class name, e.g. "com.a.B".
func (t Type) ClassName() string {
	return strings.ReplaceAll(t.SimpleName(), "/", ".")
}

// MethodName extracts the method name of a method signature.
// "<init>" and "<clinit>" are returned verbatim; any other bracketed
// name has its brackets stripped.
func (t Type) MethodName() (string, error) {
	idx := strings.IndexByte(t.signature, '(')
	if idx == -1 {
		return "", fmt.Errorf("%w: no parameter list in %q", ErrMalformedSignature, t.signature)
	}
	name := t.signature[:idx]
	if name == MethodInit || name == MethodClinit {
		return name, nil
	}
	return strings.TrimLeft(strings.TrimRight(name, ">"), "<"), nil
}

// MethodParams extracts the ordered parameter descriptors of a method
// signature. Object descriptors accumulate until their terminating
// ";", a run of leading "[" attaches to the following parameter, and
// every remaining single character is one primitive parameter.
func (t Type) MethodParams() ([]string, error) {
	start := strings.IndexByte(t.signature, '(')
	end := strings.IndexByte(t.signature, ')')
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: %q", ErrMalformedSignature, t.signature)
	}

	params := t.signature[start+1 : end]
	var list []string
	var current strings.Builder
	inObject := false
	for i := 0; i < len(params); i++ {
		ch := params[i]
		switch {
		case inObject:
			current.WriteByte(ch)
			if ch == ';' {
				list = append(list, current.String())
				current.Reset()
				inObject = false
			}
		case ch == 'L':
			inObject = true
			current.WriteByte(ch)
		case ch == '[':
			current.WriteByte(ch)
		default:
			current.WriteByte(ch)
			list = append(list, current.String())
			current.Reset()
		}
	}
	return list, nil
}

// MethodReturn extracts the return descriptor of a method signature.
func (t Type) MethodReturn() (string, error) {
	end := strings.IndexByte(t.signature, ')')
	if end == -1 {
		return "", fmt.Errorf("%w: %q", ErrMalformedSignature, t.signature)
	}
	return t.signature[end+1:], nil
}

func (t Type) String() string {
	return t.signature
}
