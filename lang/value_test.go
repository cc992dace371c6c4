package lang

import (
	"errors"
	"testing"
)

func TestParseValueKinds(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{"5", KindInt},
		{"0x1A", KindInt},
		{"-12", KindInt},
		{"5s", KindShort},
		{"5l", KindLong},
		{"5t", KindByte},
		{"true", KindBool},
		{"false", KindBool},
		{"3.14f", KindFloat},
		{"3.14", KindDouble},
		{"'c'", KindChar},
		{`"hi"`, KindString},
		{"Ljava/lang/String;", KindType},
		{"[I", KindType},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := ParseValue(tt.raw)
			if err != nil {
				t.Fatalf("ParseValue(%q) error = %v", tt.raw, err)
			}
			if v.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.kind)
			}
			if v.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", v.Raw, tt.raw)
			}
		})
	}
}

func TestParseValueDecoding(t *testing.T) {
	intCases := []struct {
		raw  string
		want int64
	}{
		{"5", 5},
		{"0x1A", 26},
		{"-7", -7},
		{"+3", 3},
		{"5s", 5},
		{"0x10l", 16},
		{"2t", 2},
	}
	for _, tt := range intCases {
		v, err := ParseValue(tt.raw)
		if err != nil {
			t.Fatalf("ParseValue(%q) error = %v", tt.raw, err)
		}
		if v.Int() != tt.want {
			t.Errorf("ParseValue(%q).Int() = %d, want %d", tt.raw, v.Int(), tt.want)
		}
	}

	if v, _ := ParseValue("3.14"); v.Float() != 3.14 {
		t.Errorf("ParseValue(3.14).Float() = %v", v.Float())
	}
	if v, _ := ParseValue("2.5f"); v.Float() != 2.5 {
		t.Errorf("ParseValue(2.5f).Float() = %v", v.Float())
	}
	if v, _ := ParseValue("true"); !v.Bool() {
		t.Error("ParseValue(true).Bool() = false")
	}
	if v, _ := ParseValue(`"hi"`); v.Str() != "hi" {
		t.Errorf("ParseValue(\"hi\").Str() = %q", v.Str())
	}
	if v, _ := ParseValue("'x'"); v.Str() != "x" {
		t.Errorf("ParseValue('x').Str() = %q", v.Str())
	}
	if v, _ := ParseValue("Lcom/A;"); v.TypeRef().ClassName() != "com.A" {
		t.Errorf("ParseValue(Lcom/A;).TypeRef().ClassName() = %q", v.TypeRef().ClassName())
	}
}

func TestParseValueUnknown(t *testing.T) {
	for _, raw := range []string{"null", "", "v0", "{1,2}"} {
		if _, err := ParseValue(raw); !errors.Is(err, ErrUnknownLiteral) {
			t.Errorf("ParseValue(%q) error = %v, want ErrUnknownLiteral", raw, err)
		}
	}
}

func TestValuePrecedence(t *testing.T) {
	// Suffixed integers must win over the plain int shape, floats over
	// doubles.
	v, err := ParseValue("5s")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindShort {
		t.Errorf("Kind = %v, want KindShort", v.Kind)
	}

	v, err = ParseValue("1.5f")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindFloat {
		t.Errorf("Kind = %v, want KindFloat", v.Kind)
	}
}

func TestValueArithmetic(t *testing.T) {
	a, _ := ParseValue("40")
	b, _ := ParseValue("2")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if sum.Kind != KindInt || sum.Int() != 42 {
		t.Errorf("Add() = %v (%v), want 42 (int)", sum.Int(), sum.Kind)
	}
	// The receiver is unchanged.
	if a.Int() != 40 {
		t.Errorf("receiver mutated: %d", a.Int())
	}

	diff, _ := a.Sub(b)
	if diff.Int() != 38 {
		t.Errorf("Sub() = %d, want 38", diff.Int())
	}
	prod, _ := a.Mul(b)
	if prod.Int() != 80 {
		t.Errorf("Mul() = %d, want 80", prod.Int())
	}

	s, _ := ParseValue("5s")
	ssum, err := s.Add(b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if ssum.Kind != KindShort || ssum.Int() != 7 {
		t.Errorf("short Add() = %v (%v), want 7 (short)", ssum.Int(), ssum.Kind)
	}

	f, _ := ParseValue("1.5")
	fsum, err := f.Add(b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if fsum.Kind != KindDouble || fsum.Float() != 3.5 {
		t.Errorf("double Add() = %v (%v), want 3.5 (double)", fsum.Float(), fsum.Kind)
	}
}

func TestValueStringOps(t *testing.T) {
	hello, _ := ParseValue(`"hello"`)
	world, _ := ParseValue(`" world"`)

	if hello.Len() != 5 {
		t.Errorf("Len() = %d, want 5", hello.Len())
	}

	ch, err := hello.Index(1)
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if ch.Kind != KindChar || ch.Str() != "e" {
		t.Errorf("Index(1) = %q (%v), want e (char)", ch.Str(), ch.Kind)
	}
	if _, err := hello.Index(99); err == nil {
		t.Error("Index(99) error = nil")
	}

	joined, err := hello.Add(world)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if joined.Str() != "hello world" {
		t.Errorf("Add() = %q", joined.Str())
	}

	n, _ := ParseValue("1")
	if _, err := hello.Add(n); !errors.Is(err, ErrIncompatibleKinds) {
		t.Errorf("string+int error = %v, want ErrIncompatibleKinds", err)
	}
}

func TestValueCompare(t *testing.T) {
	one, _ := ParseValue("1")
	two, _ := ParseValue("2")
	half, _ := ParseValue("0.5")

	if c, _ := one.Compare(two); c != -1 {
		t.Errorf("1.Compare(2) = %d, want -1", c)
	}
	if c, _ := two.Compare(one); c != 1 {
		t.Errorf("2.Compare(1) = %d, want 1", c)
	}
	if c, _ := one.Compare(one); c != 0 {
		t.Errorf("1.Compare(1) = %d, want 0", c)
	}
	if c, _ := one.Compare(half); c != 1 {
		t.Errorf("1.Compare(0.5) = %d, want 1", c)
	}

	a, _ := ParseValue(`"a"`)
	b, _ := ParseValue(`"b"`)
	if c, _ := a.Compare(b); c != -1 {
		t.Errorf(`"a".Compare("b") = %d, want -1`, c)
	}

	tr, _ := ParseValue("true")
	if _, err := tr.Compare(one); !errors.Is(err, ErrIncompatibleKinds) {
		t.Errorf("bool.Compare(int) error = %v, want ErrIncompatibleKinds", err)
	}
}
