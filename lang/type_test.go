package lang

import (
	"errors"
	"reflect"
	"testing"
)

func TestTypeClassName(t *testing.T) {
	tests := []struct {
		signature string
		want      string
	}{
		{"Lcom/example/ABC;", "com.example.ABC"},
		{"Lpkg/Sub/Name;", "pkg.Sub.Name"},
		{"[Lpkg/Name;", "pkg.Name"},
		{"[[Lpkg/Name;", "pkg.Name"},
		{"I", "I"},
	}

	for _, tt := range tests {
		if got := NewType(tt.signature).ClassName(); got != tt.want {
			t.Errorf("NewType(%q).ClassName() = %q, want %q", tt.signature, got, tt.want)
		}
	}
}

func TestTypeDescriptorRoundTrip(t *testing.T) {
	descriptors := []string{
		"Lpkg/Sub/Name;",
		"[Lpkg/Name;",
		"[[Lcom/example/ABC;",
	}

	for _, descriptor := range descriptors {
		typ := NewType(descriptor)
		rebuilt := TypeFromClassName(typ.ClassName()).Descriptor()
		for i := 0; i < typ.ArrayDepth(); i++ {
			rebuilt = "[" + rebuilt
		}
		if rebuilt != descriptor {
			t.Errorf("round trip of %q = %q", descriptor, rebuilt)
		}
	}
}

func TestTypeMethodSignature(t *testing.T) {
	typ := NewType("<init>(I[Ljava/lang/String;)V")

	name, err := typ.MethodName()
	if err != nil {
		t.Fatalf("MethodName() error = %v", err)
	}
	if name != "<init>" {
		t.Errorf("MethodName() = %q, want %q", name, "<init>")
	}

	params, err := typ.MethodParams()
	if err != nil {
		t.Fatalf("MethodParams() error = %v", err)
	}
	want := []string{"I", "[Ljava/lang/String;"}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("MethodParams() = %v, want %v", params, want)
	}

	ret, err := typ.MethodReturn()
	if err != nil {
		t.Fatalf("MethodReturn() error = %v", err)
	}
	if ret != "V" {
		t.Errorf("MethodReturn() = %q, want %q", ret, "V")
	}
}

func TestTypeMethodParams(t *testing.T) {
	tests := []struct {
		signature string
		want      []string
	}{
		{"run()V", nil},
		{"get(I)Ljava/lang/Object;", []string{"I"}},
		{"put(Ljava/lang/String;Ljava/lang/Object;)V", []string{"Ljava/lang/String;", "Ljava/lang/Object;"}},
		{"mix(IJ[B[[Lcom/A;Z)V", []string{"I", "J", "[B", "[[Lcom/A;", "Z"}},
	}

	for _, tt := range tests {
		params, err := NewType(tt.signature).MethodParams()
		if err != nil {
			t.Fatalf("MethodParams(%q) error = %v", tt.signature, err)
		}
		if !reflect.DeepEqual(params, tt.want) {
			t.Errorf("MethodParams(%q) = %v, want %v", tt.signature, params, tt.want)
		}
	}
}

func TestTypeMethodNameBrackets(t *testing.T) {
	tests := []struct {
		signature string
		want      string
	}{
		{"<init>()V", "<init>"},
		{"<clinit>()V", "<clinit>"},
		{"<custom>()V", "custom"},
		{"plain(I)V", "plain"},
	}

	for _, tt := range tests {
		name, err := NewType(tt.signature).MethodName()
		if err != nil {
			t.Fatalf("MethodName(%q) error = %v", tt.signature, err)
		}
		if name != tt.want {
			t.Errorf("MethodName(%q) = %q, want %q", tt.signature, name, tt.want)
		}
	}
}

func TestTypeMalformedSignature(t *testing.T) {
	if _, err := NewType("noparens").MethodName(); !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("MethodName() error = %v, want ErrMalformedSignature", err)
	}
	if _, err := NewType("broken(I").MethodParams(); !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("MethodParams() error = %v, want ErrMalformedSignature", err)
	}
	if _, err := NewType("broken").MethodReturn(); !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("MethodReturn() error = %v, want ErrMalformedSignature", err)
	}
}

func TestIsTypeDescriptor(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Lcom/example/ABC;", true},
		{"[Lcom/example/ABC;", true},
		{"[[I", true},
		{"Z", true},
		{"J", true},
		{"hello", false},
		{"Lcom/missing/semicolon", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsTypeDescriptor(tt.input); got != tt.want {
			t.Errorf("IsTypeDescriptor(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
