package reader

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/dhamidi/smali/lang"
)

// recorder implements every visitor interface and records each event
// as one formatted string.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) VisitClass(descriptor string, flags lang.AccessFlags) ClassVisitor {
	r.add("class %s [%s]", descriptor, strings.Join(flags.Names(), " "))
	return r
}

func (r *recorder) VisitInnerClass(descriptor string, flags lang.AccessFlags) ClassVisitor {
	r.add("innerclass %s", descriptor)
	return r
}

func (r *recorder) VisitSuper(descriptor string)      { r.add("super %s", descriptor) }
func (r *recorder) VisitImplements(descriptor string) { r.add("implements %s", descriptor) }
func (r *recorder) VisitSource(name string)           { r.add("source %s", name) }

func (r *recorder) VisitField(name string, flags lang.AccessFlags, descriptor string, value *lang.Value) FieldVisitor {
	raw := "-"
	if value != nil {
		raw = value.Raw
	}
	r.add("field %s %s %s", name, descriptor, raw)
	return r
}

func (r *recorder) VisitMethod(name string, flags lang.AccessFlags, params []string, returnType string) MethodVisitor {
	r.add("method %s (%s)%s", name, strings.Join(params, ","), returnType)
	return r
}

func (r *recorder) VisitAnnotation(flags lang.AccessFlags, descriptor string) AnnotationVisitor {
	r.add("annotation %s [%s]", descriptor, strings.Join(flags.Names(), " "))
	return r
}

func (r *recorder) VisitComment(text string)    { r.add("comment %s", text) }
func (r *recorder) VisitEOLComment(text string) { r.add("eol %s", text) }
func (r *recorder) VisitEnd()                   { r.add("end") }

func (r *recorder) VisitRegisters(n int) { r.add("registers %d", n) }
func (r *recorder) VisitLocals(n int)    { r.add("locals %d", n) }
func (r *recorder) VisitLine(n int)      { r.add("line %d", n) }

func (r *recorder) VisitParam(register, name string) { r.add("param %s %s", register, name) }
func (r *recorder) VisitPrologue()                   { r.add("prologue") }
func (r *recorder) VisitRestart(register string)     { r.add("restart %s", register) }
func (r *recorder) VisitBlock(label string)          { r.add("block %s", label) }

func (r *recorder) VisitCatch(descriptor string, rng TryRange) {
	r.add("catch %s %s..%s:%s", descriptor, rng.Start, rng.End, rng.Handler)
}

func (r *recorder) VisitCatchall(descriptor string, rng TryRange) {
	r.add("catchall %s %s..%s:%s", descriptor, rng.Start, rng.End, rng.Handler)
}

func (r *recorder) VisitPackedSwitch(base string, labels []string) {
	r.add("packed %s [%s]", base, strings.Join(labels, " "))
}

func (r *recorder) VisitSparseSwitch(branches map[string]string) {
	keys := make([]string, 0, len(branches))
	for k := range branches {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+":"+branches[k])
	}
	r.add("sparse [%s]", strings.Join(pairs, " "))
}

func (r *recorder) VisitArrayData(width string, elements []string) {
	r.add("arraydata %s [%s]", width, strings.Join(elements, " "))
}

func (r *recorder) VisitLocal(register, name, descriptor, fullDescriptor string) {
	r.add("local %s %s %s %s", register, name, descriptor, fullDescriptor)
}

func (r *recorder) VisitInvoke(qualifier string, args []string, descriptor, signature string) {
	r.add("invoke %s {%s} %s %s", qualifier, strings.Join(args, " "), descriptor, signature)
}

func (r *recorder) VisitReturn(qualifier string, operands []string) {
	r.add("return %s [%s]", qualifier, strings.Join(operands, " "))
}

func (r *recorder) VisitGoto(label string) { r.add("goto %s", label) }

func (r *recorder) VisitInstruction(mnemonic string, operands []string) {
	r.add("instr %s [%s]", mnemonic, strings.Join(operands, " "))
}

func (r *recorder) VisitValue(name string, value lang.Value) {
	r.add("value %s %s", name, value.Raw)
}

func (r *recorder) VisitArray(name string, values []lang.Value) {
	raws := make([]string, 0, len(values))
	for _, v := range values {
		raws = append(raws, v.Raw)
	}
	r.add("array %s [%s]", name, strings.Join(raws, " "))
}

func (r *recorder) VisitEnum(name, descriptor, valueName, valueDescriptor string) {
	r.add("enum %s %s %s:%s", name, descriptor, valueName, valueDescriptor)
}

func (r *recorder) VisitSubannotation(name string, flags lang.AccessFlags, descriptor string) AnnotationVisitor {
	r.add("suba %s %s", name, descriptor)
	return r
}

func parse(t *testing.T, source string, opts ...Option) *recorder {
	t.Helper()
	rec := &recorder{}
	if err := New(opts...).VisitString(source, rec); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	return rec
}

func checkEvents(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestReaderMinimalUnit(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.super Ljava/lang/Object;
.method public constructor <init>()V
    .registers 1
.end method
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"super Ljava/lang/Object;",
		"method <init> ()V",
		"registers 1",
		"end",
		"end",
	})
}

func TestReaderClassHeader(t *testing.T) {
	rec := parse(t, `
.class public final Lcom/Example;
.super Ljava/lang/Object;
.implements Ljava/io/Serializable;
.source "Example.java"
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public final]",
		"super Ljava/lang/Object;",
		"implements Ljava/io/Serializable;",
		"source Example.java",
		"end",
	})
}

func TestReaderImplicitFieldEnd(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.field private final foo:I = 0x5
.method public run()V
.end method
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"field foo I 0x5",
		"end",
		"method run ()V",
		"end",
		"end",
	})
}

func TestReaderExplicitFieldEnd(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.field public bar:Ljava/lang/String;
.end field
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"field bar Ljava/lang/String; -",
		"end",
		"end",
	})
}

func TestReaderFieldValues(t *testing.T) {
	tests := []struct {
		decl string
		want string
	}{
		{`.field public a:I = 0x5`, "field a I 0x5"},
		{`.field public b:J = 100l`, "field b J 100l"},
		{`.field public c:Ljava/lang/String; = "hi"`, `field c Ljava/lang/String; "hi"`},
		{`.field public d:Z = true`, "field d Z true"},
	}
	for _, tt := range tests {
		rec := parse(t, ".class public Lcom/Example;\n"+tt.decl+"\n")
		if len(rec.events) < 2 || rec.events[1] != tt.want {
			t.Errorf("%s: events = %q, want second event %q", tt.decl, rec.events, tt.want)
		}
	}
}

func TestReaderFieldNullValue(t *testing.T) {
	err := New().VisitString(".class public Lcom/A;\n.field public x:Ljava/lang/Object; = null\n", &recorder{})
	if !errors.Is(err, lang.ErrUnknownLiteral) {
		t.Errorf("Visit() error = %v, want ErrUnknownLiteral", err)
	}

	// The classification failure is never policy-gated.
	err = New(WithErrorPolicy(ErrorsIgnore)).
		VisitString(".class public Lcom/A;\n.field public x:Ljava/lang/Object; = null\n", &recorder{})
	if !errors.Is(err, lang.ErrUnknownLiteral) {
		t.Errorf("Visit() error under ignore = %v, want ErrUnknownLiteral", err)
	}
}

func TestReaderMethodStatements(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.method public run(Ljava/lang/String;)V
    .registers 4
    .locals 2
    .prologue
    .line 10
    .param p1, "arg"
    .local v0, "name":Ljava/lang/String;, Ljava/lang/String;
    .restart local v0
.end method
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"method run (Ljava/lang/String;)V",
		"registers 4",
		"locals 2",
		"prologue",
		"line 10",
		"param p1 arg",
		"local v0 name Ljava/lang/String; Ljava/lang/String;",
		"restart v0",
		"end",
		"end",
	})
}

func TestReaderInstructions(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.method public run()V
    :start
    const/4 v0, 0x1
    invoke-virtual {p0, v0}, Lcom/Example;->go(I)V
    invoke-static {}, Lcom/Util;->init()V
    goto :start
    return-void
.end method
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"method run ()V",
		"block start",
		"instr const/4 [v0 0x1]",
		"invoke virtual {p0 v0} Lcom/Example; go(I)V",
		"invoke static {} Lcom/Util; init()V",
		"goto start",
		"return void []",
		"end",
		"end",
	})
}

func TestReaderReturnOperands(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.method public run()I
    return v0
.end method
`)
	if rec.events[2] != "return  [v0]" {
		t.Errorf("events[2] = %q, want %q", rec.events[2], "return  [v0]")
	}
}

func TestReaderCatch(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.method public run()V
    .catch Ljava/lang/Exception; {:try_start_0 .. :try_end_0} :handler_0
    .catchall {:try_start_0 .. :try_end_0} :handler_1
.end method
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"method run ()V",
		"catch Ljava/lang/Exception; try_start_0..try_end_0:handler_0",
		"catchall  try_start_0..try_end_0:handler_1",
		"end",
		"end",
	})
}

func TestReaderPackedSwitch(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.method public run()V
    .packed-switch 0x0
        :pswitch_2
        :pswitch_1
        :pswitch_0
    .end packed-switch
.end method
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"method run ()V",
		"packed 0x0 [pswitch_2 pswitch_1 pswitch_0]",
		"end",
		"end",
	})
}

func TestReaderSparseSwitch(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.method public run()V
    .sparse-switch
        0x1 -> :case_1
        0x2 -> :case_2
    .end sparse-switch
.end method
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"method run ()V",
		"sparse [0x1:case_1 0x2:case_2]",
		"end",
		"end",
	})
}

func TestReaderArrayData(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.method public run()V
    .array-data 4
        0x1
        0x2
        0x3
    .end array-data
.end method
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"method run ()V",
		"arraydata 4 [0x1 0x2 0x3]",
		"end",
		"end",
	})
}

func TestReaderAnnotation(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.annotation system Ldalvik/annotation/MemberClasses;
    value = {
        Lcom/Example$Inner;,
        Lcom/Example$Other;
    }
    name = "text"
    single = {Lcom/A;}
    kind = .enum Lcom/E;->DEBUG:Lcom/E;
.end annotation
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"annotation Ldalvik/annotation/MemberClasses; [system]",
		"array value [Lcom/Example$Inner; Lcom/Example$Other;]",
		`value name "text"`,
		"array single [Lcom/A;]",
		"enum kind Lcom/E; DEBUG:Lcom/E;",
		"end",
		"end",
	})
}

func TestReaderSubannotation(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.annotation runtime Lcom/Outer;
    sub = .subannotation Lcom/Inner;
        x = 0x1
    .end subannotation
.end annotation
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"annotation Lcom/Outer; [runtime]",
		"suba sub Lcom/Inner;",
		"value x 0x1",
		"end",
		"end",
		"end",
	})
}

func TestReaderFieldAnnotation(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Example;
.field public foo:I
    .annotation runtime Lcom/Mark;
    .end annotation
.end field
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"field foo I -",
		"annotation Lcom/Mark; [runtime]",
		"end",
		"end",
		"end",
	})
}

func TestReaderInnerClass(t *testing.T) {
	rec := parse(t, `
.class public Lcom/Outer;
.class public Lcom/Outer$Inner;
.super Ljava/lang/Object;
.end class
.super Ljava/lang/Number;
`)
	checkEvents(t, rec.events, []string{
		"class Lcom/Outer; [public]",
		"innerclass Lcom/Outer$Inner;",
		"super Ljava/lang/Object;",
		"end",
		"super Ljava/lang/Number;",
		"end",
	})
}

func TestReaderComments(t *testing.T) {
	source := `
# header comment
.class public Lcom/Example;
.super Ljava/lang/Object; # parent
`
	rec := parse(t, source)
	checkEvents(t, rec.events, []string{
		"comment header comment",
		"class Lcom/Example; [public]",
		"super Ljava/lang/Object;",
		"eol parent",
		"end",
	})

	rec = parse(t, source, WithoutComments())
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"super Ljava/lang/Object;",
		"eol parent",
		"end",
	})
}

func TestReaderSnippet(t *testing.T) {
	rec := parse(t, `
.super Ljava/lang/Object;
.field public a:I
`, WithSnippet())
	checkEvents(t, rec.events, []string{
		"super Ljava/lang/Object;",
		"field a I -",
		"end",
	})
}

func TestReaderEmptyInput(t *testing.T) {
	rec := parse(t, "")
	checkEvents(t, rec.events, []string{"end"})
}

func TestReaderValidation(t *testing.T) {
	var synErr *SyntaxError

	err := New(WithValidation()).VisitString(".klass public Lcom/A;\n", &recorder{})
	if !errors.As(err, &synErr) {
		t.Fatalf("Visit() error = %v, want *SyntaxError", err)
	}

	err = New(WithValidation()).VisitString(".class public com.Example\n", &recorder{})
	if !errors.As(err, &synErr) {
		t.Fatalf("Visit() error = %v, want *SyntaxError", err)
	}

	err = New(WithValidation()).VisitString("", &recorder{})
	if !errors.As(err, &synErr) {
		t.Fatalf("Visit() on empty input error = %v, want *SyntaxError", err)
	}

	// Without validation the same class header is accepted verbatim.
	rec := parse(t, ".class public com.Example\n")
	checkEvents(t, rec.events, []string{"class com.Example [public]", "end"})
}

func TestReaderErrorPolicy(t *testing.T) {
	source := ".class public Lcom/A;\n.field private\n"

	err := New().VisitString(source, &recorder{})
	if !errors.Is(err, lang.ErrEndOfLine) {
		t.Errorf("strict Visit() error = %v, want ErrEndOfLine", err)
	}
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Errorf("strict Visit() error = %T, want *SyntaxError", err)
	} else if synErr.Line != 2 {
		t.Errorf("SyntaxError.Line = %d, want 2", synErr.Line)
	}

	rec := &recorder{}
	if err := New(WithErrorPolicy(ErrorsIgnore)).VisitString(source, rec); err != nil {
		t.Fatalf("ignore Visit() error = %v", err)
	}
	checkEvents(t, rec.events, []string{"class Lcom/A; [public]", "end"})
}

func TestReaderMalformedSignature(t *testing.T) {
	source := ".class public Lcom/A;\n.method public broken\n"
	err := New(WithErrorPolicy(ErrorsIgnore)).VisitString(source, &recorder{})
	if !errors.Is(err, lang.ErrMalformedSignature) {
		t.Errorf("Visit() error = %v, want ErrMalformedSignature", err)
	}
}

func TestReaderInvalidConfiguration(t *testing.T) {
	err := New(WithErrorPolicy("lenient")).VisitString(".class Lcom/A;\n", &recorder{})
	if !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("Visit() error = %v, want ErrInvalidPolicy", err)
	}
}

func TestReaderNoInput(t *testing.T) {
	if err := New().Visit(nil, &recorder{}); !errors.Is(err, ErrNoInput) {
		t.Errorf("Visit(nil, v) error = %v, want ErrNoInput", err)
	}
	if err := New().VisitString("", nil); !errors.Is(err, ErrNoInput) {
		t.Errorf("Visit(src, nil) error = %v, want ErrNoInput", err)
	}
}

// discardMethods returns nil method scopes; nested method events must
// be dropped while the surrounding stack stays balanced.
type discardMethods struct {
	*recorder
}

func (d discardMethods) VisitClass(descriptor string, flags lang.AccessFlags) ClassVisitor {
	d.recorder.VisitClass(descriptor, flags)
	return d
}

func (d discardMethods) VisitMethod(name string, flags lang.AccessFlags, params []string, returnType string) MethodVisitor {
	d.recorder.add("method %s", name)
	return nil
}

func TestReaderInertScope(t *testing.T) {
	rec := &recorder{}
	source := `
.class public Lcom/Example;
.method public run()V
    .registers 2
    const/4 v0, 0x1
.end method
.field public after:I
`
	if err := New().VisitString(source, discardMethods{rec}); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	checkEvents(t, rec.events, []string{
		"class Lcom/Example; [public]",
		"method run",
		"field after I -",
		"end",
	})
}
