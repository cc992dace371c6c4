package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/smali/lang"
	"github.com/dhamidi/smali/reader"
)

// eventPrinter writes one line per parse event, indented by scope
// depth. It backs the parse command's --events flag.
type eventPrinter struct {
	w     io.Writer
	depth int
}

func (p *eventPrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.depth), fmt.Sprintf(format, args...))
}

func (p *eventPrinter) child() *eventPrinter {
	return &eventPrinter{w: p.w, depth: p.depth + 1}
}

func (p *eventPrinter) VisitClass(descriptor string, flags lang.AccessFlags) reader.ClassVisitor {
	p.printf("class %s %v", descriptor, flags.Names())
	return p
}

func (p *eventPrinter) VisitInnerClass(descriptor string, flags lang.AccessFlags) reader.ClassVisitor {
	p.printf("inner-class %s %v", descriptor, flags.Names())
	return p.child()
}

func (p *eventPrinter) VisitSuper(descriptor string)      { p.printf("super %s", descriptor) }
func (p *eventPrinter) VisitImplements(descriptor string) { p.printf("implements %s", descriptor) }
func (p *eventPrinter) VisitSource(name string)           { p.printf("source %s", name) }

func (p *eventPrinter) VisitField(name string, flags lang.AccessFlags, descriptor string, value *lang.Value) reader.FieldVisitor {
	if value != nil {
		p.printf("field %s:%s %v = %s", name, descriptor, flags.Names(), value.Raw)
	} else {
		p.printf("field %s:%s %v", name, descriptor, flags.Names())
	}
	return p.child()
}

func (p *eventPrinter) VisitMethod(name string, flags lang.AccessFlags, params []string, returnType string) reader.MethodVisitor {
	p.printf("method %s(%s)%s %v", name, strings.Join(params, ""), returnType, flags.Names())
	return p.child()
}

func (p *eventPrinter) VisitAnnotation(flags lang.AccessFlags, descriptor string) reader.AnnotationVisitor {
	p.printf("annotation %s %v", descriptor, flags.Names())
	return p.child()
}

func (p *eventPrinter) VisitRegisters(n int) { p.printf("registers %d", n) }
func (p *eventPrinter) VisitLocals(n int)    { p.printf("locals %d", n) }
func (p *eventPrinter) VisitLine(n int)      { p.printf("line %d", n) }

func (p *eventPrinter) VisitParam(register, name string) { p.printf("param %s %q", register, name) }
func (p *eventPrinter) VisitPrologue()                   { p.printf("prologue") }
func (p *eventPrinter) VisitRestart(register string)     { p.printf("restart %s", register) }
func (p *eventPrinter) VisitBlock(label string)          { p.printf("block :%s", label) }

func (p *eventPrinter) VisitCatch(descriptor string, rng reader.TryRange) {
	p.printf("catch %s {%s .. %s} -> %s", descriptor, rng.Start, rng.End, rng.Handler)
}

func (p *eventPrinter) VisitCatchall(descriptor string, rng reader.TryRange) {
	p.printf("catchall %s {%s .. %s} -> %s", descriptor, rng.Start, rng.End, rng.Handler)
}

func (p *eventPrinter) VisitPackedSwitch(base string, labels []string) {
	p.printf("packed-switch %s %v", base, labels)
}

func (p *eventPrinter) VisitSparseSwitch(branches map[string]string) {
	p.printf("sparse-switch %v", branches)
}

func (p *eventPrinter) VisitArrayData(width string, elements []string) {
	p.printf("array-data %s %v", width, elements)
}

func (p *eventPrinter) VisitLocal(register, name, descriptor, fullDescriptor string) {
	p.printf("local %s %q %s %s", register, name, descriptor, fullDescriptor)
}

func (p *eventPrinter) VisitInvoke(qualifier string, args []string, descriptor, signature string) {
	p.printf("invoke-%s %v %s->%s", qualifier, args, descriptor, signature)
}

func (p *eventPrinter) VisitReturn(qualifier string, operands []string) {
	p.printf("return %s %v", qualifier, operands)
}

func (p *eventPrinter) VisitGoto(label string) { p.printf("goto :%s", label) }

func (p *eventPrinter) VisitInstruction(mnemonic string, operands []string) {
	p.printf("instruction %s %v", mnemonic, operands)
}

func (p *eventPrinter) VisitValue(name string, value lang.Value) {
	p.printf("value %s = %s", name, value.Raw)
}

func (p *eventPrinter) VisitArray(name string, values []lang.Value) {
	raws := make([]string, len(values))
	for i, v := range values {
		raws[i] = v.Raw
	}
	p.printf("array %s = %v", name, raws)
}

func (p *eventPrinter) VisitEnum(name, descriptor, valueName, valueDescriptor string) {
	p.printf("enum %s = %s->%s:%s", name, descriptor, valueName, valueDescriptor)
}

func (p *eventPrinter) VisitSubannotation(name string, flags lang.AccessFlags, descriptor string) reader.AnnotationVisitor {
	p.printf("subannotation %s = %s %v", name, descriptor, flags.Names())
	return p.child()
}

func (p *eventPrinter) VisitComment(text string)    { p.printf("# %s", text) }
func (p *eventPrinter) VisitEOLComment(text string) { p.printf("#= %s", text) }
func (p *eventPrinter) VisitEnd()                   { p.printf("end") }
