package model

import (
	"io"
	"os"

	"github.com/dhamidi/smali/lang"
	"github.com/dhamidi/smali/reader"
)

// FromReader parses smali source and returns the assembled class model.
func FromReader(src io.Reader, opts ...reader.Option) (*Class, error) {
	b := NewBuilder()
	if err := reader.New(opts...).Visit(src, b); err != nil {
		return nil, err
	}
	return b.Class, nil
}

// FromString parses smali source held in a string.
func FromString(src string, opts ...reader.Option) (*Class, error) {
	b := NewBuilder()
	if err := reader.New(opts...).VisitString(src, b); err != nil {
		return nil, err
	}
	return b.Class, nil
}

// FromFile parses the smali file at path.
func FromFile(path string, opts ...reader.Option) (*Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromReader(f, opts...)
}

// Builder assembles a Class from the event stream. Pass it to a Reader
// as the class visitor and read Class afterwards.
type Builder struct {
	reader.BaseClassVisitor
	Class *Class
}

func NewBuilder() *Builder {
	return &Builder{Class: &Class{}}
}

func (b *Builder) VisitClass(descriptor string, flags lang.AccessFlags) reader.ClassVisitor {
	b.Class.Descriptor = descriptor
	b.Class.Name = lang.NewType(descriptor).ClassName()
	b.Class.Flags = flags
	return b
}

func (b *Builder) VisitInnerClass(descriptor string, flags lang.AccessFlags) reader.ClassVisitor {
	inner := &Builder{Class: &Class{
		Descriptor: descriptor,
		Name:       lang.NewType(descriptor).ClassName(),
		Flags:      flags,
	}}
	b.Class.InnerClasses = append(b.Class.InnerClasses, inner.Class)
	return inner
}

func (b *Builder) VisitSuper(descriptor string) {
	b.Class.SuperClass = descriptor
}

func (b *Builder) VisitImplements(descriptor string) {
	b.Class.Interfaces = append(b.Class.Interfaces, descriptor)
}

func (b *Builder) VisitSource(name string) {
	b.Class.SourceFile = name
}

func (b *Builder) VisitField(name string, flags lang.AccessFlags, descriptor string, value *lang.Value) reader.FieldVisitor {
	return &fieldBuilder{
		class: b.Class,
		field: Field{Name: name, Descriptor: descriptor, Flags: flags, Value: value},
	}
}

func (b *Builder) VisitMethod(name string, flags lang.AccessFlags, params []string, returnType string) reader.MethodVisitor {
	return &methodBuilder{
		class:  b.Class,
		method: Method{Name: name, Flags: flags, Parameters: params, ReturnType: returnType},
	}
}

func (b *Builder) VisitAnnotation(flags lang.AccessFlags, descriptor string) reader.AnnotationVisitor {
	return newAnnotationBuilder(flags, descriptor, func(a Annotation) {
		b.Class.Annotations = append(b.Class.Annotations, a)
	})
}

type fieldBuilder struct {
	reader.BaseFieldVisitor
	class *Class
	field Field
}

func (fb *fieldBuilder) VisitAnnotation(flags lang.AccessFlags, descriptor string) reader.AnnotationVisitor {
	return newAnnotationBuilder(flags, descriptor, func(a Annotation) {
		fb.field.Annotations = append(fb.field.Annotations, a)
	})
}

func (fb *fieldBuilder) VisitEnd() {
	fb.class.Fields = append(fb.class.Fields, fb.field)
}

type methodBuilder struct {
	reader.BaseMethodVisitor
	class  *Class
	method Method
}

func (mb *methodBuilder) VisitRegisters(n int) { mb.method.Registers = n }
func (mb *methodBuilder) VisitLocals(n int)    { mb.method.Locals = n }

func (mb *methodBuilder) VisitBlock(label string) {
	mb.method.Labels = append(mb.method.Labels, label)
}

func (mb *methodBuilder) VisitCatch(descriptor string, rng reader.TryRange) {
	mb.method.Catches = append(mb.method.Catches, Catch{Descriptor: descriptor, Range: rng})
}

func (mb *methodBuilder) VisitCatchall(descriptor string, rng reader.TryRange) {
	mb.method.Catches = append(mb.method.Catches, Catch{Descriptor: descriptor, Range: rng})
}

func (mb *methodBuilder) VisitInvoke(qualifier string, args []string, owner, signature string) {
	mb.method.Invokes = append(mb.method.Invokes, Invoke{
		Qualifier: qualifier,
		Args:      args,
		Owner:     owner,
		Signature: signature,
	})
	mb.method.Instructions = append(mb.method.Instructions, Instruction{
		Mnemonic: "invoke-" + qualifier,
		Operands: append(append([]string{}, args...), owner+"->"+signature),
	})
}

func (mb *methodBuilder) VisitReturn(qualifier string, operands []string) {
	mnemonic := "return"
	if qualifier != "" {
		mnemonic += "-" + qualifier
	}
	mb.method.Instructions = append(mb.method.Instructions, Instruction{Mnemonic: mnemonic, Operands: operands})
}

func (mb *methodBuilder) VisitGoto(label string) {
	mb.method.Instructions = append(mb.method.Instructions, Instruction{Mnemonic: "goto", Operands: []string{label}})
}

func (mb *methodBuilder) VisitInstruction(mnemonic string, operands []string) {
	mb.method.Instructions = append(mb.method.Instructions, Instruction{Mnemonic: mnemonic, Operands: operands})
}

func (mb *methodBuilder) VisitEnd() {
	mb.class.Methods = append(mb.class.Methods, mb.method)
}

type annotationBuilder struct {
	reader.BaseAnnotationVisitor
	annotation Annotation
	done       func(Annotation)
}

func newAnnotationBuilder(flags lang.AccessFlags, descriptor string, done func(Annotation)) *annotationBuilder {
	return &annotationBuilder{
		annotation: Annotation{
			Descriptor: descriptor,
			Flags:      flags,
			Values:     make(map[string]any),
		},
		done: done,
	}
}

func (ab *annotationBuilder) VisitValue(name string, value lang.Value) {
	ab.annotation.Values[name] = value
}

func (ab *annotationBuilder) VisitArray(name string, values []lang.Value) {
	ab.annotation.Values[name] = values
}

func (ab *annotationBuilder) VisitEnum(name, descriptor, valueName, valueDescriptor string) {
	ab.annotation.Values[name] = EnumValue{
		Descriptor:      descriptor,
		ValueName:       valueName,
		ValueDescriptor: valueDescriptor,
	}
}

func (ab *annotationBuilder) VisitSubannotation(name string, flags lang.AccessFlags, descriptor string) reader.AnnotationVisitor {
	return newAnnotationBuilder(flags, descriptor, func(a Annotation) {
		ab.annotation.Values[name] = &a
	})
}

func (ab *annotationBuilder) VisitEnd() {
	if ab.done != nil {
		ab.done(ab.annotation)
	}
}
