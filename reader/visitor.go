package reader

import "github.com/dhamidi/smali/lang"

// TryRange is the block-label triple attached to a catch statement.
type TryRange struct {
	Start   string
	End     string
	Handler string
}

// ClassVisitor receives the events of one class scope. VisitClass and
// VisitInnerClass return the scope the following events are delivered
// to; a nil return substitutes an inert scope whose nested events are
// discarded while stack discipline is preserved. The same applies to
// every other visit method returning a scope.
type ClassVisitor interface {
	VisitClass(descriptor string, flags lang.AccessFlags) ClassVisitor
	VisitInnerClass(descriptor string, flags lang.AccessFlags) ClassVisitor
	VisitSuper(descriptor string)
	VisitImplements(descriptor string)
	VisitSource(name string)
	VisitField(name string, flags lang.AccessFlags, descriptor string, value *lang.Value) FieldVisitor
	VisitMethod(name string, flags lang.AccessFlags, params []string, returnType string) MethodVisitor
	VisitAnnotation(flags lang.AccessFlags, descriptor string) AnnotationVisitor
	VisitComment(text string)
	VisitEOLComment(text string)
	VisitEnd()
}

// FieldVisitor receives the events of one field scope. A field scope
// closes on its explicit ".end field" or implicitly when any other
// statement follows.
type FieldVisitor interface {
	VisitAnnotation(flags lang.AccessFlags, descriptor string) AnnotationVisitor
	VisitComment(text string)
	VisitEOLComment(text string)
	VisitEnd()
}

// MethodVisitor receives the events of one method scope.
type MethodVisitor interface {
	VisitRegisters(n int)
	VisitLocals(n int)
	VisitLine(n int)
	VisitParam(register, name string)
	VisitPrologue()
	VisitRestart(register string)
	VisitBlock(label string)
	VisitCatch(descriptor string, rng TryRange)
	VisitCatchall(descriptor string, rng TryRange)
	VisitPackedSwitch(base string, labels []string)
	VisitSparseSwitch(branches map[string]string)
	VisitArrayData(width string, elements []string)
	VisitLocal(register, name, descriptor, fullDescriptor string)
	VisitInvoke(qualifier string, args []string, descriptor, signature string)
	VisitReturn(qualifier string, operands []string)
	VisitGoto(label string)
	VisitInstruction(mnemonic string, operands []string)
	VisitComment(text string)
	VisitEOLComment(text string)
	VisitEnd()
}

// AnnotationVisitor receives the events of one annotation or
// subannotation scope.
type AnnotationVisitor interface {
	VisitValue(name string, value lang.Value)
	VisitArray(name string, values []lang.Value)
	VisitEnum(name, descriptor, valueName, valueDescriptor string)
	VisitSubannotation(name string, flags lang.AccessFlags, descriptor string) AnnotationVisitor
	VisitComment(text string)
	VisitEOLComment(text string)
	VisitEnd()
}

// BaseClassVisitor is a no-op ClassVisitor for embedding.
type BaseClassVisitor struct{}

func (BaseClassVisitor) VisitClass(string, lang.AccessFlags) ClassVisitor      { return nil }
func (BaseClassVisitor) VisitInnerClass(string, lang.AccessFlags) ClassVisitor { return nil }
func (BaseClassVisitor) VisitSuper(string)                                     {}
func (BaseClassVisitor) VisitImplements(string)                                {}
func (BaseClassVisitor) VisitSource(string)                                    {}
func (BaseClassVisitor) VisitField(string, lang.AccessFlags, string, *lang.Value) FieldVisitor {
	return nil
}
func (BaseClassVisitor) VisitMethod(string, lang.AccessFlags, []string, string) MethodVisitor {
	return nil
}
func (BaseClassVisitor) VisitAnnotation(lang.AccessFlags, string) AnnotationVisitor { return nil }
func (BaseClassVisitor) VisitComment(string)                                        {}
func (BaseClassVisitor) VisitEOLComment(string)                                     {}
func (BaseClassVisitor) VisitEnd()                                                  {}

// BaseFieldVisitor is a no-op FieldVisitor for embedding.
type BaseFieldVisitor struct{}

func (BaseFieldVisitor) VisitAnnotation(lang.AccessFlags, string) AnnotationVisitor { return nil }
func (BaseFieldVisitor) VisitComment(string)                                        {}
func (BaseFieldVisitor) VisitEOLComment(string)                                     {}
func (BaseFieldVisitor) VisitEnd()                                                  {}

// BaseMethodVisitor is a no-op MethodVisitor for embedding.
type BaseMethodVisitor struct{}

func (BaseMethodVisitor) VisitRegisters(int)                           {}
func (BaseMethodVisitor) VisitLocals(int)                              {}
func (BaseMethodVisitor) VisitLine(int)                                {}
func (BaseMethodVisitor) VisitParam(string, string)                    {}
func (BaseMethodVisitor) VisitPrologue()                               {}
func (BaseMethodVisitor) VisitRestart(string)                          {}
func (BaseMethodVisitor) VisitBlock(string)                            {}
func (BaseMethodVisitor) VisitCatch(string, TryRange)                  {}
func (BaseMethodVisitor) VisitCatchall(string, TryRange)               {}
func (BaseMethodVisitor) VisitPackedSwitch(string, []string)           {}
func (BaseMethodVisitor) VisitSparseSwitch(map[string]string)          {}
func (BaseMethodVisitor) VisitArrayData(string, []string)              {}
func (BaseMethodVisitor) VisitLocal(string, string, string, string)    {}
func (BaseMethodVisitor) VisitInvoke(string, []string, string, string) {}
func (BaseMethodVisitor) VisitReturn(string, []string)                 {}
func (BaseMethodVisitor) VisitGoto(string)                             {}
func (BaseMethodVisitor) VisitInstruction(string, []string)            {}
func (BaseMethodVisitor) VisitComment(string)                          {}
func (BaseMethodVisitor) VisitEOLComment(string)                       {}
func (BaseMethodVisitor) VisitEnd()                                    {}

// BaseAnnotationVisitor is a no-op AnnotationVisitor for embedding.
type BaseAnnotationVisitor struct{}

func (BaseAnnotationVisitor) VisitValue(string, lang.Value)    {}
func (BaseAnnotationVisitor) VisitArray(string, []lang.Value)  {}
func (BaseAnnotationVisitor) VisitEnum(_, _, _, _ string)      {}
func (BaseAnnotationVisitor) VisitSubannotation(string, lang.AccessFlags, string) AnnotationVisitor {
	return nil
}
func (BaseAnnotationVisitor) VisitComment(string)    {}
func (BaseAnnotationVisitor) VisitEOLComment(string) {}
func (BaseAnnotationVisitor) VisitEnd()              {}
