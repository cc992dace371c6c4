// Package model holds an in-memory document model of a smali class and
// a visitor that assembles it from the parse event stream.
package model

import (
	"github.com/dhamidi/smali/lang"
	"github.com/dhamidi/smali/reader"
)

type Class struct {
	Descriptor string
	Name       string
	Flags      lang.AccessFlags
	SuperClass string
	Interfaces []string
	SourceFile string

	Annotations  []Annotation
	Fields       []Field
	Methods      []Method
	InnerClasses []*Class
}

// SimpleName returns the class name without its package.
func (c *Class) SimpleName() string {
	name := c.Name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

// Package returns the dotted package prefix of the class name, or ""
// for the default package.
func (c *Class) Package() string {
	name := c.Name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return ""
}

// Field finds a declared field by name, or nil.
func (c *Class) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// Method finds the first declared method with the given name, or nil.
// Overloads share a name; MethodsNamed returns all of them.
func (c *Class) Method(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

func (c *Class) MethodsNamed(name string) []*Method {
	var found []*Method
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			found = append(found, &c.Methods[i])
		}
	}
	return found
}

type Field struct {
	Name        string
	Descriptor  string
	Flags       lang.AccessFlags
	Value       *lang.Value
	Annotations []Annotation
}

type Method struct {
	Name       string
	Flags      lang.AccessFlags
	Parameters []string
	ReturnType string

	Registers int
	Locals    int

	Annotations  []Annotation
	Labels       []string
	Catches      []Catch
	Invokes      []Invoke
	Instructions []Instruction
}

// Descriptor rebuilds the method's type signature, e.g. "(I[B)V".
func (m *Method) Descriptor() string {
	sig := "("
	for _, p := range m.Parameters {
		sig += p
	}
	return sig + ")" + m.ReturnType
}

type Instruction struct {
	Mnemonic string
	Operands []string
}

type Invoke struct {
	Qualifier string
	Args      []string
	Owner     string
	Signature string
}

type Catch struct {
	Descriptor string
	Range      reader.TryRange
}

// Annotation carries the values of one annotation. Array values are
// stored as []lang.Value, scalars as lang.Value, enum references as
// EnumValue and nested subannotations as *Annotation.
type Annotation struct {
	Descriptor string
	Flags      lang.AccessFlags
	Values     map[string]any
}

type EnumValue struct {
	Descriptor      string
	ValueName       string
	ValueDescriptor string
}
