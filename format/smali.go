package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/smali/lang"
	"github.com/dhamidi/smali/model"
)

// SmaliEncoder writes the declaration skeleton of a class back out as
// smali source: the class header, annotations, fields and method
// signatures. Method bodies are not reconstructed.
type SmaliEncoder struct {
	w     io.Writer
	class *model.Class
}

func NewSmaliEncoder(w io.Writer) *SmaliEncoder {
	return &SmaliEncoder{w: w}
}

func (e *SmaliEncoder) Encode(class *model.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SmaliEncoder) MarshalText() ([]byte, error) {
	var b strings.Builder
	writeClass(&b, e.class)
	return []byte(b.String()), nil
}

func writeClass(b *strings.Builder, c *model.Class) {
	fmt.Fprintf(b, ".class%s %s\n", flagText(c.Flags), c.Descriptor)
	if c.SuperClass != "" {
		fmt.Fprintf(b, ".super %s\n", c.SuperClass)
	}
	if c.SourceFile != "" {
		fmt.Fprintf(b, ".source %q\n", c.SourceFile)
	}
	for _, iface := range c.Interfaces {
		fmt.Fprintf(b, ".implements %s\n", iface)
	}
	for _, a := range c.Annotations {
		b.WriteString("\n")
		writeAnnotation(b, a, "")
	}
	for _, f := range c.Fields {
		b.WriteString("\n")
		writeField(b, f)
	}
	for _, m := range c.Methods {
		b.WriteString("\n")
		writeMethod(b, m)
	}
}

func writeField(b *strings.Builder, f model.Field) {
	fmt.Fprintf(b, ".field%s %s:%s", flagText(f.Flags), f.Name, f.Descriptor)
	if f.Value != nil {
		fmt.Fprintf(b, " = %s", f.Value.Raw)
	}
	b.WriteString("\n")
	if len(f.Annotations) > 0 {
		for _, a := range f.Annotations {
			writeAnnotation(b, a, "    ")
		}
		b.WriteString(".end field\n")
	}
}

func writeMethod(b *strings.Builder, m model.Method) {
	fmt.Fprintf(b, ".method%s %s%s\n", flagText(m.Flags), m.Name, m.Descriptor())
	if m.Registers > 0 {
		fmt.Fprintf(b, "    .registers %d\n", m.Registers)
	}
	if m.Locals > 0 {
		fmt.Fprintf(b, "    .locals %d\n", m.Locals)
	}
	for _, a := range m.Annotations {
		writeAnnotation(b, a, "    ")
	}
	b.WriteString(".end method\n")
}

func writeAnnotation(b *strings.Builder, a model.Annotation, indent string) {
	fmt.Fprintf(b, "%s.annotation%s %s\n", indent, flagText(a.Flags), a.Descriptor)
	writeAnnotationValues(b, a.Values, indent+"    ")
	fmt.Fprintf(b, "%s.end annotation\n", indent)
}

func writeAnnotationValues(b *strings.Builder, values map[string]any, indent string) {
	for _, name := range sortedValueNames(values) {
		switch v := values[name].(type) {
		case lang.Value:
			fmt.Fprintf(b, "%s%s = %s\n", indent, name, v.Raw)
		case []lang.Value:
			fmt.Fprintf(b, "%s%s = {\n", indent, name)
			for _, elem := range v {
				fmt.Fprintf(b, "%s    %s,\n", indent, elem.Raw)
			}
			fmt.Fprintf(b, "%s}\n", indent)
		case model.EnumValue:
			fmt.Fprintf(b, "%s%s = .enum %s->%s:%s\n", indent, name, v.Descriptor, v.ValueName, v.ValueDescriptor)
		case *model.Annotation:
			fmt.Fprintf(b, "%s%s = .subannotation %s\n", indent, name, v.Descriptor)
			writeAnnotationValues(b, v.Values, indent+"    ")
			fmt.Fprintf(b, "%s.end subannotation\n", indent)
		}
	}
}

func sortedValueNames(values map[string]any) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	// Stable output for map-backed values.
	sort.Strings(names)
	return names
}

func flagText(flags lang.AccessFlags) string {
	names := flags.Names()
	if len(names) == 0 {
		return ""
	}
	return " " + strings.Join(names, " ")
}
