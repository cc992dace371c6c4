package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/smali/lang"
	"github.com/dhamidi/smali/model"
)

type JSONEncoder struct {
	w     io.Writer
	class *model.Class
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *model.Class) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := buildClass(e.class)
	return json.MarshalIndent(data, "", "  ")
}

type jsonClass struct {
	Descriptor   string           `json:"descriptor"`
	Name         string           `json:"name"`
	SimpleName   string           `json:"simpleName"`
	Package      string           `json:"package,omitempty"`
	SuperClass   string           `json:"superClass,omitempty"`
	Interfaces   []string         `json:"interfaces,omitempty"`
	SourceFile   string           `json:"sourceFile,omitempty"`
	Modifiers    []string         `json:"modifiers,omitempty"`
	Annotations  []jsonAnnotation `json:"annotations,omitempty"`
	Fields       []jsonField      `json:"fields,omitempty"`
	Methods      []jsonMethod     `json:"methods,omitempty"`
	InnerClasses []jsonClass      `json:"innerClasses,omitempty"`
}

type jsonField struct {
	Name        string           `json:"name"`
	Descriptor  string           `json:"descriptor"`
	Modifiers   []string         `json:"modifiers,omitempty"`
	Value       string           `json:"value,omitempty"`
	Annotations []jsonAnnotation `json:"annotations,omitempty"`
}

type jsonMethod struct {
	Name        string           `json:"name"`
	Descriptor  string           `json:"descriptor"`
	Parameters  []string         `json:"parameters,omitempty"`
	ReturnType  string           `json:"returnType"`
	Modifiers   []string         `json:"modifiers,omitempty"`
	Registers   int              `json:"registers,omitempty"`
	Locals      int              `json:"locals,omitempty"`
	Annotations []jsonAnnotation `json:"annotations,omitempty"`
	Invokes     []jsonInvoke     `json:"invokes,omitempty"`
}

type jsonInvoke struct {
	Qualifier string   `json:"qualifier"`
	Args      []string `json:"args,omitempty"`
	Owner     string   `json:"owner"`
	Signature string   `json:"signature"`
}

type jsonAnnotation struct {
	Descriptor string         `json:"descriptor"`
	Modifiers  []string       `json:"modifiers,omitempty"`
	Values     map[string]any `json:"values,omitempty"`
}

func buildClass(c *model.Class) jsonClass {
	data := jsonClass{
		Descriptor:  c.Descriptor,
		Name:        c.Name,
		SimpleName:  c.SimpleName(),
		Package:     c.Package(),
		SuperClass:  c.SuperClass,
		Interfaces:  c.Interfaces,
		SourceFile:  c.SourceFile,
		Modifiers:   c.Flags.Names(),
		Annotations: buildAnnotations(c.Annotations),
		Fields:      buildFields(c.Fields),
		Methods:     buildMethods(c.Methods),
	}
	for _, inner := range c.InnerClasses {
		data.InnerClasses = append(data.InnerClasses, buildClass(inner))
	}
	return data
}

func buildFields(fields []model.Field) []jsonField {
	result := make([]jsonField, len(fields))
	for i, f := range fields {
		result[i] = jsonField{
			Name:        f.Name,
			Descriptor:  f.Descriptor,
			Modifiers:   f.Flags.Names(),
			Annotations: buildAnnotations(f.Annotations),
		}
		if f.Value != nil {
			result[i].Value = f.Value.Raw
		}
	}
	return result
}

func buildMethods(methods []model.Method) []jsonMethod {
	result := make([]jsonMethod, len(methods))
	for i, m := range methods {
		result[i] = jsonMethod{
			Name:        m.Name,
			Descriptor:  m.Descriptor(),
			Parameters:  m.Parameters,
			ReturnType:  m.ReturnType,
			Modifiers:   m.Flags.Names(),
			Registers:   m.Registers,
			Locals:      m.Locals,
			Annotations: buildAnnotations(m.Annotations),
			Invokes:     buildInvokes(m.Invokes),
		}
	}
	return result
}

func buildInvokes(invokes []model.Invoke) []jsonInvoke {
	result := make([]jsonInvoke, len(invokes))
	for i, v := range invokes {
		result[i] = jsonInvoke{
			Qualifier: v.Qualifier,
			Args:      v.Args,
			Owner:     v.Owner,
			Signature: v.Signature,
		}
	}
	return result
}

func buildAnnotations(annotations []model.Annotation) []jsonAnnotation {
	result := make([]jsonAnnotation, len(annotations))
	for i, a := range annotations {
		result[i] = jsonAnnotation{
			Descriptor: a.Descriptor,
			Modifiers:  a.Flags.Names(),
			Values:     buildAnnotationValues(a.Values),
		}
	}
	return result
}

// buildAnnotationValues flattens annotation values to JSON-friendly
// shapes: scalars to their raw lexeme, arrays to raw lexeme lists,
// enum references and nested subannotations to objects.
func buildAnnotationValues(values map[string]any) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for name, value := range values {
		switch v := value.(type) {
		case lang.Value:
			out[name] = v.Raw
		case []lang.Value:
			raws := make([]string, len(v))
			for i, elem := range v {
				raws[i] = elem.Raw
			}
			out[name] = raws
		case model.EnumValue:
			out[name] = map[string]string{
				"descriptor":      v.Descriptor,
				"name":            v.ValueName,
				"valueDescriptor": v.ValueDescriptor,
			}
		case *model.Annotation:
			out[name] = jsonAnnotation{
				Descriptor: v.Descriptor,
				Modifiers:  v.Flags.Names(),
				Values:     buildAnnotationValues(v.Values),
			}
		default:
			out[name] = v
		}
	}
	return out
}
