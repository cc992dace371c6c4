// Package format renders a parsed class model for output.
package format

import (
	"encoding"

	"github.com/dhamidi/smali/model"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *model.Class) error
}
