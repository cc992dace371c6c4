package lang

// Token is one of the leading-dot statement keywords of the smali
// grammar. The vocabulary is fixed and closed; comparisons are plain
// string equality against the bare keyword text.
type Token string

const (
	TokenAnnotation    Token = "annotation"
	TokenArrayData     Token = "array-data"
	TokenCatch         Token = "catch"
	TokenCatchall      Token = "catchall"
	TokenClass         Token = "class"
	TokenEnd           Token = "end"
	TokenEnum          Token = "enum"
	TokenField         Token = "field"
	TokenImplements    Token = "implements"
	TokenLine          Token = "line"
	TokenLocal         Token = "local"
	TokenLocals        Token = "locals"
	TokenMethod        Token = "method"
	TokenPackedSwitch  Token = "packed-switch"
	TokenParam         Token = "param"
	TokenPrologue      Token = "prologue"
	TokenRegisters     Token = "registers"
	TokenRestart       Token = "restart"
	TokenSource        Token = "source"
	TokenSparseSwitch  Token = "sparse-switch"
	TokenSubannotation Token = "subannotation"
	TokenSuper         Token = "super"
)

var tokens = map[string]Token{
	"annotation":    TokenAnnotation,
	"array-data":    TokenArrayData,
	"catch":         TokenCatch,
	"catchall":      TokenCatchall,
	"class":         TokenClass,
	"end":           TokenEnd,
	"enum":          TokenEnum,
	"field":         TokenField,
	"implements":    TokenImplements,
	"line":          TokenLine,
	"local":         TokenLocal,
	"locals":        TokenLocals,
	"method":        TokenMethod,
	"packed-switch": TokenPackedSwitch,
	"param":         TokenParam,
	"prologue":      TokenPrologue,
	"registers":     TokenRegisters,
	"restart":       TokenRestart,
	"source":        TokenSource,
	"sparse-switch": TokenSparseSwitch,
	"subannotation": TokenSubannotation,
	"super":         TokenSuper,
}

// LookupToken resolves a bare keyword (without the leading dot) to its
// Token. The second result is false for text outside the vocabulary.
func LookupToken(keyword string) (Token, bool) {
	tok, ok := tokens[keyword]
	return tok, ok
}

func (t Token) String() string {
	return string(t)
}
