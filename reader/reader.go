// Package reader implements a streaming front end for smali source
// code. The Reader tokenizes the input line by line, tracks the nested
// lexical scopes on a stack and delivers an ordered event sequence to
// a ClassVisitor without building a syntax tree of its own.
package reader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/smali/lang"
)

// ErrorPolicy selects the behavior on an unexpected end of line while
// a statement is being assembled.
type ErrorPolicy string

const (
	// ErrorsStrict propagates an unexpected end of line as a syntax
	// failure.
	ErrorsStrict ErrorPolicy = "strict"
	// ErrorsIgnore abandons the statement and continues with the next
	// line.
	ErrorsIgnore ErrorPolicy = "ignore"
)

type Option func(*Reader)

// WithValidation enables strict checking of keyword tokens and type
// descriptors.
func WithValidation() Option {
	return func(r *Reader) {
		r.validate = true
	}
}

// WithoutComments suppresses standalone comment events.
func WithoutComments() Option {
	return func(r *Reader) {
		r.comments = false
	}
}

// WithSnippet skips the mandatory leading class definition so code
// fragments can be parsed directly.
func WithSnippet() Option {
	return func(r *Reader) {
		r.snippet = true
	}
}

// WithErrorPolicy selects the end-of-line policy.
func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(r *Reader) {
		r.policy = policy
	}
}

// Reader parses smali source and drives a visitor. A Reader holds only
// configuration; every Visit call runs on its own session state, so
// one Reader may be reused sequentially. It must not be shared by
// concurrent parses.
type Reader struct {
	validate bool
	comments bool
	snippet  bool
	policy   ErrorPolicy
}

func New(opts ...Option) *Reader {
	r := &Reader{
		comments: true,
		policy:   ErrorsStrict,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Visit parses the given source and delivers the event sequence to
// visitor. It returns once the stream is exhausted (flushing a final
// end-of-scope event) or a syntax failure aborts the parse.
func (r *Reader) Visit(source io.Reader, visitor ClassVisitor) error {
	if source == nil || visitor == nil {
		return ErrNoInput
	}
	if r.policy != ErrorsStrict && r.policy != ErrorsIgnore {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, string(r.policy))
	}

	s := &session{
		cfg:     r,
		scanner: bufio.NewScanner(source),
		line:    lang.NewLine(""),
		stack:   []scope{{kind: scopeClass, class: visitor}},
		root:    visitor,
	}
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !r.snippet {
		err := s.classDef(true, false)
		switch {
		case err == nil:
		case errors.Is(err, errEndOfStream):
			if r.validate {
				return s.syntaxError("expected a class definition, got end of stream", err)
			}
		case errors.Is(err, lang.ErrEndOfLine):
			if r.policy == ErrorsStrict {
				return s.syntaxError("unexpected end of line", err)
			}
		default:
			return err
		}
	}
	return s.run()
}

// VisitString parses source held in a string.
func (r *Reader) VisitString(source string, visitor ClassVisitor) error {
	return r.Visit(strings.NewReader(source), visitor)
}

// VisitBytes parses source held in a byte slice.
func (r *Reader) VisitBytes(source []byte, visitor ClassVisitor) error {
	return r.Visit(bytes.NewReader(source), visitor)
}

type scopeKind uint8

const (
	scopeClass scopeKind = iota
	scopeField
	scopeMethod
	scopeAnnotation
	scopeSubannotation
)

// scope is one frame of the context stack. Exactly one visitor field
// matching the kind is set; a frame with a nil visitor is inert and
// swallows the events routed to it.
type scope struct {
	kind       scopeKind
	class      ClassVisitor
	field      FieldVisitor
	method     MethodVisitor
	annotation AnnotationVisitor
}

func (sc *scope) visitComment(text string) {
	switch sc.kind {
	case scopeClass:
		if sc.class != nil {
			sc.class.VisitComment(text)
		}
	case scopeField:
		if sc.field != nil {
			sc.field.VisitComment(text)
		}
	case scopeMethod:
		if sc.method != nil {
			sc.method.VisitComment(text)
		}
	case scopeAnnotation, scopeSubannotation:
		if sc.annotation != nil {
			sc.annotation.VisitComment(text)
		}
	}
}

func (sc *scope) visitEOLComment(text string) {
	switch sc.kind {
	case scopeClass:
		if sc.class != nil {
			sc.class.VisitEOLComment(text)
		}
	case scopeField:
		if sc.field != nil {
			sc.field.VisitEOLComment(text)
		}
	case scopeMethod:
		if sc.method != nil {
			sc.method.VisitEOLComment(text)
		}
	case scopeAnnotation, scopeSubannotation:
		if sc.annotation != nil {
			sc.annotation.VisitEOLComment(text)
		}
	}
}

func (sc *scope) visitEnd() {
	switch sc.kind {
	case scopeClass:
		if sc.class != nil {
			sc.class.VisitEnd()
		}
	case scopeField:
		if sc.field != nil {
			sc.field.VisitEnd()
		}
	case scopeMethod:
		if sc.method != nil {
			sc.method.VisitEnd()
		}
	case scopeAnnotation, scopeSubannotation:
		if sc.annotation != nil {
			sc.annotation.VisitEnd()
		}
	}
}

// session is the transient state of one in-flight parse.
type session struct {
	cfg        *Reader
	scanner    *bufio.Scanner
	line       *lang.Line
	lineNo     int
	stack      []scope
	root       ClassVisitor
	rootClosed bool
}

func (s *session) top() *scope {
	return &s.stack[len(s.stack)-1]
}

func (s *session) push(sc scope) {
	s.stack = append(s.stack, sc)
}

// popEnd closes the top scope and emits its end-of-scope event. Frame
// 0 is never removed; closing it marks the session finished instead,
// which keeps pop-on-empty unrepresentable.
func (s *session) popEnd() {
	sc := *s.top()
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	} else {
		s.rootClosed = true
	}
	sc.visitEnd()
}

func (s *session) classScope() ClassVisitor {
	if t := s.top(); t.kind == scopeClass {
		return t.class
	}
	return nil
}

func (s *session) methodScope() MethodVisitor {
	if t := s.top(); t.kind == scopeMethod {
		return t.method
	}
	return nil
}

func (s *session) annotationScope() AnnotationVisitor {
	if t := s.top(); t.kind == scopeAnnotation || t.kind == scopeSubannotation {
		return t.annotation
	}
	return nil
}

// nextLine advances to the next statement line. Blank lines are
// skipped silently; comment-only lines are forwarded as standalone
// comment events and skipped.
func (s *session) nextLine() error {
	for {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return err
			}
			return errEndOfStream
		}
		s.lineNo++
		s.line.Reset(s.scanner.Text())
		if s.line.Len() > 0 {
			return nil
		}
		if comment, ok := s.line.Comment(); ok && s.cfg.comments {
			s.top().visitComment(comment)
		}
	}
}

// publishComment forwards the EOL comment of the current line, if any,
// to the active scope. Handlers call it after their primary event.
func (s *session) publishComment() {
	if text, ok := s.line.Comment(); ok {
		s.top().visitEOLComment(text)
	}
}

func (s *session) syntaxError(msg string, cause error) *SyntaxError {
	return &SyntaxError{Line: s.lineNo, Msg: msg, Err: cause}
}

func (s *session) syntaxErrorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: s.lineNo, Msg: fmt.Sprintf(format, args...)}
}

func (s *session) validateToken(token string, expected lang.Token) error {
	if !s.cfg.validate {
		return nil
	}
	if len(token) == 0 || token[0] != '.' {
		return s.syntaxErrorf("expected '.' before token, got %q", token)
	}
	if token[1:] != string(expected) {
		return s.syntaxErrorf("expected %q, got %q", string(expected), token[1:])
	}
	return nil
}

func (s *session) validateDescriptor(name string) error {
	if !s.cfg.validate {
		return nil
	}
	if !lang.IsTypeDescriptor(name) {
		return s.syntaxErrorf("expected type descriptor, got %q", name)
	}
	return nil
}

// readAccessFlags consumes the run of modifier keywords at the cursor.
func (s *session) readAccessFlags() lang.AccessFlags {
	var words []string
	for {
		word := s.line.PeekDefault("")
		if !lang.IsAccessFlag(word) {
			break
		}
		words = append(words, word)
		s.line.Next()
	}
	return lang.ParseAccessFlags(words)
}

// collectValues gathers the remaining comma-separated operands of the
// current line. Commas inside quoted strings do not split.
func (s *session) collectValues(strip string) []string {
	var values []string
	for s.line.HasNext() {
		value, _ := s.line.Next()
		if strip != "" {
			value = strings.TrimRight(value, strip)
		}
		if len(value) > 0 && value[0] != '"' && value[len(value)-1] != '"' && strings.Contains(value, ",") {
			values = append(values, strings.Split(value, ",")...)
		} else {
			values = append(values, value)
		}
	}
	return values
}

// run is the top-level drive loop: classify each statement line by its
// leading character and the active scope, dispatch, and apply the
// end-of-line policy.
func (s *session) run() error {
	for {
		if err := s.nextLine(); err != nil {
			if errors.Is(err, errEndOfStream) {
				s.finishEnd()
				return nil
			}
			return err
		}

		stmt, _ := s.line.Peek()
		var err error
		switch {
		case stmt[0] == '.':
			err = s.handleToken()
		case stmt[0] == ':':
			err = s.handleBlock()
		default:
			switch s.top().kind {
			case scopeAnnotation, scopeSubannotation:
				err = s.handleValue()
			case scopeMethod:
				err = s.handleInstruction()
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, errEndOfStream):
			s.finishEnd()
			return nil
		case errors.Is(err, lang.ErrEndOfLine):
			if s.cfg.policy == ErrorsStrict {
				return s.syntaxError("unexpected end of line", err)
			}
		default:
			return err
		}
	}
}

// finishEnd flushes the final end-of-scope event unless the outermost
// scope was already closed by an explicit ".end".
func (s *session) finishEnd() {
	if !s.rootClosed {
		s.top().visitEnd()
	}
}

// handleToken dispatches a leading-dot statement over the closed token
// vocabulary.
func (s *session) handleToken() error {
	stmt, err := s.line.Peek()
	if err != nil {
		return err
	}
	tok, known := lang.LookupToken(stmt[1:])
	if !known {
		return s.syntaxErrorf("unknown statement %q", stmt)
	}

	// A field scope without an explicit ".end field" closes implicitly
	// on the next statement.
	if s.top().kind == scopeField && tok != lang.TokenAnnotation && tok != lang.TokenEnd {
		s.popEnd()
	}

	switch tok {
	case lang.TokenClass:
		return s.classDef(false, true)
	case lang.TokenSuper:
		return s.handleSuper()
	case lang.TokenImplements:
		return s.handleImplements()
	case lang.TokenSource:
		return s.handleSource()
	case lang.TokenField:
		return s.handleField()
	case lang.TokenMethod:
		return s.handleMethod()
	case lang.TokenAnnotation:
		return s.handleAnnotation()
	case lang.TokenSubannotation:
		return s.handleSubannotation("")
	case lang.TokenEnum:
		return s.handleEnum("")
	case lang.TokenEnd:
		s.popEnd()
		s.publishComment()
		return nil
	case lang.TokenRegisters:
		return s.handleMethodInt(lang.TokenRegisters, MethodVisitor.VisitRegisters)
	case lang.TokenLocals:
		return s.handleMethodInt(lang.TokenLocals, MethodVisitor.VisitLocals)
	case lang.TokenLine:
		return s.handleMethodInt(lang.TokenLine, MethodVisitor.VisitLine)
	case lang.TokenParam:
		return s.handleParam()
	case lang.TokenLocal:
		return s.handleLocal()
	case lang.TokenRestart:
		return s.handleRestart()
	case lang.TokenPrologue:
		return s.handlePrologue()
	case lang.TokenCatch:
		return s.handleCatch(false)
	case lang.TokenCatchall:
		return s.handleCatch(true)
	case lang.TokenPackedSwitch:
		return s.handlePackedSwitch()
	case lang.TokenSparseSwitch:
		return s.handleSparseSwitch()
	case lang.TokenArrayData:
		return s.handleArrayData()
	}
	return s.syntaxErrorf("unhandled statement %q", stmt)
}

// classDef parses a ".class [modifiers] descriptor" definition. The
// outer definition replaces frame 0; an inner one pushes a nested
// class scope.
func (s *session) classDef(advance, inner bool) error {
	if advance {
		if err := s.nextLine(); err != nil {
			return err
		}
	}

	token, err := s.line.Next()
	if err != nil {
		return err
	}
	if err := s.validateToken(token, lang.TokenClass); err != nil {
		return err
	}

	flags := s.readAccessFlags()
	name, err := s.line.Peek()
	if err != nil {
		return err
	}
	if err := s.validateDescriptor(name); err != nil {
		return err
	}

	if inner {
		var cv ClassVisitor
		if parent := s.classScope(); parent != nil {
			cv = parent.VisitInnerClass(name, flags)
		}
		s.push(scope{kind: scopeClass, class: cv})
	} else {
		s.stack[0].class = s.root.VisitClass(name, flags)
	}
	s.publishComment()
	return nil
}

func (s *session) handleSuper() error {
	token, err := s.line.Next()
	if err != nil {
		return err
	}
	if err := s.validateToken(token, lang.TokenSuper); err != nil {
		return err
	}

	superClass, err := s.line.Peek()
	if err != nil {
		return err
	}
	if !lang.IsTypeDescriptor(superClass) {
		return s.syntaxErrorf("expected super-class type descriptor, got %q", superClass)
	}
	if cv := s.classScope(); cv != nil {
		cv.VisitSuper(superClass)
		s.publishComment()
	}
	return nil
}

func (s *session) handleImplements() error {
	if _, err := s.line.Next(); err != nil {
		return err
	}
	name, err := s.line.Peek()
	if err != nil {
		return err
	}
	if err := s.validateDescriptor(name); err != nil {
		return err
	}
	if cv := s.classScope(); cv != nil {
		cv.VisitImplements(name)
		s.publishComment()
	}
	return nil
}

func (s *session) handleSource() error {
	token, err := s.line.Next()
	if err != nil {
		return err
	}
	if err := s.validateToken(token, lang.TokenSource); err != nil {
		return err
	}
	name, err := s.line.Peek()
	if err != nil {
		return err
	}
	if cv := s.classScope(); cv != nil {
		cv.VisitSource(strings.ReplaceAll(name, `"`, ""))
		s.publishComment()
	}
	return nil
}

func (s *session) handleField() error {
	if _, err := s.line.Next(); err != nil {
		return err
	}
	flags := s.readAccessFlags()

	nameDesc, err := s.line.Next()
	if err != nil {
		return err
	}
	name, descriptor, ok := strings.Cut(nameDesc, ":")
	if !ok {
		return s.syntaxErrorf("malformed field declaration %q", nameDesc)
	}
	if err := s.validateDescriptor(descriptor); err != nil {
		return err
	}
	name = strings.TrimLeft(strings.TrimRight(name, ">"), "<")

	var value *lang.Value
	if s.line.HasNext() {
		var rest []string
		for s.line.HasNext() {
			tok, _ := s.line.Next()
			rest = append(rest, tok)
		}
		if rest[0] == "=" {
			rest = rest[1:]
		}
		v, err := lang.ParseValue(strings.Join(rest, " "))
		if err != nil {
			return err
		}
		value = &v
	}

	var fv FieldVisitor
	if cv := s.classScope(); cv != nil {
		fv = cv.VisitField(name, flags, descriptor, value)
	}
	s.publishComment()
	s.push(scope{kind: scopeField, field: fv})
	return nil
}

func (s *session) handleMethod() error {
	if _, err := s.line.Next(); err != nil {
		return err
	}
	flags := s.readAccessFlags()

	sigText, err := s.line.Peek()
	if err != nil {
		return err
	}
	signature := lang.NewType(sigText)
	name, err := signature.MethodName()
	if err != nil {
		return err
	}
	params, err := signature.MethodParams()
	if err != nil {
		return err
	}
	returnType, err := signature.MethodReturn()
	if err != nil {
		return err
	}

	var mv MethodVisitor
	if cv := s.classScope(); cv != nil {
		mv = cv.VisitMethod(name, flags, params, returnType)
	}
	s.push(scope{kind: scopeMethod, method: mv})
	s.publishComment()
	return nil
}

func (s *session) handleAnnotation() error {
	if _, err := s.line.Next(); err != nil {
		return err
	}
	flags := s.readAccessFlags()

	descriptor, err := s.line.Peek()
	if err != nil {
		return err
	}
	if err := s.validateDescriptor(descriptor); err != nil {
		return err
	}

	var av AnnotationVisitor
	switch t := s.top(); t.kind {
	case scopeClass:
		if t.class != nil {
			av = t.class.VisitAnnotation(flags, descriptor)
		}
	case scopeField:
		if t.field != nil {
			av = t.field.VisitAnnotation(flags, descriptor)
		}
	}
	s.push(scope{kind: scopeAnnotation, annotation: av})
	s.publishComment()
	return nil
}

func (s *session) handleSubannotation(name string) error {
	if _, err := s.line.Next(); err != nil {
		return err
	}
	flags := s.readAccessFlags()

	descriptor, err := s.line.Peek()
	if err != nil {
		return err
	}
	if err := s.validateDescriptor(descriptor); err != nil {
		return err
	}

	var av AnnotationVisitor
	if an := s.annotationScope(); an != nil {
		av = an.VisitSubannotation(name, flags, descriptor)
	}
	s.push(scope{kind: scopeSubannotation, annotation: av})
	s.publishComment()
	return nil
}

func (s *session) handleEnum(name string) error {
	token, err := s.line.Next()
	if err != nil {
		return err
	}
	if err := s.validateToken(token, lang.TokenEnum); err != nil {
		return err
	}

	ref, err := s.line.Peek()
	if err != nil {
		return err
	}
	descriptor, value, ok := strings.Cut(ref, "->")
	if !ok {
		return s.syntaxErrorf("malformed enum reference %q", ref)
	}
	if err := s.validateDescriptor(descriptor); err != nil {
		return err
	}
	valueName, valueDescriptor, ok := strings.Cut(value, ":")
	if !ok {
		return s.syntaxErrorf("malformed enum value %q", value)
	}
	if err := s.validateDescriptor(valueDescriptor); err != nil {
		return err
	}
	valueName = strings.TrimLeft(strings.TrimRight(valueName, ">"), "<")

	if an := s.annotationScope(); an != nil {
		an.VisitEnum(name, descriptor, valueName, valueDescriptor)
		s.publishComment()
	}
	return nil
}

// handleValue parses a "name = value" assignment inside an annotation
// scope. The value is a scalar, a possibly multi-line "{...}" array,
// or a nested .enum / .subannotation statement.
func (s *session) handleValue() error {
	name, err := s.line.Next()
	if err != nil {
		return err
	}
	// The assignment operator.
	if _, err := s.line.Next(); err != nil {
		return err
	}

	stmt, err := s.line.Peek()
	if err != nil {
		return err
	}
	if len(stmt) > 0 && stmt[0] == '.' {
		switch stmt[1:] {
		case string(lang.TokenEnum):
			return s.handleEnum(name)
		case string(lang.TokenSubannotation):
			return s.handleSubannotation(name)
		default:
			return s.handleToken()
		}
	}

	cleaned := s.line.Cleaned()
	if !strings.Contains(cleaned, "{") {
		if an := s.annotationScope(); an != nil {
			var parts []string
			for s.line.HasNext() {
				tok, _ := s.line.Next()
				parts = append(parts, tok)
			}
			v, err := lang.ParseValue(strings.Join(parts, " "))
			if err != nil {
				return err
			}
			an.VisitValue(name, v)
		}
		s.publishComment()
		return nil
	}

	var raws []string
	if strings.Contains(cleaned, "}") {
		inner := cleaned[strings.IndexByte(cleaned, '{')+1 : strings.IndexByte(cleaned, '}')]
		for _, elem := range strings.Split(inner, ",") {
			if elem = strings.TrimSpace(elem); elem != "" {
				raws = append(raws, elem)
			}
		}
	} else {
		// Multi-line array: collect one element per line until a line
		// starting or ending with "}".
		s.publishComment()
		for {
			if err := s.nextLine(); err != nil {
				return err
			}
			c := s.line.Cleaned()
			if c[0] == '}' || c[len(c)-1] == '}' {
				break
			}
			elem, err := s.line.Peek()
			if err != nil {
				return err
			}
			s.publishComment()
			raws = append(raws, strings.TrimRight(elem, ","))
		}
	}

	if an := s.annotationScope(); an != nil {
		values := make([]lang.Value, 0, len(raws))
		for _, raw := range raws {
			v, err := lang.ParseValue(raw)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		an.VisitArray(name, values)
	}
	s.publishComment()
	return nil
}

func (s *session) handleMethodInt(expected lang.Token, visit func(MethodVisitor, int)) error {
	token, err := s.line.Next()
	if err != nil {
		return err
	}
	if err := s.validateToken(token, expected); err != nil {
		return err
	}
	text, err := s.line.Peek()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return s.syntaxErrorf("expected a number after .%s, got %q", expected, text)
	}
	if mv := s.methodScope(); mv != nil {
		visit(mv, n)
		s.publishComment()
	}
	return nil
}

func (s *session) handleParam() error {
	mv := s.methodScope()
	if mv == nil {
		return nil
	}
	if _, err := s.line.Next(); err != nil {
		return err
	}
	register, err := s.line.Next()
	if err != nil {
		return err
	}
	name, err := s.line.Peek()
	if err != nil {
		return err
	}
	mv.VisitParam(strings.TrimRight(register, ","), strings.Trim(name, `"`))
	s.publishComment()
	return nil
}

func (s *session) handleLocal() error {
	mv := s.methodScope()
	if mv == nil {
		return nil
	}
	if _, err := s.line.Next(); err != nil {
		return err
	}

	var rest []string
	for s.line.HasNext() {
		tok, _ := s.line.Next()
		rest = append(rest, tok)
	}
	var values []string
	for _, part := range strings.Split(strings.Join(rest, " "), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) != 3 {
		return s.syntaxErrorf("expected 3 values in .local statement, got %d", len(values))
	}

	register := values[0]
	name, descriptor, ok := strings.Cut(values[1], ":")
	if !ok {
		return s.syntaxErrorf("malformed local declaration %q", values[1])
	}
	fullDescriptor := values[2]
	if err := s.validateDescriptor(descriptor); err != nil {
		return err
	}
	if err := s.validateDescriptor(fullDescriptor); err != nil {
		return err
	}

	mv.VisitLocal(register, strings.Trim(name, `"`), descriptor, fullDescriptor)
	s.publishComment()
	return nil
}

func (s *session) handleRestart() error {
	mv := s.methodScope()
	if mv == nil {
		return nil
	}
	mv.VisitRestart(s.line.Last())
	s.publishComment()
	return nil
}

func (s *session) handlePrologue() error {
	if mv := s.methodScope(); mv != nil {
		mv.VisitPrologue()
		s.publishComment()
	}
	return nil
}

func (s *session) handleCatch(catchall bool) error {
	mv := s.methodScope()
	if mv == nil {
		return nil
	}
	if _, err := s.line.Next(); err != nil {
		return err
	}

	descriptor, err := s.line.Peek()
	if err != nil {
		return err
	}
	if catchall && strings.HasPrefix(descriptor, "{") {
		descriptor = ""
	} else if err := s.validateDescriptor(descriptor); err != nil {
		return err
	}

	cleaned := s.line.Cleaned()
	open := strings.IndexByte(cleaned, '{')
	closing := strings.IndexByte(cleaned, '}')
	if open == -1 || closing == -1 || closing < open {
		return s.syntaxErrorf("malformed try range in %q", cleaned)
	}
	fields := strings.Fields(cleaned[open+1 : closing])
	if len(fields) != 3 {
		return s.syntaxErrorf("malformed try range in %q", cleaned)
	}

	rng := TryRange{
		Start:   strings.TrimLeft(fields[0], ":"),
		End:     strings.TrimLeft(fields[2], ":"),
		Handler: strings.TrimLeft(s.line.Last(), ":"),
	}
	if catchall {
		mv.VisitCatchall(descriptor, rng)
	} else {
		mv.VisitCatch(descriptor, rng)
	}
	s.publishComment()
	return nil
}

// handlePackedSwitch collects the block labels of a packed-switch
// table from the following lines until its ".end" line.
func (s *session) handlePackedSwitch() error {
	if _, err := s.line.Next(); err != nil {
		return err
	}
	base, err := s.line.Peek()
	if err != nil {
		return err
	}
	s.publishComment()

	var labels []string
	for {
		if err := s.nextLine(); err != nil {
			return err
		}
		tok, err := s.line.Next()
		if err != nil {
			return err
		}
		s.publishComment()
		if tok[0] == ':' {
			labels = append(labels, strings.TrimLeft(tok, ":"))
		} else if strings.Contains(tok, string(lang.TokenEnd)) {
			break
		}
	}

	if mv := s.methodScope(); mv != nil {
		mv.VisitPackedSwitch(base, labels)
	}
	return nil
}

// handleSparseSwitch collects "key -> :label" pairs from the following
// lines until its ".end" line.
func (s *session) handleSparseSwitch() error {
	if _, err := s.line.Next(); err != nil {
		return err
	}
	s.publishComment()

	branches := make(map[string]string)
	for {
		if err := s.nextLine(); err != nil {
			return err
		}
		key, err := s.line.Peek()
		if err != nil {
			return err
		}
		s.publishComment()
		if key[0] == '.' && key[1:] == string(lang.TokenEnd) {
			break
		}
		branches[key] = strings.TrimLeft(s.line.Last(), ":")
	}

	if mv := s.methodScope(); mv != nil {
		mv.VisitSparseSwitch(branches)
	}
	return nil
}

// handleArrayData collects raw element tokens from the following lines
// until its bare ".end" line. The width token is kept undecoded; it
// may be hexadecimal.
func (s *session) handleArrayData() error {
	if _, err := s.line.Next(); err != nil {
		return err
	}
	width, err := s.line.Peek()
	if err != nil {
		return err
	}
	s.publishComment()

	var elements []string
	for {
		if err := s.nextLine(); err != nil {
			return err
		}
		first, err := s.line.Peek()
		if err != nil {
			return err
		}
		s.publishComment()
		if first[0] == '.' && first[1:] == string(lang.TokenEnd) {
			break
		}
		for s.line.HasNext() {
			tok, _ := s.line.Next()
			elements = append(elements, tok)
		}
	}

	if mv := s.methodScope(); mv != nil {
		mv.VisitArrayData(width, elements)
	}
	return nil
}

func (s *session) handleBlock() error {
	stmt, err := s.line.Peek()
	if err != nil {
		return err
	}
	if mv := s.methodScope(); mv != nil {
		mv.VisitBlock(strings.TrimLeft(stmt, ":"))
		s.publishComment()
	}
	return nil
}

// handleInstruction dispatches an instruction line inside a method.
// Invoke, return and goto have dedicated events; everything else is a
// generic instruction with its operand list.
func (s *session) handleInstruction() error {
	mv := s.methodScope()
	if mv == nil {
		return nil
	}
	mnemonic, err := s.line.Next()
	if err != nil {
		return err
	}
	qualifier := ""
	if idx := strings.IndexByte(mnemonic, '-'); idx != -1 {
		qualifier = mnemonic[idx+1:]
	}

	switch {
	case strings.HasPrefix(mnemonic, "invoke"):
		cleaned := s.line.Cleaned()
		open := strings.IndexByte(cleaned, '{')
		closing := strings.IndexByte(cleaned, '}')
		if open == -1 || closing == -1 || closing < open {
			return s.syntaxErrorf("malformed invoke argument list in %q", cleaned)
		}
		var args []string
		if inner := strings.TrimSpace(cleaned[open+1 : closing]); inner != "" {
			for _, arg := range strings.Split(inner, ",") {
				args = append(args, strings.TrimSpace(arg))
			}
		}
		descriptor, signature, ok := strings.Cut(s.line.Last(), "->")
		if !ok {
			return s.syntaxErrorf("malformed method reference %q", s.line.Last())
		}
		if err := s.validateDescriptor(descriptor); err != nil {
			return err
		}
		mv.VisitInvoke(qualifier, args, descriptor, signature)

	case strings.HasPrefix(mnemonic, "return"):
		mv.VisitReturn(qualifier, s.collectValues(","))

	case mnemonic == "goto":
		label, err := s.line.Peek()
		if err != nil {
			return err
		}
		mv.VisitGoto(strings.TrimLeft(label, ":"))

	default:
		mv.VisitInstruction(mnemonic, s.collectValues(","))
	}
	s.publishComment()
	return nil
}
