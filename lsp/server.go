// Package lsp exposes the parser as a language server for smali files:
// syntax diagnostics on edit plus document symbols.
package lsp

import (
	"errors"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/smali/lang"
	"github.com/dhamidi/smali/reader"
)

const lsName = "smali"

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu        sync.RWMutex
	documents map[string]string
}

func NewServer(version string) *Server {
	s := &Server{
		version:   version,
		documents: make(map[string]string),
	}

	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentDidSave:        s.textDocumentDidSave,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
	}

	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.updateDocument(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.updateDocument(ctx, params.TextDocument.URI, whole.Text)
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.updateDocument(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) updateDocument(ctx *glsp.Context, uri, text string) {
	s.mu.Lock()
	s.documents[uri] = text
	s.mu.Unlock()
	s.publishDiagnostics(ctx, uri, text)
}

// publishDiagnostics re-parses the document in validating mode and
// reports the first syntax failure, or clears the diagnostics when the
// document parses.
func (s *Server) publishDiagnostics(ctx *glsp.Context, uri, text string) {
	diagnostics := Check(text)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Check parses text and converts the failure, if any, into LSP
// diagnostics. The parser stops at the first syntax failure, so the
// result holds at most one entry.
func Check(text string) []protocol.Diagnostic {
	err := reader.New(reader.WithValidation()).VisitString(text, reader.BaseClassVisitor{})
	if err != nil {
		return []protocol.Diagnostic{toDiagnostic(text, err)}
	}
	return []protocol.Diagnostic{}
}

func toDiagnostic(text string, err error) protocol.Diagnostic {
	lineNo := 0
	var synErr *reader.SyntaxError
	if errors.As(err, &synErr) && synErr.Line > 0 {
		lineNo = synErr.Line - 1
	}

	lineLen := 0
	lines := strings.Split(text, "\n")
	if lineNo < len(lines) {
		lineLen = len(lines[lineNo])
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(lineNo), Character: 0},
			End:   protocol.Position{Line: protocol.UInteger(lineNo), Character: protocol.UInteger(lineLen)},
		},
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	s.mu.RLock()
	text, ok := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return DocumentSymbols(text), nil
}

// DocumentSymbols scans the source line by line and reports classes,
// fields and methods with their declaration ranges.
func DocumentSymbols(text string) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	var class *protocol.DocumentSymbol

	flush := func() {
		if class != nil {
			symbols = append(symbols, *class)
			class = nil
		}
	}

	lines := strings.Split(text, "\n")
	cursor := lang.NewLine("")
	methodStart := -1
	var methodSymbol *protocol.DocumentSymbol

	for i, raw := range lines {
		cursor.Reset(raw)
		word := cursor.PeekDefault("")
		if word == "" || word[0] != '.' {
			continue
		}
		tok, known := lang.LookupToken(word[1:])
		if !known {
			continue
		}
		cursor.Next()

		switch tok {
		case lang.TokenClass:
			flush()
			class = &protocol.DocumentSymbol{
				Name:           cursor.Last(),
				Kind:           protocol.SymbolKindClass,
				Range:          lineRange(i, raw),
				SelectionRange: lineRange(i, raw),
			}

		case lang.TokenField:
			if class == nil {
				continue
			}
			name := ""
			for cursor.HasNext() {
				word, _ := cursor.Next()
				if lang.IsAccessFlag(word) {
					continue
				}
				name = word
				break
			}
			if idx := strings.IndexByte(name, ':'); idx != -1 {
				name = name[:idx]
			}
			class.Children = append(class.Children, protocol.DocumentSymbol{
				Name:           name,
				Kind:           protocol.SymbolKindField,
				Range:          lineRange(i, raw),
				SelectionRange: lineRange(i, raw),
			})

		case lang.TokenMethod:
			if class == nil {
				continue
			}
			methodStart = i
			methodSymbol = &protocol.DocumentSymbol{
				Name:           cursor.Last(),
				Kind:           protocol.SymbolKindMethod,
				SelectionRange: lineRange(i, raw),
			}

		case lang.TokenEnd:
			if methodSymbol != nil && cursor.PeekDefault("") == string(lang.TokenMethod) {
				methodSymbol.Range = protocol.Range{
					Start: protocol.Position{Line: protocol.UInteger(methodStart), Character: 0},
					End:   protocol.Position{Line: protocol.UInteger(i), Character: protocol.UInteger(len(raw))},
				}
				class.Children = append(class.Children, *methodSymbol)
				methodSymbol = nil
			}
		}
	}
	flush()
	return symbols
}

func lineRange(line int, raw string) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: 0},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(len(raw))},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
