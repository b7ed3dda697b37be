// Package lspserver implements a minimal tsg language server: it runs
// the resolver and verifier over a document's current text on every
// open/change notification and republishes the resulting diagnostics,
// wiring go.lsp.dev/jsonrpc2 and go.lsp.dev/protocol to push
// protocol.PublishDiagnosticsParams notifications over a jsonrpc2
// connection. tsg has no external language server to proxy to — it
// diagnoses its own source directly.
package lspserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/parser"
	"github.com/tsg-lang/tsg/internal/resolver"
	"github.com/tsg-lang/tsg/internal/verifier"
)

// Server is a jsonrpc2.Handler that answers textDocument/didOpen and
// textDocument/didChange by re-checking the document and publishing
// diagnostics back to whichever conn is attached.
type Server struct {
	mu   sync.RWMutex
	conn jsonrpc2.Conn
}

// NewServer returns an unattached Server; SetConn must be called once
// the transport's connection is available.
func NewServer() *Server {
	return &Server{}
}

// SetConn stores the connection used to push publishDiagnostics
// notifications.
func (s *Server) SetConn(conn jsonrpc2.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
}

func (s *Server) getConn() jsonrpc2.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// Handler returns the jsonrpc2.Handler for this server.
func (s *Server) Handler() jsonrpc2.Handler {
	return jsonrpc2.ReplyHandler(s.handleRequest)
}

func (s *Server) handleRequest(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case "initialize":
		return s.handleInitialize(ctx, reply, req)
	case "initialized":
		return reply(ctx, nil, nil)
	case "shutdown":
		return reply(ctx, nil, nil)
	case "exit":
		return reply(ctx, nil, nil)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, reply, req)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, reply, req)
	case "textDocument/didClose":
		return s.handleDidClose(ctx, reply, req)
	default:
		return reply(ctx, nil, fmt.Errorf("method not found: %s", req.Method()))
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("invalid initialize params: %w", err))
	}

	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "tsg-lsp",
			Version: "0.1.0",
		},
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	s.publish(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	// Full-document sync only (TextDocumentSyncKindFull advertised
	// above): the last change event carries the whole new text.
	if n := len(params.ContentChanges); n > 0 {
		s.publish(ctx, params.TextDocument.URI, params.ContentChanges[n-1].Text)
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	// Clear any diagnostics left on the client for the closed document.
	s.notifyDiagnostics(ctx, params.TextDocument.URI, nil)
	return reply(ctx, nil, nil)
}

// publish runs the resolver and verifier over text and pushes the
// resulting diagnostics to
// the client as textDocument/publishDiagnostics.
func (s *Server) publish(ctx context.Context, uri protocol.DocumentURI, text string) {
	s.notifyDiagnostics(ctx, uri, Check(text))
}

func (s *Server) notifyDiagnostics(ctx context.Context, uri protocol.DocumentURI, diags []protocol.Diagnostic) {
	conn := s.getConn()
	if conn == nil {
		return
	}
	params := protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	}
	_ = conn.Notify(ctx, "textDocument/publishDiagnostics", params)
}

// Check runs the parser, resolver and verifier over src and converts
// whichever phase's diagnostics halted first into LSP diagnostics. It
// never lowers to LLVM IR: the language server only ever needs to
// explain why a program doesn't type-check, not run it. Unlike the
// driver (which only instantiates the configured entry point), Check
// instantiates every zero-parameter top-level function so editing a
// file with no "main" yet still surfaces type errors; parameterized
// functions are only checked through the call sites those roots reach,
// since their argument types are unknown until a call fixes them.
func Check(src string) []protocol.Diagnostic {
	diags := &diag.List{}

	prog := parser.ParseProgram(src, diags)
	if diags.Empty() {
		root := prog.ToRootFunction()
		resolver.Resolve(root, diags)
		if diags.Empty() {
			rootEnv := verifier.Verify(root, diags)
			for _, fn := range root.Body.Funcs {
				if !diags.Empty() {
					break
				}
				if len(fn.Params) != 0 {
					continue
				}
				verifier.InstantiateEntry(root, rootEnv, fn.Name, diags)
			}
		}
	}

	items := diags.All()
	out := make([]protocol.Diagnostic, len(items))
	for i, d := range items {
		line := uint32(0)
		if d.Pos.Line > 0 {
			line = uint32(d.Pos.Line - 1)
		}
		col := uint32(0)
		if d.Pos.Column > 0 {
			col = uint32(d.Pos.Column - 1)
		}
		pos := protocol.Position{Line: line, Character: col}
		out[i] = protocol.Diagnostic{
			Range:    protocol.Range{Start: pos, End: pos},
			Severity: protocol.DiagnosticSeverityError,
			Source:   "tsg",
			Message:  d.Message,
		}
	}
	return out
}
