package workspace

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/ptree/ebnf/parse"
	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/text"
)

const lsName = "ptree"

type LSPServer struct {
	workspace *Workspace
	watcher   *FileWatcher
	handler   protocol.Handler
	server    *server.Server
	version   string

	mu   sync.Mutex
	open map[string]bool
}

// NewLSPServer creates a server. With a nil workspace the server opens the
// project found at the client's root directory during initialization.
func NewLSPServer(version string, ws *Workspace) *LSPServer {
	ls := &LSPServer{
		workspace: ws,
		version:   version,
		open:      make(map[string]bool),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentSelectionRange: ls.textDocumentSelectionRange,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if ls.workspace == nil {
		rootDir := "."
		if params.RootPath != nil && *params.RootPath != "" {
			rootDir = *params.RootPath
		} else if params.RootURI != nil && *params.RootURI != "" {
			if path, err := uriToPath(*params.RootURI); err == nil {
				rootDir = path
			}
		}

		ws, err := Open(rootDir)
		if err != nil {
			return nil, fmt.Errorf("open workspace: %w", err)
		}
		ls.workspace = ws
	}
	log.Infof("serving %s with grammar %s", ls.workspace.RootDir(), ls.workspace.Grammar().Name())

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(); err != nil {
		log.Errorf("scan workspace: %s", err)
	}
	ls.watcher = NewFileWatcher(ls.workspace, ls.isOpen)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) isOpen(path string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.open[path]
}

func (ls *LSPServer) setOpen(path string, open bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if open {
		ls.open[path] = true
	} else {
		delete(ls.open, path)
	}
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setOpen(path, true)
	doc := ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, doc)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc := ls.workspace.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx, params.TextDocument.URI, doc)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setOpen(path, false)
	// Project sources fall back to their content on disk.
	if proj := ls.workspace.Project(); proj != nil && proj.Matches(path) {
		if err := ls.workspace.ScanFile(path); err == nil {
			ls.publishDiagnostics(ctx, params.TextDocument.URI, nil)
			return nil
		}
	}
	ls.workspace.RemoveFile(path)
	ls.publishDiagnostics(ctx, params.TextDocument.URI, nil)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.workspace.ScanFile(path); err != nil {
		log.Warningf("%s", err)
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, ls.workspace.GetFile(path))
	return nil
}

// diagnostics reports the parse error of doc, if any.
func diagnostics(doc *Document) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	if doc == nil || doc.ParseErr == nil {
		return out
	}

	var rng protocol.Range
	var syntaxErr *parse.SyntaxError
	if errors.As(doc.ParseErr, &syntaxErr) {
		rng = doc.Lines.Range(syntaxErr.Range)
	}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return append(out, protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  doc.ParseErr.Error(),
	})
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, doc *Document) {
	if ctx == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics(doc),
	})
}

// document returns the parsed document behind uri, or nil if there is no
// tree to query.
func (ls *LSPServer) document(uri protocol.DocumentUri) *Document {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	doc := ls.workspace.GetFile(path)
	if doc == nil || doc.Tree == nil {
		return nil
	}
	return doc
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	offset := doc.Lines.Offset(params.Position)
	leaf, ok := parsetree.FindLeafAtOffset(doc.Tree, offset).RightBiased()
	if !ok {
		return nil, nil
	}

	rng := doc.Lines.Range(doc.Tree.Node(leaf).Range())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: describeLeaf(doc, doc.Accessor(ls.workspace.Grammar()), leaf),
		},
		Range: &rng,
	}, nil
}

// describeLeaf renders a leaf and its ancestors, innermost first.
func describeLeaf(doc *Document, acc parsetree.Accessor, leaf parsetree.NodeID) string {
	var sb strings.Builder
	node := doc.Tree.Node(leaf)
	fmt.Fprintf(&sb, "**%s** `%s` `%q`\n", acc.SymbolName(node.Symbol()), node.Range(), acc.NodeText(doc.Tree, leaf))

	first := true
	for ancestor := range parsetree.Ancestors(doc.Tree, leaf).All() {
		if ancestor == leaf {
			continue
		}
		if first {
			sb.WriteString("\n")
			first = false
		}
		a := doc.Tree.Node(ancestor)
		fmt.Fprintf(&sb, "- %s `%s`\n", acc.SymbolName(a.Symbol()), a.Range())
	}
	return sb.String()
}

func (ls *LSPServer) textDocumentSelectionRange(ctx *glsp.Context, params *protocol.SelectionRangeParams) ([]protocol.SelectionRange, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	var out []protocol.SelectionRange
	for _, pos := range params.Positions {
		offset := doc.Lines.Offset(pos)
		covering := parsetree.FindCoveringNode(doc.Tree, text.FromLen(offset, 0))
		out = append(out, selectionRange(doc, covering))
	}
	return out, nil
}

// selectionRange nests the ranges of a node and its ancestors, skipping
// ancestors that cover the same range as their child.
func selectionRange(doc *Document, id parsetree.NodeID) protocol.SelectionRange {
	var ranges []text.Range
	for ancestor := range parsetree.Ancestors(doc.Tree, id).All() {
		rng := doc.Tree.Node(ancestor).Range()
		if n := len(ranges); n > 0 && ranges[n-1] == rng {
			continue
		}
		ranges = append(ranges, rng)
	}

	var parent *protocol.SelectionRange
	for i := len(ranges) - 1; i > 0; i-- {
		parent = &protocol.SelectionRange{Range: doc.Lines.Range(ranges[i]), Parent: parent}
	}
	return protocol.SelectionRange{Range: doc.Lines.Range(ranges[0]), Parent: parent}
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := ls.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	acc := doc.Accessor(ls.workspace.Grammar())
	return documentSymbols(doc, acc, doc.Tree.Root()), nil
}

// documentSymbols outlines the internal nodes of the subtree at id.
func documentSymbols(doc *Document, acc parsetree.Accessor, id parsetree.NodeID) []protocol.DocumentSymbol {
	node := doc.Tree.Node(id)
	if _, hasChildren := node.FirstChild(); !hasChildren {
		return nil
	}

	var children []protocol.DocumentSymbol
	for child := range parsetree.Children(doc.Tree, id).All() {
		children = append(children, documentSymbols(doc, acc, child)...)
	}

	rng := doc.Lines.Range(node.Range())
	detail := node.Range().String()
	return []protocol.DocumentSymbol{{
		Name:           acc.SymbolName(node.Symbol()),
		Detail:         &detail,
		Kind:           protocol.SymbolKindObject,
		Range:          rng,
		SelectionRange: rng,
		Children:       children,
	}}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
