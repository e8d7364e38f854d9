// Package goast is a symbol analysis provider for Go source trees, built on
// the standard go/ast parser. Signatures are normalized into a language
// neutral "(name: type): result" form so downstream contract inference does
// not depend on Go syntax.
package goast

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/specforge/specforge/pkg/domain/symbol"
)

// Provider parses Go files and reports their declared symbols.
type Provider struct{}

// New creates a Go symbol provider.
func New() *Provider {
	return &Provider{}
}

func (*Provider) Name() string { return "goast" }

// Symbols parses each .go file in the list and extracts top-level
// declarations. Files that fail to parse are skipped; a provider-level
// error is reserved for context cancellation.
func (p *Provider) Symbols(ctx context.Context, root string, files []string) ([]symbol.Symbol, error) {
	var symbols []symbol.Symbol
	fset := token.NewFileSet()

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if filepath.Ext(rel) != ".go" {
			continue
		}

		file, err := parser.ParseFile(fset, filepath.Join(root, rel), nil, parser.ParseComments)
		if err != nil {
			continue // unparseable file, not fatal
		}
		symbols = append(symbols, fileSymbols(fset, file, rel)...)
	}
	return symbols, nil
}

func fileSymbols(fset *token.FileSet, file *ast.File, rel string) []symbol.Symbol {
	var out []symbol.Symbol
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			out = append(out, funcSymbol(fset, d, rel))
		case *ast.GenDecl:
			out = append(out, genSymbols(fset, d, rel)...)
		}
	}
	return out
}

func funcSymbol(fset *token.FileSet, d *ast.FuncDecl, rel string) symbol.Symbol {
	kind := symbol.KindFunction
	namePath := d.Name.Name
	if d.Recv != nil && len(d.Recv.List) > 0 {
		kind = symbol.KindMethod
		namePath = receiverTypeName(d.Recv.List[0].Type) + "." + d.Name.Name
	}
	return symbol.Symbol{
		Name:          d.Name.Name,
		Kind:          kind,
		NamePath:      namePath,
		Location:      location(fset, d, rel),
		Signature:     signatureString(d.Type),
		Documentation: docText(d.Doc),
	}
}

func genSymbols(fset *token.FileSet, d *ast.GenDecl, rel string) []symbol.Symbol {
	var out []symbol.Symbol
	for _, spec := range d.Specs {
		switch sp := spec.(type) {
		case *ast.TypeSpec:
			kind := symbol.KindClass
			if _, ok := sp.Type.(*ast.InterfaceType); ok {
				kind = symbol.KindInterface
			}
			doc := docText(sp.Doc)
			if doc == "" {
				doc = docText(d.Doc)
			}
			out = append(out, symbol.Symbol{
				Name:          sp.Name.Name,
				Kind:          kind,
				NamePath:      sp.Name.Name,
				Location:      location(fset, sp, rel),
				Documentation: doc,
			})
		case *ast.ValueSpec:
			kind := symbol.KindVariable
			if d.Tok == token.CONST {
				kind = symbol.KindConstant
			}
			for _, name := range sp.Names {
				if name.Name == "_" {
					continue
				}
				out = append(out, symbol.Symbol{
					Name:          name.Name,
					Kind:          kind,
					NamePath:      name.Name,
					Location:      location(fset, sp, rel),
					Documentation: docText(sp.Doc),
				})
			}
		}
	}
	return out
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	default:
		return "receiver"
	}
}

// signatureString renders "(name: type, ...): results" for a function type.
func signatureString(ft *ast.FuncType) string {
	var b strings.Builder
	b.WriteString("(")
	if ft.Params != nil {
		first := true
		for _, field := range ft.Params.List {
			typeStr := types.ExprString(field.Type)
			if len(field.Names) == 0 {
				if !first {
					b.WriteString(", ")
				}
				b.WriteString("_: " + typeStr)
				first = false
				continue
			}
			for _, name := range field.Names {
				if !first {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%s: %s", name.Name, typeStr)
				first = false
			}
		}
	}
	b.WriteString(")")

	if ft.Results != nil && len(ft.Results.List) > 0 {
		var results []string
		for _, field := range ft.Results.List {
			typeStr := types.ExprString(field.Type)
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				results = append(results, typeStr)
			}
		}
		if len(results) == 1 {
			b.WriteString(": " + results[0])
		} else {
			b.WriteString(": (" + strings.Join(results, ", ") + ")")
		}
	}
	return b.String()
}

func location(fset *token.FileSet, node ast.Node, rel string) symbol.Location {
	return symbol.Location{
		Path:      filepath.ToSlash(rel),
		StartLine: fset.Position(node.Pos()).Line,
		EndLine:   fset.Position(node.End()).Line,
	}
}

func docText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}
