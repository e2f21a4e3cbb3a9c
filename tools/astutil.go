// Package tools implements the capabilities agent flows may invoke: a demo
// weather lookup, guarded file writing, a go test runner, and the Go-AST code
// inspection suite (pattern finder, source extractor, content search).
package tools

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// skippedDirs are never descended into when walking a project tree.
var skippedDirs = map[string]bool{
	".git":         true,
	"vendor":       true,
	"node_modules": true,
}

// findGoFiles returns all .go files under root, vendor and VCS dirs excluded.
func findGoFiles(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// findMatchingFiles returns files under root whose base name matches the glob
// pattern. The walk already recurses, so any directory part of the pattern
// (like a leading "**/") is stripped before matching.
func findMatchingFiles(root, pattern string) ([]string, error) {
	base := pattern
	if i := strings.LastIndex(pattern, "/"); i >= 0 {
		base = pattern[i+1:]
	}
	if _, err := filepath.Match(base, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(base, d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// readFileLines reads a file and splits it into lines with terminators kept
// off, so line N of the file is lines[N-1].
func readFileLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(content, "\n"), nil
}

// parsedFile pairs a parsed Go file with its position information.
type parsedFile struct {
	file *goast.File
	fset *token.FileSet
	path string
}

func parseGoFile(path string) (*parsedFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	return &parsedFile{file: file, fset: fset, path: path}, nil
}

func (p *parsedFile) line(pos token.Pos) int { return p.fset.Position(pos).Line }

// compileSearchPattern turns a query into a regexp. Queries wrapped in slashes
// are treated as raw regular expressions, everything else as a case-insensitive
// literal.
func compileSearchPattern(query string) (*regexp.Regexp, bool, error) {
	if len(query) > 1 && strings.HasPrefix(query, "/") && strings.HasSuffix(query, "/") {
		re, err := regexp.Compile(query[1 : len(query)-1])
		return re, true, err
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	return re, false, err
}

// wordPattern matches an identifier as a whole word.
func wordPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}

// lineContext returns the trimmed source line for a 1-based line number.
func lineContext(lines []string, lineNo int) string {
	if lineNo <= 0 || lineNo > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[lineNo-1])
}

// funcSignature renders a function declaration header.
func funcSignature(decl *goast.FuncDecl) string {
	var b strings.Builder
	b.WriteString("func ")
	if decl.Recv != nil {
		b.WriteString("(")
		b.WriteString(formatFieldList(decl.Recv))
		b.WriteString(") ")
	}
	b.WriteString(decl.Name.Name)
	b.WriteString("(")
	b.WriteString(formatFieldList(decl.Type.Params))
	b.WriteString(")")
	if decl.Type.Results != nil && len(decl.Type.Results.List) > 0 {
		b.WriteString(" ")
		if len(decl.Type.Results.List) == 1 && len(decl.Type.Results.List[0].Names) == 0 {
			b.WriteString(formatField(decl.Type.Results.List[0]))
		} else {
			b.WriteString("(")
			b.WriteString(formatFieldList(decl.Type.Results))
			b.WriteString(")")
		}
	}
	return b.String()
}

func formatFieldList(list *goast.FieldList) string {
	if list == nil {
		return ""
	}
	parts := make([]string, 0, len(list.List))
	for _, field := range list.List {
		parts = append(parts, formatField(field))
	}
	return strings.Join(parts, ", ")
}

func formatField(field *goast.Field) string {
	if field == nil {
		return ""
	}
	var b strings.Builder
	names := make([]string, 0, len(field.Names))
	for _, name := range field.Names {
		names = append(names, name.Name)
	}
	if len(names) > 0 {
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(" ")
	}
	b.WriteString(exprString(field.Type))
	return b.String()
}

// exprString renders the common type expressions without importing go/printer.
func exprString(expr goast.Expr) string {
	switch t := expr.(type) {
	case *goast.Ident:
		return t.Name
	case *goast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *goast.StarExpr:
		return "*" + exprString(t.X)
	case *goast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *goast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *goast.Ellipsis:
		return "..." + exprString(t.Elt)
	case *goast.FuncType:
		return "func(" + formatFieldList(t.Params) + ")"
	case *goast.InterfaceType:
		return "interface{}"
	case *goast.StructType:
		return "struct{}"
	case *goast.ChanType:
		return "chan " + exprString(t.Value)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

func docText(doc *goast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

// argString fetches a string argument with a fallback.
func argString(args map[string]any, key, fallback string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	s := fmt.Sprint(v)
	if s == "" {
		return fallback
	}
	return s
}

// argBool fetches a bool argument, tolerating string forms from the model.
func argBool(args map[string]any, key string, fallback bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	default:
		return fallback
	}
}

// argInt fetches an int argument; JSON decoding delivers numbers as float64.
func argInt(args map[string]any, key string, fallback int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		var n int
		if _, err := fmt.Sscanf(t, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
