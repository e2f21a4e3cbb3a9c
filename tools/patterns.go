package tools

import (
	"context"
	goast "go/ast"
	"go/token"
	"regexp"
	"strings"

	"github.com/lexcodex/counsel/framework"
)

// Pattern kinds accepted by the finder.
var validPatternTypes = []string{
	"functions", "methods", "types", "imports", "calls", "variables", "constants",
}

// PatternMatch is one located declaration or usage.
type PatternMatch struct {
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	File           string          `json:"file"`
	Line           int             `json:"line"`
	Definition     string          `json:"definition"`
	Doc            string          `json:"doc,omitempty"`
	UsageLocations []UsageLocation `json:"usage_locations"`
}

// UsageLocation points at a line referencing a matched name.
type UsageLocation struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Context string `json:"context"`
}

// FindPatternsTool walks Go ASTs looking for declarations and usages. It is the
// agent's structural view of a repository: unlike plain text search it reports
// the declaration form, signature, and doc comment of every hit.
type FindPatternsTool struct {
	Workspace string
}

func (t *FindPatternsTool) Name() string { return "find_patterns" }
func (t *FindPatternsTool) Description() string {
	return "Find functions, methods, types, imports, calls, variables, and constants in the project's Go source."
}
func (t *FindPatternsTool) Parameters() []framework.ToolParameter {
	return []framework.ToolParameter{
		{Name: "pattern_type", Type: "string", Required: true,
			Description: "One of: " + strings.Join(validPatternTypes, ", ")},
		{Name: "search_term", Type: "string", Description: "Exact name to search for; all names when omitted"},
		{Name: "file_path", Type: "string", Description: "Specific .go file to search; whole project when omitted"},
		{Name: "include_usage", Type: "boolean", Default: true, Description: "Also report where each match is referenced"},
		{Name: "project_root", Type: "string", Description: "Project directory to search, defaults to the workspace"},
	}
}

func (t *FindPatternsTool) Execute(ctx context.Context, args map[string]any) *framework.ToolResult {
	patternType := argString(args, "pattern_type", "")
	if !isValidPatternType(patternType) {
		return failWithSummary(patternType, 0,
			"invalid pattern_type %q, must be one of: %s", patternType, strings.Join(validPatternTypes, ", "))
	}
	searchTerm := argString(args, "search_term", "")
	includeUsage := argBool(args, "include_usage", true)
	root := argString(args, "project_root", t.Workspace)

	var files []string
	if filePath := argString(args, "file_path", ""); filePath != "" {
		if !strings.HasSuffix(filePath, ".go") || !fileExists(filePath) {
			return failWithSummary(patternType, 0, "file not found or not a Go file: %s", filePath)
		}
		files = []string{filePath}
	} else {
		var err error
		files, err = findGoFiles(root)
		if err != nil {
			return failWithSummary(patternType, 0, "error accessing project directory: %v", err)
		}
	}

	var matches []PatternMatch
	filesSearched := 0
	for _, path := range files {
		select {
		case <-ctx.Done():
			return framework.Fail("search cancelled: %v", ctx.Err())
		default:
		}
		parsed, err := parseGoFile(path)
		if err != nil {
			// Files with syntax errors are skipped, not fatal.
			continue
		}
		lines, err := readFileLines(path)
		if err != nil {
			continue
		}
		filesSearched++
		matches = append(matches, analyzeFile(parsed, lines, patternType, searchTerm)...)
	}

	if includeUsage && len(matches) > 0 && patternType != "calls" {
		addUsageLocations(matches, files)
	}

	return framework.Succeed("", map[string]any{
		"matches": matches,
		"summary": map[string]any{
			"total_found":    len(matches),
			"files_searched": filesSearched,
			"pattern_type":   patternType,
		},
	})
}

func isValidPatternType(t string) bool {
	for _, v := range validPatternTypes {
		if t == v {
			return true
		}
	}
	return false
}

// failWithSummary keeps the documented error shape: failed status plus an empty
// match list and summary so the agent can always read the same fields.
func failWithSummary(patternType string, searched int, format string, args ...any) *framework.ToolResult {
	res := framework.Fail(format, args...)
	res.Data = map[string]any{
		"matches": []PatternMatch{},
		"summary": map[string]any{
			"total_found":    0,
			"files_searched": searched,
			"pattern_type":   patternType,
		},
	}
	return res
}

func analyzeFile(parsed *parsedFile, lines []string, patternType, searchTerm string) []PatternMatch {
	var matches []PatternMatch
	add := func(m PatternMatch) {
		if searchTerm != "" && m.Name != searchTerm {
			return
		}
		m.File = parsed.path
		if m.UsageLocations == nil {
			m.UsageLocations = []UsageLocation{}
		}
		matches = append(matches, m)
	}

	if patternType == "imports" {
		for _, imp := range parsed.file.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			name := path
			if idx := strings.LastIndex(path, "/"); idx >= 0 {
				name = path[idx+1:]
			}
			definition := `import "` + path + `"`
			if imp.Name != nil {
				name = imp.Name.Name
				definition = "import " + imp.Name.Name + ` "` + path + `"`
			}
			add(PatternMatch{
				Name:       name,
				Kind:       "import",
				Line:       parsed.line(imp.Pos()),
				Definition: definition,
			})
		}
		return matches
	}

	goast.Inspect(parsed.file, func(n goast.Node) bool {
		switch decl := n.(type) {
		case *goast.FuncDecl:
			kind := "function"
			if decl.Recv != nil {
				kind = "method"
			}
			if (patternType == "functions" && kind == "function") ||
				(patternType == "methods" && kind == "method") {
				add(PatternMatch{
					Name:       decl.Name.Name,
					Kind:       kind,
					Line:       parsed.line(decl.Pos()),
					Definition: funcSignature(decl),
					Doc:        docText(decl.Doc),
				})
			}
		case *goast.GenDecl:
			analyzeGenDecl(parsed, lines, decl, patternType, add)
		case *goast.CallExpr:
			if patternType != "calls" {
				return true
			}
			name := callName(decl)
			if name == "" {
				return true
			}
			line := parsed.line(decl.Pos())
			add(PatternMatch{
				Name:       name,
				Kind:       "call",
				Line:       line,
				Definition: lineContext(lines, line),
			})
		case *goast.AssignStmt:
			if patternType != "variables" || decl.Tok != token.DEFINE {
				return true
			}
			for _, expr := range decl.Lhs {
				ident, ok := expr.(*goast.Ident)
				if !ok || ident.Name == "_" {
					continue
				}
				line := parsed.line(ident.Pos())
				add(PatternMatch{
					Name:       ident.Name,
					Kind:       "variable",
					Line:       line,
					Definition: lineContext(lines, line),
				})
			}
		}
		return true
	})
	return matches
}

func analyzeGenDecl(parsed *parsedFile, lines []string, decl *goast.GenDecl, patternType string, add func(PatternMatch)) {
	for _, spec := range decl.Specs {
		switch typed := spec.(type) {
		case *goast.TypeSpec:
			if patternType != "types" {
				continue
			}
			kind := "type"
			switch typed.Type.(type) {
			case *goast.StructType:
				kind = "struct"
			case *goast.InterfaceType:
				kind = "interface"
			}
			doc := docText(typed.Doc)
			if doc == "" {
				doc = docText(decl.Doc)
			}
			add(PatternMatch{
				Name:       typed.Name.Name,
				Kind:       kind,
				Line:       parsed.line(typed.Pos()),
				Definition: "type " + typed.Name.Name + " " + exprString(typed.Type),
				Doc:        doc,
			})
		case *goast.ValueSpec:
			var kind string
			switch {
			case decl.Tok == token.VAR && patternType == "variables":
				kind = "variable"
			case decl.Tok == token.CONST && patternType == "constants":
				kind = "constant"
			default:
				continue
			}
			for _, ident := range typed.Names {
				if ident.Name == "_" {
					continue
				}
				line := parsed.line(ident.Pos())
				add(PatternMatch{
					Name:       ident.Name,
					Kind:       kind,
					Line:       line,
					Definition: lineContext(lines, line),
				})
			}
		}
	}
}

func callName(call *goast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *goast.Ident:
		return fun.Name
	case *goast.SelectorExpr:
		return fun.Sel.Name
	}
	return ""
}

// addUsageLocations scans the searched files for references to each matched
// name, skipping the definition line itself.
func addUsageLocations(matches []PatternMatch, files []string) {
	patterns := make(map[string]bool)
	for _, m := range matches {
		patterns[m.Name] = true
	}
	compiled := make(map[string]*regexp.Regexp, len(patterns))
	for name := range patterns {
		compiled[name] = wordPattern(name)
	}
	for _, path := range files {
		lines, err := readFileLines(path)
		if err != nil {
			continue
		}
		for lineIdx, line := range lines {
			lineNo := lineIdx + 1
			for name, re := range compiled {
				if !re.MatchString(line) {
					continue
				}
				for i := range matches {
					m := &matches[i]
					if m.Name != name {
						continue
					}
					if m.File == path && m.Line == lineNo {
						continue
					}
					m.UsageLocations = append(m.UsageLocations, UsageLocation{
						File:    path,
						Line:    lineNo,
						Context: strings.TrimSpace(line),
					})
				}
			}
		}
	}
}
