package tools

import (
	"context"
	goast "go/ast"
	"strings"

	"github.com/lexcodex/counsel/framework"
)

// SourceCodeTool extracts the complete source of a named function, method, or
// type, or a whole file. Use it when the agent needs the actual implementation
// rather than the structural summary find_patterns gives.
type SourceCodeTool struct {
	Workspace string
}

func (t *SourceCodeTool) Name() string { return "get_source_code" }
func (t *SourceCodeTool) Description() string {
	return "Retrieve the complete source code of a specific function, method, type, or file, with line numbers."
}
func (t *SourceCodeTool) Parameters() []framework.ToolParameter {
	return []framework.ToolParameter{
		{Name: "target_type", Type: "string", Required: true, Description: "One of: function, method, type, file"},
		{Name: "name", Type: "string", Description: "Exact name of the function/method/type to retrieve"},
		{Name: "file_path", Type: "string", Description: "Specific file to look in; required for target_type=file"},
		{Name: "project_root", Type: "string", Description: "Project directory to search, defaults to the workspace"},
		{Name: "include_context", Type: "boolean", Default: false, Description: "Include surrounding lines of context"},
	}
}

func (t *SourceCodeTool) Execute(ctx context.Context, args map[string]any) *framework.ToolResult {
	targetType := argString(args, "target_type", "")
	name := argString(args, "name", "")
	filePath := argString(args, "file_path", "")
	root := argString(args, "project_root", t.Workspace)
	includeContext := argBool(args, "include_context", false)

	switch targetType {
	case "file":
		return extractFile(filePath)
	case "function", "method", "type":
	default:
		return framework.Fail("invalid target_type %q, must be one of: function, method, type, file", targetType)
	}
	if name == "" {
		return framework.Fail("name is required for target_type=%s", targetType)
	}

	var files []string
	if filePath != "" {
		files = []string{filePath}
	} else {
		found, err := findGoFiles(root)
		if err != nil {
			return framework.Fail("error accessing project directory: %v", err)
		}
		files = found
	}

	for _, path := range files {
		select {
		case <-ctx.Done():
			return framework.Fail("search cancelled: %v", ctx.Err())
		default:
		}
		parsed, err := parseGoFile(path)
		if err != nil {
			continue
		}
		lines, err := readFileLines(path)
		if err != nil {
			continue
		}
		if res := findDeclaration(parsed, lines, targetType, name, includeContext); res != nil {
			return res
		}
	}
	return framework.Fail("no %s named %q found", targetType, name)
}

func extractFile(filePath string) *framework.ToolResult {
	if filePath == "" {
		return framework.Fail("file_path required for target_type=file")
	}
	if !fileExists(filePath) {
		return framework.Fail("file not found: %s", filePath)
	}
	lines, err := readFileLines(filePath)
	if err != nil {
		return framework.Fail("could not read file: %v", err)
	}
	return framework.Succeed("", map[string]any{
		"name":  filePath,
		"kind":  "file",
		"file":  filePath,
		"code":  strings.Join(lines, "\n"),
		"lines": []int{1, len(lines)},
	})
}

func findDeclaration(parsed *parsedFile, lines []string, targetType, name string, includeContext bool) *framework.ToolResult {
	var result *framework.ToolResult
	goast.Inspect(parsed.file, func(n goast.Node) bool {
		if result != nil {
			return false
		}
		var (
			kind      string
			doc       string
			startLine int
			endLine   int
		)
		switch decl := n.(type) {
		case *goast.FuncDecl:
			if decl.Name.Name != name {
				return true
			}
			kind = "function"
			if decl.Recv != nil {
				kind = "method"
			}
			if kind != targetType {
				return true
			}
			doc = docText(decl.Doc)
			// Doc comments belong to the extracted snippet.
			startPos := decl.Pos()
			if decl.Doc != nil {
				startPos = decl.Doc.Pos()
			}
			startLine = parsed.line(startPos)
			endLine = parsed.line(decl.End())
		case *goast.GenDecl:
			if targetType != "type" {
				return true
			}
			for _, spec := range decl.Specs {
				typed, ok := spec.(*goast.TypeSpec)
				if !ok || typed.Name.Name != name {
					continue
				}
				kind = "type"
				doc = docText(typed.Doc)
				if doc == "" {
					doc = docText(decl.Doc)
				}
				startPos := decl.Pos()
				if decl.Doc != nil {
					startPos = decl.Doc.Pos()
				}
				startLine = parsed.line(startPos)
				endLine = parsed.line(decl.End())
			}
			if kind == "" {
				return true
			}
		default:
			return true
		}

		if startLine < 1 || endLine > len(lines) {
			return true
		}
		data := map[string]any{
			"name":  name,
			"kind":  kind,
			"file":  parsed.path,
			"lines": []int{startLine, endLine},
			"code":  strings.Join(lines[startLine-1:endLine], "\n"),
		}
		if doc != "" {
			data["doc"] = doc
		}
		if includeContext {
			ctxStart := max(1, startLine-3)
			ctxEnd := min(len(lines), endLine+3)
			data["context"] = strings.Join(lines[ctxStart-1:ctxEnd], "\n")
			data["context_lines"] = []int{ctxStart, ctxEnd}
		}
		result = framework.Succeed("", data)
		return false
	})
	return result
}

// FindContentTool searches file contents for a literal or /regex/ query and
// returns matching lines with surrounding context.
type FindContentTool struct {
	Workspace string
}

// ContentMatch is one matched line with its context block.
type ContentMatch struct {
	File        string `json:"file"`
	LineNumber  int    `json:"line_number"`
	MatchedLine string `json:"matched_line"`
	Context     string `json:"context"`
}

func (t *FindContentTool) Name() string { return "find_code_content" }
func (t *FindContentTool) Description() string {
	return "Search for text or /regex/ patterns within project source files, returning matches with context."
}
func (t *FindContentTool) Parameters() []framework.ToolParameter {
	return []framework.ToolParameter{
		{Name: "query", Type: "string", Required: true, Description: "Text to search for; wrap in slashes for regex"},
		{Name: "project_root", Type: "string", Description: "Project directory to search, defaults to the workspace"},
		{Name: "file_pattern", Type: "string", Default: "**/*.go", Description: "Glob restricting which files are searched"},
		{Name: "context_lines", Type: "integer", Default: 3, Description: "Lines of context around each match"},
		{Name: "max_results", Type: "integer", Default: 20, Description: "Maximum number of matches returned"},
	}
}

func (t *FindContentTool) Execute(ctx context.Context, args map[string]any) *framework.ToolResult {
	query := argString(args, "query", "")
	if query == "" {
		return framework.Fail("query is required")
	}
	root := argString(args, "project_root", t.Workspace)
	filePattern := argString(args, "file_pattern", "**/*.go")
	// Model-supplied numbers may be out of range; clamp rather than fail.
	contextLines := max(0, argInt(args, "context_lines", 3))
	maxResults := max(1, argInt(args, "max_results", 20))

	pattern, isRegex, err := compileSearchPattern(query)
	if err != nil {
		return framework.Fail("invalid search pattern: %v", err)
	}
	files, err := findMatchingFiles(root, filePattern)
	if err != nil {
		return framework.Fail("error accessing project directory: %v", err)
	}

	truncated := false
	results := make([]ContentMatch, 0, maxResults)
	for _, path := range files {
		select {
		case <-ctx.Done():
			return framework.Fail("search cancelled: %v", ctx.Err())
		default:
		}
		lines, err := readFileLines(path)
		if err != nil {
			continue
		}
		for i, line := range lines {
			if !pattern.MatchString(line) {
				continue
			}
			if len(results) >= maxResults {
				truncated = true
				break
			}
			start := max(0, i-contextLines)
			end := min(len(lines), i+contextLines+1)
			results = append(results, ContentMatch{
				File:        path,
				LineNumber:  i + 1,
				MatchedLine: strings.TrimSpace(line),
				Context:     strings.Join(lines[start:end], "\n"),
			})
		}
		if truncated {
			break
		}
	}
	return framework.Succeed("", map[string]any{
		"results": results,
		"summary": map[string]any{
			"total_found": len(results),
			"query":       query,
			"is_regex":    isRegex,
			"truncated":   truncated,
		},
	})
}
