package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Connector glyphs shared with the live renderer.
const (
	branchConnector = "├── "
	lastConnector   = "└── "
	verticalPrefix  = "│   "
	spacePrefix     = "    "
)

// FormatJSON serializes the snapshot as indented JSON.
func FormatJSON(tree *Node) (string, error) {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: marshal tree: %w", err)
	}
	return string(data), nil
}

// FormatText renders the snapshot as a plain connector tree, optionally
// followed by a FILE CONTENTS section.
func FormatText(tree *Node, includeContents bool) string {
	lines := []string{tree.Name}
	var embedded []*Node
	walkNodes(tree, "", &lines, includeContents, &embedded)

	out := strings.Join(lines, "\n")
	if includeContents && len(embedded) > 0 {
		divider := strings.Repeat("=", 80)
		out += "\n\n" + divider + "\nFILE CONTENTS\n" + divider + "\n\n"
		for _, n := range embedded {
			rule := strings.Repeat("-", 80)
			out += fmt.Sprintf("File: %s\n%s\n%s\n%s\n\n", n.Path, rule, *n.Contents, rule)
		}
	}
	return out
}

// FormatMarkdown renders the snapshot as a fenced tree plus per-file code
// blocks with a language hint for syntax highlighting.
func FormatMarkdown(tree *Node, includeContents bool) string {
	lines := []string{tree.Name}
	var embedded []*Node
	walkNodes(tree, "", &lines, includeContents, &embedded)

	out := "```\n" + strings.Join(lines, "\n") + "\n```\n"
	if includeContents && len(embedded) > 0 {
		out += "\n## File Contents\n\n"
		for _, n := range embedded {
			out += fmt.Sprintf("### %s\n\n```%s\n%s\n```\n\n", n.Path, LanguageHint(n.Name), *n.Contents)
		}
	}
	return out
}

// walkNodes appends one rendered line per node and collects files whose
// contents should be emitted after the tree.
func walkNodes(node *Node, prefix string, lines *[]string, includeContents bool, embedded *[]*Node) {
	for i, child := range node.Children {
		last := i == len(node.Children)-1
		connector := branchConnector
		if last {
			connector = lastConnector
		}

		if child.Type == NodeTruncated {
			*lines = append(*lines, prefix+connector+child.Name)
			continue
		}

		suffix := ""
		if child.Type == NodeDirectory {
			suffix = "/"
		}
		*lines = append(*lines, prefix+connector+child.Name+suffix)

		if includeContents && child.Type == NodeFile && child.Contents != nil {
			*embedded = append(*embedded, child)
		}

		if child.Type == NodeDirectory {
			continuation := verticalPrefix
			if last {
				continuation = spacePrefix
			}
			walkNodes(child, prefix+continuation, lines, includeContents, embedded)
		}
	}
}

// Format renders the snapshot in the named format: "json", "md" or "txt".
func Format(tree *Node, format string, includeContents bool) (string, error) {
	switch format {
	case "json":
		return FormatJSON(tree)
	case "md":
		return FormatMarkdown(tree, includeContents), nil
	case "txt", "":
		return FormatText(tree, includeContents), nil
	default:
		return "", fmt.Errorf("export: unknown format %q", format)
	}
}

// Write renders the snapshot and writes it to path.
func Write(path string, tree *Node, format string, includeContents bool) error {
	content, err := Format(tree, format, includeContents)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	return nil
}

// languageHints maps file extensions to Markdown fence language tags.
var languageHints = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".jsx":  "jsx",
	".tsx":  "tsx",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".java": "java",
	".kt":   "kotlin",
	".sh":   "bash",
	".bash": "bash",
	".zsh":  "bash",
	".json": "json",
	".yml":  "yaml",
	".yaml": "yaml",
	".toml": "toml",
	".xml":  "xml",
	".html": "html",
	".css":  "css",
	".md":   "markdown",
	".sql":  "sql",
}

// LanguageHint returns the Markdown language tag for a filename, or "" when
// the extension is unknown.
func LanguageHint(name string) string {
	return languageHints[strings.ToLower(filepath.Ext(name))]
}
