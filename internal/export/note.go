package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/sadopc/focusmine/internal/model"
)

type NoteFormat string

const (
	Markdown  NoteFormat = "md"
	PlainText NoteFormat = "txt"
)

// WriteNote writes the note to dir as <slug>.md (content as-is) or
// <slug>.txt (markdown syntax removed) and returns the file path.
func WriteNote(n model.Note, format NoteFormat, dir string) (string, error) {
	var content string
	switch format {
	case Markdown:
		content = n.Content
	case PlainText:
		content = StripMarkdown(n.Content)
	default:
		return "", fmt.Errorf("note format %q: %w", format, model.ErrInvalid)
	}

	name := n.Slug
	if name == "" {
		name = "note"
	}
	path := filepath.Join(dir, name+"."+string(format))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write note file: %w", err)
	}
	return path, nil
}

var parser = goldmark.New().Parser()

// StripMarkdown returns the text of a markdown document without its
// syntax. Block structure survives as blank lines, list items as "- "
// lines and code blocks verbatim.
func StripMarkdown(src string) string {
	source := []byte(src)
	doc := parser.Parse(text.NewReader(source))

	var out []byte
	endBlock := func(newlines int) {
		out = bytes.TrimRight(out, "\n")
		if len(out) > 0 {
			out = append(out, bytes.Repeat([]byte{'\n'}, newlines)...)
		}
	}

	ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				out = append(out, n.Segment.Value(source)...)
				if n.SoftLineBreak() || n.HardLineBreak() {
					out = append(out, '\n')
				}
			}
		case *ast.String:
			if entering {
				out = append(out, n.Value...)
			}
		case *ast.AutoLink:
			if entering {
				out = append(out, n.URL(source)...)
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					out = append(out, seg.Value(source)...)
				}
				endBlock(2)
				return ast.WalkSkipChildren, nil
			}
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if entering {
				out = append(out, "- "...)
			} else {
				endBlock(1)
			}
		case *ast.List:
			if !entering {
				endBlock(2)
			}
		case *ast.TextBlock:
			if !entering {
				endBlock(1)
			}
		case *ast.Paragraph, *ast.Heading, *ast.Blockquote, *ast.ThematicBreak:
			if !entering {
				endBlock(2)
			}
		}
		return ast.WalkContinue, nil
	})

	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return ""
	}
	return string(out) + "\n"
}
