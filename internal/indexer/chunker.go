package indexer

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	minChunkSize = 50
	maxChunkSize = 1500 // Max runes per chunk; larger chunks keep more manual context per retrieval hit
)

// GoldmarkChunker chunks the markdown produced by the PDF parsing service
// using goldmark AST parsing. Chunks follow the heading hierarchy so each one
// stays within a single manual section.
type GoldmarkChunker struct {
	parser goldmark.Markdown
}

// NewGoldmarkChunker creates a new goldmark chunker with table support, since
// parsed manuals are heavy on spec tables.
func NewGoldmarkChunker() *GoldmarkChunker {
	return &GoldmarkChunker{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// ChunkMarkdown parses markdown content and returns the document title and
// chunks organized by heading hierarchy with size constraints applied.
func (c *GoldmarkChunker) ChunkMarkdown(content []byte, filename string) (title string, chunks []Chunk, err error) {
	if len(content) == 0 {
		return titleFromFilename(filename), []Chunk{}, nil
	}

	reader := text.NewReader(content)
	doc := c.parser.Parser().Parse(reader)

	title = extractTitle(doc, content, filename)
	chunks = c.buildChunks(doc, content, title)
	chunks = c.applySizeConstraints(chunks)

	return title, chunks, nil
}

// extractTitle picks the document title: first H1, else first H2, else the
// filename with words capitalized.
func extractTitle(doc ast.Node, content []byte, filename string) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			headingText := extractTextFromNode(heading, content)
			if heading.Level == 1 && firstH1 == "" {
				firstH1 = headingText
			} else if heading.Level == 2 && firstH2 == "" && firstH1 == "" {
				firstH2 = headingText
			}
			if firstH1 != "" {
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	if firstH2 != "" {
		return firstH2
	}
	return titleFromFilename(filename)
}

func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// buildChunks walks the AST, starting a new chunk at every heading and
// collecting text, code, list and table content under it.
func (c *GoldmarkChunker) buildChunks(doc ast.Node, content []byte, docTitle string) []Chunk {
	var chunks []Chunk
	var current *Chunk
	var headingStack []headingInfo
	chunkIndex := 0
	seenHeading := false

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			seenHeading = true
			for len(headingStack) > 0 && headingStack[len(headingStack)-1].level >= node.Level {
				headingStack = headingStack[:len(headingStack)-1]
			}
			headingStack = append(headingStack, headingInfo{
				level: node.Level,
				text:  extractTextFromNode(node, content),
			})

			if current != nil && len(current.Text) > 0 {
				chunks = append(chunks, *current)
				chunkIndex++
			}
			current = &Chunk{
				Index:       chunkIndex,
				HeadingPath: buildHeadingPath(headingStack),
			}
			return ast.WalkContinue, nil

		case *ast.Text:
			if current == nil && !seenHeading {
				// Preamble before the first heading rides under the title.
				current = &Chunk{Index: chunkIndex, HeadingPath: "# " + docTitle}
			}
			if current != nil {
				current.Text += string(node.Segment.Value(content))
			}
			return ast.WalkContinue, nil

		case *ast.String:
			if current != nil {
				current.Text += string(node.Value)
			}
			return ast.WalkContinue, nil

		case *ast.CodeSpan:
			if current != nil {
				current.Text += extractTextFromNode(node, content)
			}
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			if current != nil {
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					segment := lines.At(i)
					current.Text += string(segment.Value(content))
				}
			}
			return ast.WalkContinue, nil

		case *ast.Paragraph, *ast.List, *ast.ListItem:
			if current != nil && len(current.Text) > 0 && !strings.HasSuffix(current.Text, "\n") {
				current.Text += "\n"
			}
			return ast.WalkContinue, nil

		default:
			// Table nodes come from the extension package; match on kind name.
			kindName := n.Kind().String()
			if strings.Contains(kindName, "TableRow") || strings.Contains(kindName, "TableHeader") {
				if current == nil {
					return ast.WalkContinue, nil
				}
				if len(current.Text) > 0 && !strings.HasSuffix(current.Text, "\n") {
					current.Text += "\n"
				}
				current.Text += extractTableRowText(n, content) + "\n"
				return ast.WalkSkipChildren, nil
			}
			if strings.Contains(kindName, "TableCell") {
				return ast.WalkSkipChildren, nil
			}
			if strings.Contains(kindName, "Table") && current != nil {
				if len(current.Text) > 0 && !strings.HasSuffix(current.Text, "\n") {
					current.Text += "\n"
				}
			}
			return ast.WalkContinue, nil
		}
	})

	if current != nil && len(current.Text) > 0 {
		chunks = append(chunks, *current)
	}

	if len(chunks) == 0 {
		chunks = append(chunks, Chunk{
			Index:       0,
			HeadingPath: "# " + docTitle,
			Text:        string(content),
		})
	}

	return chunks
}

type headingInfo struct {
	level int
	text  string
}

// buildHeadingPath renders the heading stack as
// "# Heading1 > ## Heading2 > ### Heading3".
func buildHeadingPath(stack []headingInfo) string {
	if len(stack) == 0 {
		return ""
	}
	parts := make([]string, len(stack))
	for i, h := range stack {
		parts[i] = fmt.Sprintf("%s %s", strings.Repeat("#", h.level), h.text)
	}
	return strings.Join(parts, " > ")
}

// extractTextFromNode extracts the plain text of a node and its children.
func extractTextFromNode(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// extractTableRowText renders a table row with " | " between cells.
func extractTableRowText(row ast.Node, content []byte) string {
	var b strings.Builder
	cells := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if strings.Contains(node.Kind().String(), "TableCell") {
			if cells > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(extractTextFromNode(node, content))
			cells++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}

// applySizeConstraints merges undersized chunks and chunks sharing a heading
// path, then splits anything still over maxChunkSize. Sizes are measured in
// runes to track embedding-token estimates.
func (c *GoldmarkChunker) applySizeConstraints(chunks []Chunk) []Chunk {
	if len(chunks) == 0 {
		return chunks
	}

	result := []Chunk{}
	i := 0

	for i < len(chunks) {
		current := chunks[i]
		currentRunes := utf8.RuneCountInString(current.Text)

		// Merge consecutive chunks under the same heading (content before a
		// table often lands in its own chunk).
		if i+1 < len(chunks) {
			next := chunks[i+1]
			if current.HeadingPath == next.HeadingPath && current.HeadingPath != "" {
				merged := current.Text + "\n\n" + next.Text
				if utf8.RuneCountInString(merged) <= maxChunkSize {
					current.Text = merged
					currentRunes = utf8.RuneCountInString(merged)
					i++
				}
			}
		}

		if currentRunes < minChunkSize && i+1 < len(chunks) {
			next := chunks[i+1]
			merged := current.Text + "\n\n" + next.Text
			if utf8.RuneCountInString(merged) <= maxChunkSize {
				current.Text = merged
				currentRunes = utf8.RuneCountInString(merged)
				i++
			}
		}

		if currentRunes > maxChunkSize {
			result = append(result, c.splitChunk(current)...)
		} else {
			result = append(result, current)
		}

		i++
	}

	for i := range result {
		result[i].Index = i
	}
	return result
}

// splitChunk splits an oversized chunk, preferring paragraph boundaries, then
// line breaks, then sentence boundaries, then a hard cut.
func (c *GoldmarkChunker) splitChunk(chunk Chunk) []Chunk {
	if utf8.RuneCountInString(chunk.Text) <= maxChunkSize {
		return []Chunk{chunk}
	}

	var splits []Chunk
	textRunes := []rune(chunk.Text)
	start := 0
	splitIndex := 0

	for start < len(textRunes) {
		end := start + maxChunkSize
		if end >= len(textRunes) {
			splits = append(splits, Chunk{
				Index:       chunk.Index + splitIndex,
				HeadingPath: chunk.HeadingPath,
				Text:        string(textRunes[start:]),
			})
			break
		}

		window := string(textRunes[start:end])
		splitPoint := end
		if boundary := strings.LastIndex(window, "\n\n"); boundary != -1 {
			splitPoint = start + boundary + 2
		} else if boundary := strings.LastIndex(window, "\n"); boundary != -1 {
			splitPoint = start + boundary + 1
		} else if boundary := strings.LastIndex(window, ". "); boundary != -1 {
			splitPoint = start + boundary + 2
		}

		splits = append(splits, Chunk{
			Index:       chunk.Index + splitIndex,
			HeadingPath: chunk.HeadingPath,
			Text:        string(textRunes[start:splitPoint]),
		})

		start = splitPoint
		splitIndex++
	}

	return splits
}
