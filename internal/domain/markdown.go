package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var numberedItemRe = regexp.MustCompile(`^\d+\. `)

// ParseMarkdown converts a small markdown subset (headings, lists,
// todos, quotes, fenced code, paragraphs) into outbound blocks.
func ParseMarkdown(markdown string) ([]Block, error) {
	var blocks []Block
	if markdown == "" {
		return blocks, nil
	}

	lines := strings.Split(markdown, "\n")
	inCode := false
	var codeLines []string
	codeLang := ""

	for i, raw := range lines {
		line := strings.TrimRight(raw, " \t")

		if strings.HasPrefix(line, "```") {
			if !inCode {
				inCode = true
				codeLines = nil
				codeLang = strings.TrimPrefix(line, "```")
			} else {
				blocks = append(blocks, Code(strings.Join(codeLines, "\n"), codeLang))
				inCode = false
				codeLang = ""
			}
			continue
		}
		if inCode {
			codeLines = append(codeLines, line)
			continue
		}
		if line == "" {
			continue
		}

		var b Block
		switch {
		case strings.HasPrefix(line, "# "):
			b = Heading(1, strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "## "):
			b = Heading(2, strings.TrimSpace(line[3:]))
		case strings.HasPrefix(line, "### "):
			b = Heading(3, strings.TrimSpace(line[4:]))
		case strings.HasPrefix(line, "- "):
			b = BulletedItem(strings.TrimSpace(line[2:]))
		case numberedItemRe.MatchString(line):
			b = NumberedItem(strings.TrimSpace(numberedItemRe.ReplaceAllString(line, "")))
		case strings.HasPrefix(line, "[ ] "):
			b = ToDo(strings.TrimSpace(line[4:]), false)
		case strings.HasPrefix(line, "[x] "):
			b = ToDo(strings.TrimSpace(line[4:]), true)
		case strings.HasPrefix(line, "> "):
			b = Quote(strings.TrimSpace(line[2:]))
		case line == "---":
			b = Divider()
		default:
			b = Paragraph(Text(strings.TrimSpace(line)))
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		blocks = append(blocks, b)
	}

	if inCode {
		return nil, &ValidationError{Field: "markdown", Reason: "unclosed code block at end of input"}
	}
	return blocks, nil
}

// RenderMarkdown converts outbound blocks back to markdown text. It is
// the inverse of ParseMarkdown for the block kinds both sides support.
func RenderMarkdown(blocks []Block) string {
	var out []string
	numbered := 0

	for _, b := range blocks {
		content := PlainText(b.RichText)
		if b.Type != BlockNumberedItem {
			numbered = 0
		}
		switch b.Type {
		case BlockHeading1:
			out = append(out, "# "+content)
		case BlockHeading2:
			out = append(out, "## "+content)
		case BlockHeading3:
			out = append(out, "### "+content)
		case BlockBulletedItem:
			out = append(out, "- "+content)
		case BlockNumberedItem:
			numbered++
			out = append(out, fmt.Sprintf("%d. %s", numbered, content))
		case BlockToDo:
			mark := " "
			if b.Checked {
				mark = "x"
			}
			out = append(out, fmt.Sprintf("[%s] %s", mark, content))
		case BlockQuote:
			out = append(out, "> "+content)
		case BlockCode:
			out = append(out, "```"+b.Language, content, "```")
		case BlockDivider:
			out = append(out, "---")
		default:
			out = append(out, content)
		}
	}
	return strings.Join(out, "\n")
}
