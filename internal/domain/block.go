package domain

import (
	"encoding/json"
	"fmt"
)

// BlockType enumerates the block kinds this bridge can write.
type BlockType string

const (
	BlockParagraph    BlockType = "paragraph"
	BlockHeading1     BlockType = "heading_1"
	BlockHeading2     BlockType = "heading_2"
	BlockHeading3     BlockType = "heading_3"
	BlockBulletedItem BlockType = "bulleted_list_item"
	BlockNumberedItem BlockType = "numbered_list_item"
	BlockToDo         BlockType = "to_do"
	BlockQuote        BlockType = "quote"
	BlockCode         BlockType = "code"
	BlockDivider      BlockType = "divider"
)

var knownBlockTypes = map[BlockType]bool{
	BlockParagraph: true, BlockHeading1: true, BlockHeading2: true,
	BlockHeading3: true, BlockBulletedItem: true, BlockNumberedItem: true,
	BlockToDo: true, BlockQuote: true, BlockCode: true, BlockDivider: true,
}

// Block is an outbound content block. Divider blocks carry no content;
// code blocks carry a language; to_do blocks carry a checked flag.
type Block struct {
	Type     BlockType
	RichText []RichText
	Checked  bool
	Language string
}

// Constructors for the supported block shapes.

func Paragraph(segments ...RichText) Block {
	return Block{Type: BlockParagraph, RichText: segments}
}

func Heading(level int, content string) Block {
	t := BlockHeading1
	switch level {
	case 2:
		t = BlockHeading2
	case 3:
		t = BlockHeading3
	}
	return Block{Type: t, RichText: []RichText{Text(content)}}
}

func BulletedItem(content string) Block {
	return Block{Type: BlockBulletedItem, RichText: []RichText{Text(content)}}
}

func NumberedItem(content string) Block {
	return Block{Type: BlockNumberedItem, RichText: []RichText{Text(content)}}
}

func ToDo(content string, checked bool) Block {
	return Block{Type: BlockToDo, RichText: []RichText{Text(content)}, Checked: checked}
}

func Quote(content string) Block {
	return Block{Type: BlockQuote, RichText: []RichText{Text(content)}}
}

func Code(content, language string) Block {
	return Block{Type: BlockCode, RichText: []RichText{Text(content)}, Language: language}
}

func Divider() Block { return Block{Type: BlockDivider} }

// Validate checks the block type is recognized and its rich text
// segments are sendable.
func (b Block) Validate() error {
	if !knownBlockTypes[b.Type] {
		return &ValidationError{Field: "block", Reason: fmt.Sprintf("unknown block type %q", b.Type)}
	}
	if b.Type == BlockDivider {
		return nil
	}
	if len(b.RichText) == 0 {
		return &ValidationError{Field: string(b.Type), Reason: "block requires rich text content"}
	}
	return ValidateRichText(b.RichText)
}

// ValidateBlocks validates an outbound block array.
func ValidateBlocks(blocks []Block) error {
	for i, b := range blocks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

// MarshalJSON emits {"object":"block","type":<t>,<t>:{...}}.
func (b Block) MarshalJSON() ([]byte, error) {
	content := map[string]any{}
	switch b.Type {
	case BlockDivider:
	case BlockCode:
		content["rich_text"] = b.RichText
		if b.Language != "" {
			content["language"] = b.Language
		}
	case BlockToDo:
		content["rich_text"] = b.RichText
		content["checked"] = b.Checked
	default:
		content["rich_text"] = b.RichText
	}
	return json.Marshal(map[string]any{
		"object":       "block",
		"type":         string(b.Type),
		string(b.Type): content,
	})
}
