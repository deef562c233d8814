package reveal

import (
	"regexp"
	"strings"
)

// BlockKind identifies how a block is laid out.
type BlockKind int

const (
	// BlockParagraph is one non-blank line.
	BlockParagraph BlockKind = iota
	// BlockBreak is a blank line that is not the last line.
	BlockBreak
	// BlockList is a run of consecutive numbered lines.
	BlockList
)

// Span is a run of inline text.
type Span struct {
	Text string
	Bold bool
}

// ListItem is one numbered line. Number keeps the author's numbering.
type ListItem struct {
	Number string
	Spans  []Span
}

// Block is a structural segment of message content.
type Block struct {
	Kind  BlockKind
	Spans []Span
	Items []ListItem
}

var (
	listItemRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	boldRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// Format splits content into blocks. It is safe to call on any prefix of a
// message; unmatched markup stays plain text.
func Format(content string) []Block {
	lines := strings.Split(content, "\n")

	var blocks []Block
	var list []ListItem
	flushList := func() {
		if len(list) > 0 {
			blocks = append(blocks, Block{Kind: BlockList, Items: list})
			list = nil
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if m := listItemRe.FindStringSubmatch(trimmed); m != nil {
			list = append(list, ListItem{Number: m[1], Spans: Inline(m[2])})
			continue
		}

		flushList()
		switch {
		case trimmed != "":
			blocks = append(blocks, Block{Kind: BlockParagraph, Spans: Inline(line)})
		case i < len(lines)-1:
			blocks = append(blocks, Block{Kind: BlockBreak})
		}
	}
	flushList()

	return blocks
}

// Inline splits text into plain and bold spans. Empty plain runs are omitted.
func Inline(text string) []Span {
	var spans []Span
	last := 0
	for _, m := range boldRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[2]:m[3]], Bold: true})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// PlainText joins spans without markup.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
