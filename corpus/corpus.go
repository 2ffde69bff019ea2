package corpus

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ItemType classifies a corpus item.
type ItemType int

const (
	// ItemParagraph is a paragraph or line of running text. Delimiters use it.
	ItemParagraph ItemType = iota
	// ItemTitle is a short heading standing alone in its paragraph.
	ItemTitle
	// ItemSentence is a single sentence.
	ItemSentence
	// ItemListItem opens with a bullet or an enumerator.
	ItemListItem
)

var itemTypeNames = map[ItemType]string{
	ItemParagraph: "paragraph",
	ItemTitle:     "title",
	ItemSentence:  "sentence",
	ItemListItem:  "listItem",
}

// String returns the type name.
func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ItemType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t ItemType) MarshalText() ([]byte, error) {
	name, ok := itemTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown item type %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ItemType) UnmarshalText(data []byte) error {
	for typ, name := range itemTypeNames {
		if name == string(data) {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown item type %q", data)
}

// Item is one typed fragment of a corpus. An item with empty text is a
// paragraph delimiter. Items are immutable.
type Item struct {
	typ  ItemType
	text string
}

// NewItem creates an item whose text is the normalized form of text.
func NewItem(text string, typ ItemType) Item {
	return Item{typ: typ, text: Normalize(text)}
}

// Delimiter returns the empty item that separates paragraphs.
func Delimiter() Item {
	return Item{}
}

// Type returns the item type.
func (i Item) Type() ItemType { return i.typ }

// Text returns the normalized payload.
func (i Item) Text() string { return i.text }

// IsDelimiter reports whether the item is a paragraph delimiter.
func (i Item) IsDelimiter() bool { return i.text == "" }

type itemJSON struct {
	Type ItemType `json:"type"`
	Text string   `json:"text"`
}

// MarshalJSON implements json.Marshaler.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{Type: i.typ, Text: i.text})
}

// UnmarshalJSON implements json.Unmarshaler. The payload is taken as is.
func (i *Item) UnmarshalJSON(data []byte) error {
	var v itemJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	i.typ, i.text = v.Type, v.Text
	return nil
}

// Flags control how a corpus is produced.
type Flags struct {
	SplitSentences  bool `json:"split_sentences"`
	SplitParagraphs bool `json:"split_paragraphs"`
	RemoveHTMLTags  bool `json:"remove_html_tags"`

	// ClassifyItems enables title and list item detection. When false every
	// item is a paragraph.
	ClassifyItems bool `json:"classify_items"`
}

// TextCorpus is the ordered, typed item sequence produced for one page.
type TextCorpus struct {
	items []Item
	flags Flags
}

// New creates an empty corpus.
func New(flags Flags) *TextCorpus {
	return &TextCorpus{flags: flags}
}

// Flags returns the flags the corpus was built with.
func (c *TextCorpus) Flags() Flags { return c.flags }

// Items returns a copy of the items.
func (c *TextCorpus) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items, delimiters included.
func (c *TextCorpus) Len() int { return len(c.items) }

// Empty reports whether the corpus holds no items.
func (c *TextCorpus) Empty() bool { return len(c.items) == 0 }

// Parse normalizes and segments input, then builds items from it. When
// appendItems is false existing items are discarded first.
func (c *TextCorpus) Parse(input string, appendItems bool) {
	text := Normalize(input)
	c.Build(Segment(text, c.flags.SplitSentences, c.flags.RemoveHTMLTags), appendItems)
}

// Build adds one item per fragment. With SplitParagraphs a delimiter follows
// each paragraph, and appending to a corpus whose last item is content first
// inserts a delimiter.
func (c *TextCorpus) Build(paragraphs []Paragraph, appendItems bool) {
	if !appendItems {
		c.items = c.items[:0]
	} else if c.flags.SplitParagraphs && len(c.items) > 0 && !c.items[len(c.items)-1].IsDelimiter() {
		c.items = append(c.items, Delimiter())
	}

	for _, p := range paragraphs {
		added := 0
		for _, frag := range p {
			item := NewItem(frag, c.classify(p, frag))
			// A fragment of pure markup residue normalizes to nothing.
			if item.IsDelimiter() {
				continue
			}
			c.items = append(c.items, item)
			added++
		}
		if added > 0 && c.flags.SplitParagraphs {
			c.items = append(c.items, Delimiter())
		}
	}
}

// Paragraphs groups the content items between delimiters.
func (c *TextCorpus) Paragraphs() [][]Item {
	var out [][]Item
	var cur []Item
	for _, item := range c.items {
		if item.IsDelimiter() {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, item)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// String renders one item per line, with a blank line for each delimiter.
func (c *TextCorpus) String() string {
	lines := make([]string, len(c.items))
	for i, item := range c.items {
		lines[i] = item.text
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

type corpusJSON struct {
	Flags Flags  `json:"flags"`
	Items []Item `json:"items"`
}

// MarshalJSON implements json.Marshaler.
func (c *TextCorpus) MarshalJSON() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(corpusJSON{Flags: c.flags, Items: items})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *TextCorpus) UnmarshalJSON(data []byte) error {
	var v corpusJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.flags, c.items = v.Flags, v.Items
	return nil
}

// maxTitleRunes bounds the length of a fragment classified as a title.
const maxTitleRunes = 80

var enumerator = regexp.MustCompile(`^(?:\d{1,3}|[a-zA-Z]|[ivxlcdmIVXLCDM]{1,6})[.)]\s`)

func (c *TextCorpus) classify(p Paragraph, frag string) ItemType {
	if !c.flags.ClassifyItems {
		return ItemParagraph
	}
	if IsListItemText(frag) {
		return ItemListItem
	}
	if len(p) == 1 && isTitleText(frag) {
		return ItemTitle
	}
	if c.flags.SplitSentences {
		return ItemSentence
	}
	return ItemParagraph
}

// IsListItemText reports whether text opens with a bullet or an enumerator
// such as "1.", "a)" or "iv.".
func IsListItemText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	first, size := utf8.DecodeRuneInString(text)
	if isBulletRune(first) {
		return true
	}
	// ASCII bullets must be followed by a space so "-5" stays text.
	if first == '-' || first == '*' || first == '+' {
		return size < len(text) && text[size] == ' '
	}
	return enumerator.MatchString(text)
}

func isBulletRune(r rune) bool {
	switch r {
	case '•', '●', '○', '◦', '◉', // circles
		'■', '□', '▪', '▫', // squares
		'‣', '⁃', // other bullets
		'→', '▶', '►', '▸', '➤', '➜', // arrows
		'☐', '☑', '✓', '✔', '✗', '✘': // checkboxes
		return true
	}
	return false
}

func isTitleText(text string) bool {
	if utf8.RuneCountInString(text) > maxTitleRunes {
		return false
	}
	first, _ := utf8.DecodeRuneInString(text)
	if !unicode.IsUpper(first) {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	return !strings.ContainsRune(".,;:!?", last)
}
