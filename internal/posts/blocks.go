package posts

import "strings"

// Block is one typed piece of a post body.
type Block interface {
	isBlock()
}

type Paragraph struct {
	Text string
}

type Heading struct {
	Text  string
	Level int
}

type Quote struct {
	Text string
}

type ListItem struct {
	Text    string
	Ordered bool
}

type Code struct {
	Language string
	Text     string
}

type Image struct {
	Ref string
	Alt string
}

func (Paragraph) isBlock() {}
func (Heading) isBlock()   {}
func (Quote) isBlock()     {}
func (ListItem) isBlock()  {}
func (Code) isBlock()      {}
func (Image) isBlock()     {}

// ExtractText returns the readable text of blocks separated by blank
// lines. Images and code contribute nothing.
func ExtractText(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var text string
		switch b := b.(type) {
		case Paragraph:
			text = b.Text
		case Heading:
			text = b.Text
		case Quote:
			text = b.Text
		case ListItem:
			text = b.Text
		case Code, Image:
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}
