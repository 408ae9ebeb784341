package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the closed enumeration of content blocks a blog post can contain.
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindHeader    Kind = "header"
	KindImage     Kind = "image"
	KindList      Kind = "list"
	KindQuote     Kind = "quote"
	KindDelimiter Kind = "delimiter"
)

const (
	maxTextLength = 5000
	maxListItems  = 50
)

// Block is one tagged entry in a post's ordered content sequence. The Data
// shape is determined by Kind, the same pattern the section registry uses.
type Block struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type ParagraphData struct {
	Text string `json:"text"`
}

type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type ImageData struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

type ListData struct {
	Ordered bool     `json:"ordered"`
	Items   []string `json:"items"`
}

type QuoteData struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

func IsValidKind(k Kind) bool {
	switch k {
	case KindParagraph, KindHeader, KindImage, KindList, KindQuote, KindDelimiter:
		return true
	}

	return false
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type FieldErrors []FieldError

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))

	for _, fe := range e {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}

	return strings.Join(msgs, "; ")
}

func decode(raw json.RawMessage, out interface{}) error {
	if len(raw) < 1 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	return dec.Decode(out)
}

// Validate checks one block against the schema registered for its kind.
// The field prefix lets callers report the block's index in the sequence.
func Validate(b Block, prefix string) FieldErrors {
	errs := FieldErrors{}

	field := func(name string) string {
		if len(prefix) < 1 {
			return name
		}

		return prefix + "." + name
	}

	switch b.Kind {
	case KindParagraph:
		data := ParagraphData{}
		if err := decode(b.Data, &data); err != nil {
			return append(errs, FieldError{Field: field("data"), Message: "The paragraph data is invalid."})
		}

		if len(data.Text) > maxTextLength {
			errs = append(errs, FieldError{Field: field("text"), Message: fmt.Sprintf("Must be at most %d characters long.", maxTextLength)})
		}
	case KindHeader:
		data := HeaderData{}
		if err := decode(b.Data, &data); err != nil {
			return append(errs, FieldError{Field: field("data"), Message: "The header data is invalid."})
		}

		if len(strings.TrimSpace(data.Text)) < 1 {
			errs = append(errs, FieldError{Field: field("text"), Message: "This field is required."})
		}

		if data.Level < 1 || data.Level > 4 {
			errs = append(errs, FieldError{Field: field("level"), Message: "Must be between 1 and 4."})
		}
	case KindImage:
		data := ImageData{}
		if err := decode(b.Data, &data); err != nil {
			return append(errs, FieldError{Field: field("data"), Message: "The image data is invalid."})
		}

		if len(strings.TrimSpace(data.URL)) < 1 {
			errs = append(errs, FieldError{Field: field("url"), Message: "This field is required."})
		}
	case KindList:
		data := ListData{}
		if err := decode(b.Data, &data); err != nil {
			return append(errs, FieldError{Field: field("data"), Message: "The list data is invalid."})
		}

		if len(data.Items) < 1 {
			errs = append(errs, FieldError{Field: field("items"), Message: "Must contain at least one item."})
		}

		if len(data.Items) > maxListItems {
			errs = append(errs, FieldError{Field: field("items"), Message: fmt.Sprintf("Must contain at most %d items.", maxListItems)})
		}
	case KindQuote:
		data := QuoteData{}
		if err := decode(b.Data, &data); err != nil {
			return append(errs, FieldError{Field: field("data"), Message: "The quote data is invalid."})
		}

		if len(strings.TrimSpace(data.Text)) < 1 {
			errs = append(errs, FieldError{Field: field("text"), Message: "This field is required."})
		}
	case KindDelimiter:
		// No payload.
	default:
		errs = append(errs, FieldError{Field: field("kind"), Message: fmt.Sprintf("Unknown block kind '%s'.", b.Kind)})
	}

	return errs
}

// ValidateAll validates an ordered block sequence, reporting each problem
// with its block index.
func ValidateAll(list []Block) FieldErrors {
	errs := FieldErrors{}

	for i, b := range list {
		errs = append(errs, Validate(b, fmt.Sprintf("blocks.%d", i))...)
	}

	return errs
}
