package sections

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode parses a raw payload into the typed content registered for the
// kind. Unknown fields are rejected so stale or mistyped payloads cannot
// silently pass through the validation gate.
func Decode(k Kind, raw json.RawMessage) (Content, error) {
	entry, ok := registry[k]
	if !ok {
		return nil, fmt.Errorf("unknown section kind '%s'", k)
	}

	content := entry.newContent()

	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()

		if err := dec.Decode(content); err != nil {
			return nil, fmt.Errorf("could not decode '%s' content: %w", k, err)
		}
	}

	return content, nil
}

func Encode(c Content) (json.RawMessage, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("could not encode '%s' content: %w", c.Kind(), err)
	}

	return raw, nil
}

// Validate is the write-time gate between the editor and the store. It
// returns decoding problems as an error and schema problems as field
// errors; content only persists when both are clear.
func Validate(k Kind, raw json.RawMessage) (FieldErrors, error) {
	content, err := Decode(k, raw)
	if err != nil {
		return nil, err
	}

	return content.Validate(), nil
}

// Default returns the seed payload for a kind, used by template
// instantiation and by "add section".
func Default(k Kind) Content {
	switch k {
	case KindHero:
		return &HeroContent{
			Title:    "Learning that sticks",
			Subtitle: "Small classes, proven results.",
			Button:   &Link{Label: "Contact us", URL: "#contact"},
		}
	case KindAbout:
		return &AboutContent{
			Title: "About our school",
			Body:  "Tell visitors what makes your school different.",
		}
	case KindCourses:
		return &CoursesContent{
			Title: "Courses",
			Courses: []Course{
				{Name: "Elementary program", Target: "Grades 1-6", Description: "Fundamentals with weekly progress checks."},
				{Name: "Exam preparation", Target: "Grades 7-9", Description: "Focused preparation for entrance exams."},
			},
		}
	case KindInstructors:
		return &InstructorsContent{
			Title: "Our instructors",
		}
	case KindFeatures:
		return &FeaturesContent{
			Title: "Why choose us",
			Features: []Feature{
				{Title: "Small classes", Description: "Every student gets individual attention.", Icon: "users"},
				{Title: "Progress reports", Description: "Parents receive monthly progress summaries.", Icon: "chart"},
				{Title: "Flexible schedule", Description: "Weekday and weekend slots available.", Icon: "calendar"},
			},
		}
	case KindPricing:
		return &PricingContent{
			Title: "Tuition",
			Plans: []Plan{
				{Name: "Standard", Price: "12,000", Period: "month", Includes: []string{"2 lessons per week", "Self-study room access"}},
				{Name: "Intensive", Price: "22,000", Period: "month", Includes: []string{"4 lessons per week", "Self-study room access", "Exam coaching"}, Featured: true},
			},
		}
	case KindTestimonials:
		return &TestimonialsContent{
			Title: "What parents say",
		}
	case KindGallery:
		return &GalleryContent{
			Title: "Gallery",
		}
	case KindFAQ:
		return &FAQContent{
			Title: "Frequently asked questions",
			Items: []QA{
				{Question: "Can we try a lesson first?", Answer: "Yes, the first lesson is free."},
			},
		}
	case KindAccess:
		return &AccessContent{
			Title: "Access",
		}
	case KindContact:
		return &ContactContent{
			Title:       "Contact us",
			Message:     "Questions about enrollment? Send us a message.",
			ShowPhone:   true,
			ShowEmail:   true,
			ButtonLabel: "Send",
		}
	case KindCTA:
		return &CTAContent{
			Title:  "Ready to start?",
			Button: Link{Label: "Book a free trial", URL: "#contact"},
		}
	}

	return nil
}

// DefaultRaw returns the encoded default payload. It panics on an unknown
// kind because the registry is closed at build time.
func DefaultRaw(k Kind) json.RawMessage {
	content := Default(k)
	if content == nil {
		panic(fmt.Sprintf("no default content registered for section kind '%s'", k))
	}

	raw, err := Encode(content)
	if err != nil {
		panic(err)
	}

	return raw
}
