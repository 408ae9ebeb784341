package catalog

import (
	"encoding/json"

	"jukusite.app/builder/sections"
)

// Template is an immutable, code-defined bundle used only at site-creation
// time to seed the initial section set.
type Template struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ThemeID        string          `json:"theme_id"`
	PrimaryColor   string          `json:"primary_color"`
	SecondaryColor string          `json:"secondary_color"`
	Kinds          []sections.Kind `json:"kinds"`
	Tags           []string        `json:"tags"`
}

// Seed is one (kind, position, visibility, content) tuple produced by
// template instantiation.
type Seed struct {
	Kind     sections.Kind
	Position int
	Visible  bool
	Content  json.RawMessage
}

var templates = []Template{
	{
		ID:             "modern-simple",
		Name:           "Modern Simple",
		Description:    "A compact one-page site covering the essentials.",
		ThemeID:        "modern",
		PrimaryColor:   "#2563eb",
		SecondaryColor: "#f59e0b",
		Kinds:          []sections.Kind{sections.KindHero, sections.KindFeatures, sections.KindPricing, sections.KindContact},
		Tags:           []string{"simple", "one-page"},
	},
	{
		ID:             "modern-full",
		Name:           "Modern Full",
		Description:    "The complete layout with courses, instructors and FAQ.",
		ThemeID:        "modern",
		PrimaryColor:   "#2563eb",
		SecondaryColor: "#10b981",
		Kinds: []sections.Kind{
			sections.KindHero,
			sections.KindAbout,
			sections.KindCourses,
			sections.KindInstructors,
			sections.KindFeatures,
			sections.KindPricing,
			sections.KindTestimonials,
			sections.KindFAQ,
			sections.KindAccess,
			sections.KindContact,
		},
		Tags: []string{"full", "detailed"},
	},
	{
		ID:             "classic-academy",
		Name:           "Classic Academy",
		Description:    "A traditional presentation for established schools.",
		ThemeID:        "classic",
		PrimaryColor:   "#1e3a5f",
		SecondaryColor: "#b45309",
		Kinds: []sections.Kind{
			sections.KindHero,
			sections.KindAbout,
			sections.KindInstructors,
			sections.KindCourses,
			sections.KindAccess,
			sections.KindContact,
		},
		Tags: []string{"traditional"},
	},
	{
		ID:             "warm-kids",
		Name:           "Warm Kids",
		Description:    "A friendly layout aimed at elementary-age programs.",
		ThemeID:        "warm",
		PrimaryColor:   "#db2777",
		SecondaryColor: "#65a30d",
		Kinds: []sections.Kind{
			sections.KindHero,
			sections.KindFeatures,
			sections.KindGallery,
			sections.KindTestimonials,
			sections.KindPricing,
			sections.KindFAQ,
			sections.KindContact,
		},
		Tags: []string{"kids", "friendly"},
	},
	{
		ID:             "minimal-landing",
		Name:           "Minimal Landing",
		Description:    "Hero, a single pitch and a call to action. Nothing else.",
		ThemeID:        "minimal",
		PrimaryColor:   "#111827",
		SecondaryColor: "#6b7280",
		Kinds:          []sections.Kind{sections.KindHero, sections.KindAbout, sections.KindCTA},
		Tags:           []string{"minimal", "landing"},
	},
}

func All() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)

	return out
}

func Get(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}

	return Template{}, false
}

func ByTheme(themeID string) []Template {
	out := []Template{}

	for _, t := range templates {
		if t.ThemeID == themeID {
			out = append(out, t)
		}
	}

	return out
}

// Instantiate produces the seed tuples for a new site: one section per
// declared kind, in declared order, positions 1..n, all visible, each
// carrying its kind's default content. Pure and deterministic.
func Instantiate(t Template) []Seed {
	seeds := make([]Seed, 0, len(t.Kinds))

	for i, k := range t.Kinds {
		seeds = append(seeds, Seed{
			Kind:     k,
			Position: i + 1,
			Visible:  true,
			Content:  sections.DefaultRaw(k),
		})
	}

	return seeds
}
