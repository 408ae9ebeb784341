package themes

// Style describes the visual variants a theme selects for the public
// renderer. Values are identifiers the templates switch on, not CSS.
type Style struct {
	FontFamily     string `json:"font_family"`
	RadiusScale    string `json:"radius_scale"`
	HeroLayout     string `json:"hero_layout"`
	ButtonStyle    string `json:"button_style"`
	CardStyle      string `json:"card_style"`
	SectionSpacing string `json:"section_spacing"`
	TitleStyle     string `json:"title_style"`
}

type Theme struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PreviewPrimary string `json:"preview_primary"`
	PreviewAccent  string `json:"preview_accent"`
	Style          Style  `json:"style"`
}

// The catalog is closed and code-defined. Sites reference themes by ID and
// an unknown ID is a configuration error, never a runtime condition.
var registry = []Theme{
	{
		ID:             "modern",
		Name:           "Modern",
		Description:    "Clean lines and generous whitespace for a contemporary school.",
		PreviewPrimary: "#2563eb",
		PreviewAccent:  "#f59e0b",
		Style: Style{
			FontFamily:     "sans",
			RadiusScale:    "lg",
			HeroLayout:     "split",
			ButtonStyle:    "rounded",
			CardStyle:      "shadow",
			SectionSpacing: "loose",
			TitleStyle:     "underline",
		},
	},
	{
		ID:             "classic",
		Name:           "Classic",
		Description:    "Traditional serif look for long-established schools.",
		PreviewPrimary: "#1e3a5f",
		PreviewAccent:  "#b45309",
		Style: Style{
			FontFamily:     "serif",
			RadiusScale:    "none",
			HeroLayout:     "centered",
			ButtonStyle:    "square",
			CardStyle:      "bordered",
			SectionSpacing: "normal",
			TitleStyle:     "plain",
		},
	},
	{
		ID:             "warm",
		Name:           "Warm",
		Description:    "Soft colors and rounded shapes aimed at younger students.",
		PreviewPrimary: "#db2777",
		PreviewAccent:  "#65a30d",
		Style: Style{
			FontFamily:     "rounded",
			RadiusScale:    "xl",
			HeroLayout:     "centered",
			ButtonStyle:    "pill",
			CardStyle:      "flat",
			SectionSpacing: "loose",
			TitleStyle:     "accent-bar",
		},
	},
	{
		ID:             "minimal",
		Name:           "Minimal",
		Description:    "Monochrome, typography-first presentation.",
		PreviewPrimary: "#111827",
		PreviewAccent:  "#6b7280",
		Style: Style{
			FontFamily:     "sans",
			RadiusScale:    "sm",
			HeroLayout:     "left",
			ButtonStyle:    "square",
			CardStyle:      "flat",
			SectionSpacing: "tight",
			TitleStyle:     "plain",
		},
	},
}

func Get(id string) (Theme, bool) {
	for _, t := range registry {
		if t.ID == id {
			return t, true
		}
	}

	return Theme{}, false
}

func All() []Theme {
	out := make([]Theme, len(registry))
	copy(out, registry)

	return out
}

func IDs() []string {
	ids := make([]string, 0, len(registry))

	for _, t := range registry {
		ids = append(ids, t.ID)
	}

	return ids
}

func IsValid(id string) bool {
	_, ok := Get(id)
	return ok
}
