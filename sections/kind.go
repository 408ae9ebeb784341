package sections

import "strings"

// Kind is the closed enumeration of section types a site page can contain.
type Kind string

const (
	KindHero         Kind = "hero"
	KindAbout        Kind = "about"
	KindCourses      Kind = "courses"
	KindInstructors  Kind = "instructors"
	KindFeatures     Kind = "features"
	KindPricing      Kind = "pricing"
	KindTestimonials Kind = "testimonials"
	KindGallery      Kind = "gallery"
	KindFAQ          Kind = "faq"
	KindAccess       Kind = "access"
	KindContact      Kind = "contact"
	KindCTA          Kind = "cta"
)

type kindEntry struct {
	label      string
	newContent func() Content
}

// The registry maps every kind to its label and typed payload constructor.
// It is the single source of truth correlating a kind with its schema.
var registry = map[Kind]kindEntry{
	KindHero:         {label: "Hero", newContent: func() Content { return &HeroContent{} }},
	KindAbout:        {label: "About", newContent: func() Content { return &AboutContent{} }},
	KindCourses:      {label: "Courses", newContent: func() Content { return &CoursesContent{} }},
	KindInstructors:  {label: "Instructors", newContent: func() Content { return &InstructorsContent{} }},
	KindFeatures:     {label: "Features", newContent: func() Content { return &FeaturesContent{} }},
	KindPricing:      {label: "Pricing", newContent: func() Content { return &PricingContent{} }},
	KindTestimonials: {label: "Testimonials", newContent: func() Content { return &TestimonialsContent{} }},
	KindGallery:      {label: "Gallery", newContent: func() Content { return &GalleryContent{} }},
	KindFAQ:          {label: "FAQ", newContent: func() Content { return &FAQContent{} }},
	KindAccess:       {label: "Access", newContent: func() Content { return &AccessContent{} }},
	KindContact:      {label: "Contact", newContent: func() Content { return &ContactContent{} }},
	KindCTA:          {label: "Call to action", newContent: func() Content { return &CTAContent{} }},
}

// kindOrder keeps enumeration deterministic for selection UIs.
var kindOrder = []Kind{
	KindHero,
	KindAbout,
	KindCourses,
	KindInstructors,
	KindFeatures,
	KindPricing,
	KindTestimonials,
	KindGallery,
	KindFAQ,
	KindAccess,
	KindContact,
	KindCTA,
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))

	if _, ok := registry[k]; !ok {
		return "", false
	}

	return k, true
}

func IsValidKind(k Kind) bool {
	_, ok := registry[k]
	return ok
}

func Label(k Kind) string {
	entry, ok := registry[k]
	if !ok {
		return ""
	}

	return entry.label
}

func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)

	return out
}
