package sections

import (
	"fmt"
	"strings"
)

const (
	maxTitleLength = 120
	maxTextLength  = 2000
	maxListItems   = 24
)

// Content is the typed payload of a section instance. Payloads are
// user-authored and may be partially incomplete; Validate reports the
// problems that must block persistence, not cosmetic ones.
type Content interface {
	Kind() Kind
	Validate() FieldErrors
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type FieldErrors []FieldError

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

func (e FieldErrors) add(field string, format string, args ...interface{}) FieldErrors {
	return append(e, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))

	for _, fe := range e {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}

	return strings.Join(msgs, "; ")
}

func checkTitle(errs FieldErrors, field string, value string, required bool) FieldErrors {
	v := strings.TrimSpace(value)

	if required && len(v) < 1 {
		return errs.add(field, "This field is required.")
	}

	if len(v) > maxTitleLength {
		return errs.add(field, "Must be at most %d characters long.", maxTitleLength)
	}

	return errs
}

func checkText(errs FieldErrors, field string, value string) FieldErrors {
	if len(value) > maxTextLength {
		return errs.add(field, "Must be at most %d characters long.", maxTextLength)
	}

	return errs
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type HeroContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"image_url"`
	Button   *Link  `json:"button,omitempty"`
}

func (c HeroContent) Kind() Kind { return KindHero }

func (c HeroContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)
	errs = checkText(errs, "subtitle", c.Subtitle)

	if c.Button != nil && len(strings.TrimSpace(c.Button.Label)) < 1 {
		errs = errs.add("button.label", "This field is required.")
	}

	return errs
}

type AboutContent struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
}

func (c AboutContent) Kind() Kind { return KindAbout }

func (c AboutContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)
	errs = checkText(errs, "body", c.Body)

	return errs
}

type Course struct {
	Name        string `json:"name"`
	Target      string `json:"target"`
	Description string `json:"description"`
	Schedule    string `json:"schedule"`
}

type CoursesContent struct {
	Title   string   `json:"title"`
	Courses []Course `json:"courses"`
}

func (c CoursesContent) Kind() Kind { return KindCourses }

func (c CoursesContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)

	if len(c.Courses) > maxListItems {
		errs = errs.add("courses", "Must contain at most %d items.", maxListItems)
	}

	for i, course := range c.Courses {
		errs = checkTitle(errs, fmt.Sprintf("courses.%d.name", i), course.Name, true)
		errs = checkText(errs, fmt.Sprintf("courses.%d.description", i), course.Description)
	}

	return errs
}

type Instructor struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url"`
}

type InstructorsContent struct {
	Title       string       `json:"title"`
	Instructors []Instructor `json:"instructors"`
}

func (c InstructorsContent) Kind() Kind { return KindInstructors }

func (c InstructorsContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)

	if len(c.Instructors) > maxListItems {
		errs = errs.add("instructors", "Must contain at most %d items.", maxListItems)
	}

	for i, ins := range c.Instructors {
		errs = checkTitle(errs, fmt.Sprintf("instructors.%d.name", i), ins.Name, true)
		errs = checkText(errs, fmt.Sprintf("instructors.%d.bio", i), ins.Bio)
	}

	return errs
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type FeaturesContent struct {
	Title    string    `json:"title"`
	Features []Feature `json:"features"`
}

func (c FeaturesContent) Kind() Kind { return KindFeatures }

func (c FeaturesContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)

	if len(c.Features) > maxListItems {
		errs = errs.add("features", "Must contain at most %d items.", maxListItems)
	}

	for i, f := range c.Features {
		errs = checkTitle(errs, fmt.Sprintf("features.%d.title", i), f.Title, true)
		errs = checkText(errs, fmt.Sprintf("features.%d.description", i), f.Description)
	}

	return errs
}

type Plan struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Period   string   `json:"period"`
	Includes []string `json:"includes"`
	Featured bool     `json:"featured"`
}

type PricingContent struct {
	Title string `json:"title"`
	Note  string `json:"note"`
	Plans []Plan `json:"plans"`
}

func (c PricingContent) Kind() Kind { return KindPricing }

func (c PricingContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)
	errs = checkText(errs, "note", c.Note)

	if len(c.Plans) > maxListItems {
		errs = errs.add("plans", "Must contain at most %d items.", maxListItems)
	}

	for i, p := range c.Plans {
		errs = checkTitle(errs, fmt.Sprintf("plans.%d.name", i), p.Name, true)
		errs = checkTitle(errs, fmt.Sprintf("plans.%d.price", i), p.Price, true)
	}

	return errs
}

type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Detail string `json:"detail"`
}

type TestimonialsContent struct {
	Title        string        `json:"title"`
	Testimonials []Testimonial `json:"testimonials"`
}

func (c TestimonialsContent) Kind() Kind { return KindTestimonials }

func (c TestimonialsContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)

	if len(c.Testimonials) > maxListItems {
		errs = errs.add("testimonials", "Must contain at most %d items.", maxListItems)
	}

	for i, t := range c.Testimonials {
		if len(strings.TrimSpace(t.Quote)) < 1 {
			errs = errs.add(fmt.Sprintf("testimonials.%d.quote", i), "This field is required.")
		}

		errs = checkText(errs, fmt.Sprintf("testimonials.%d.quote", i), t.Quote)
	}

	return errs
}

type GalleryImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

type GalleryContent struct {
	Title  string         `json:"title"`
	Images []GalleryImage `json:"images"`
}

func (c GalleryContent) Kind() Kind { return KindGallery }

func (c GalleryContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)

	if len(c.Images) > maxListItems {
		errs = errs.add("images", "Must contain at most %d items.", maxListItems)
	}

	for i, img := range c.Images {
		if len(strings.TrimSpace(img.URL)) < 1 {
			errs = errs.add(fmt.Sprintf("images.%d.url", i), "This field is required.")
		}
	}

	return errs
}

type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQContent struct {
	Title string `json:"title"`
	Items []QA   `json:"items"`
}

func (c FAQContent) Kind() Kind { return KindFAQ }

func (c FAQContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)

	if len(c.Items) > maxListItems {
		errs = errs.add("items", "Must contain at most %d items.", maxListItems)
	}

	for i, qa := range c.Items {
		if len(strings.TrimSpace(qa.Question)) < 1 {
			errs = errs.add(fmt.Sprintf("items.%d.question", i), "This field is required.")
		}

		errs = checkText(errs, fmt.Sprintf("items.%d.answer", i), qa.Answer)
	}

	return errs
}

type AccessContent struct {
	Title       string `json:"title"`
	Address     string `json:"address"`
	Station     string `json:"station"`
	MapEmbedURL string `json:"map_embed_url"`
	Notes       string `json:"notes"`
}

func (c AccessContent) Kind() Kind { return KindAccess }

func (c AccessContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)
	errs = checkText(errs, "notes", c.Notes)

	return errs
}

type ContactContent struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	ShowPhone   bool   `json:"show_phone"`
	ShowEmail   bool   `json:"show_email"`
	ButtonLabel string `json:"button_label"`
}

func (c ContactContent) Kind() Kind { return KindContact }

func (c ContactContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)
	errs = checkText(errs, "message", c.Message)

	return errs
}

type CTAContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Button   Link   `json:"button"`
}

func (c CTAContent) Kind() Kind { return KindCTA }

func (c CTAContent) Validate() FieldErrors {
	errs := FieldErrors{}
	errs = checkTitle(errs, "title", c.Title, true)
	errs = checkText(errs, "subtitle", c.Subtitle)
	errs = checkTitle(errs, "button.label", c.Button.Label, true)

	return errs
}
