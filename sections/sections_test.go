package sections

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("hero")
	assert.True(t, ok)
	assert.Equal(t, KindHero, k)

	_, ok = ParseKind("carousel")
	assert.False(t, ok)

	_, ok = ParseKind("")
	assert.False(t, ok)
}

func TestKindsAreStableAndLabeled(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 12)
	assert.Equal(t, KindHero, kinds[0])

	for _, k := range kinds {
		assert.True(t, IsValidKind(k))
		assert.NotEmpty(t, Label(k))
	}
}

func TestDefaultsPassValidation(t *testing.T) {
	for _, k := range Kinds() {
		raw := DefaultRaw(k)
		require.NotEmpty(t, raw, "kind %s", k)

		fieldErrs, err := Validate(k, raw)
		require.NoError(t, err, "kind %s", k)
		assert.True(t, fieldErrs.Empty(), "kind %s: %v", k, fieldErrs)
	}
}

func TestDefaultRawPanicsOnUnknownKind(t *testing.T) {
	assert.Panics(t, func() {
		DefaultRaw(Kind("carousel"))
	})
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(KindHero, json.RawMessage(`{"title":"Hi","headline":"nope"}`))
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := Decode(Kind("carousel"), json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestDecodeRoundTrip(t *testing.T) {
	raw := json.RawMessage(`{"title":"Tuition","plans":[{"name":"Standard","price":"12,000","period":"month","includes":["2 lessons"],"featured":false}]}`)

	content, err := Decode(KindPricing, raw)
	require.NoError(t, err)

	pricing, ok := content.(*PricingContent)
	require.True(t, ok)
	assert.Equal(t, "Tuition", pricing.Title)
	require.Len(t, pricing.Plans, 1)
	assert.Equal(t, "Standard", pricing.Plans[0].Name)

	encoded, err := Encode(content)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(encoded))
}

func TestValidateHero(t *testing.T) {
	tests := []struct {
		name    string
		content HeroContent
		fields  []string
	}{
		{
			name:    "valid",
			content: HeroContent{Title: "Welcome"},
		},
		{
			name:    "missing title",
			content: HeroContent{Subtitle: "Small classes"},
			fields:  []string{"title"},
		},
		{
			name:    "title too long",
			content: HeroContent{Title: strings.Repeat("x", maxTitleLength+1)},
			fields:  []string{"title"},
		},
		{
			name:    "button without label",
			content: HeroContent{Title: "Welcome", Button: &Link{URL: "#contact"}},
			fields:  []string{"button.label"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fieldErrs := tt.content.Validate()

			if len(tt.fields) == 0 {
				assert.True(t, fieldErrs.Empty())
				return
			}

			require.Len(t, fieldErrs, len(tt.fields))
			for i, f := range tt.fields {
				assert.Equal(t, f, fieldErrs[i].Field)
			}
		})
	}
}

func TestValidateFAQ(t *testing.T) {
	content := FAQContent{
		Title: "FAQ",
		Items: []QA{
			{Question: "Can we try a lesson?", Answer: "Yes."},
			{Question: "", Answer: "Orphan answer."},
		},
	}

	fieldErrs := content.Validate()
	require.False(t, fieldErrs.Empty())
	assert.Equal(t, "items.1.question", fieldErrs[0].Field)
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	_, err := Validate(KindAbout, json.RawMessage(`{"title":`))
	assert.Error(t, err)
}

func TestValidateReportsUnknownKind(t *testing.T) {
	_, err := Validate(Kind("carousel"), json.RawMessage(`{}`))
	assert.Error(t, err)
}
