package blocks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(kind Kind, data string) Block {
	return Block{Kind: kind, Data: json.RawMessage(data)}
}

func TestValidateParagraph(t *testing.T) {
	errs := Validate(block(KindParagraph, `{"text":"Hello"}`), "")
	assert.True(t, errs.Empty())

	errs = Validate(block(KindParagraph, `{"text":"Hello","extra":true}`), "")
	require.False(t, errs.Empty())
	assert.Equal(t, "data", errs[0].Field)
}

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		fields []string
	}{
		{name: "valid", data: `{"text":"Enrollment","level":2}`},
		{name: "missing text", data: `{"level":2}`, fields: []string{"text"}},
		{name: "level too low", data: `{"text":"Hi","level":0}`, fields: []string{"level"}},
		{name: "level too high", data: `{"text":"Hi","level":5}`, fields: []string{"level"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(block(KindHeader, tt.data), "")

			if len(tt.fields) == 0 {
				assert.True(t, errs.Empty())
				return
			}

			require.Len(t, errs, len(tt.fields))
			for i, f := range tt.fields {
				assert.Equal(t, f, errs[i].Field)
			}
		})
	}
}

func TestValidateList(t *testing.T) {
	errs := Validate(block(KindList, `{"ordered":true,"items":["one","two"]}`), "")
	assert.True(t, errs.Empty())

	errs = Validate(block(KindList, `{"ordered":false,"items":[]}`), "")
	require.False(t, errs.Empty())
	assert.Equal(t, "items", errs[0].Field)
}

func TestValidateDelimiterHasNoPayload(t *testing.T) {
	errs := Validate(Block{Kind: KindDelimiter}, "")
	assert.True(t, errs.Empty())
}

func TestValidateUnknownKind(t *testing.T) {
	errs := Validate(block(Kind("table"), `{}`), "")
	require.False(t, errs.Empty())
	assert.Equal(t, "kind", errs[0].Field)
}

func TestValidateAllPrefixesBlockIndex(t *testing.T) {
	list := []Block{
		block(KindParagraph, `{"text":"Intro"}`),
		block(KindHeader, `{"text":"","level":9}`),
		block(KindImage, `{"url":""}`),
	}

	errs := ValidateAll(list)
	require.Len(t, errs, 3)
	assert.Equal(t, "blocks.1.text", errs[0].Field)
	assert.Equal(t, "blocks.1.level", errs[1].Field)
	assert.Equal(t, "blocks.2.url", errs[2].Field)
}

func TestValidateAllEmptySequence(t *testing.T) {
	assert.True(t, ValidateAll(nil).Empty())
	assert.True(t, ValidateAll([]Block{}).Empty())
}
