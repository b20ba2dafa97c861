package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundled_IsValid(t *testing.T) {
	t.Parallel()

	asset, err := Bundled()
	require.NoError(t, err)
	require.NotEmpty(t, asset.Categories)

	// Every category named in the premium table ships in the asset and
	// vice versa; the two are maintained together.
	names := make(map[string]bool)
	for _, cat := range asset.Categories {
		names[cat.Name] = true
	}
	for name := range premiumCategories {
		assert.True(t, names[name], "premium table names unknown category %q", name)
	}
	assert.Len(t, premiumCategories, len(asset.Categories))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"no categories", `{"categories": []}`},
		{"category without name", `{"categories": [{"prompts": [{"position":1,"text":"x","difficulty":1}]}]}`},
		{"category without prompts", `{"categories": [{"name": "Party", "prompts": []}]}`},
		{"prompt without text", `{"categories": [{"name": "Party", "prompts": [{"position":1,"difficulty":1}]}]}`},
		{"difficulty out of range", `{"categories": [{"name": "Party", "prompts": [{"position":1,"text":"x","difficulty":6}]}]}`},
		{"duplicate position", `{"categories": [{"name": "Party", "prompts": [{"position":1,"text":"a","difficulty":1},{"position":1,"text":"b","difficulty":1}]}]}`},
		{"gap in positions", `{"categories": [{"name": "Party", "prompts": [{"position":1,"text":"a","difficulty":1},{"position":3,"text":"b","difficulty":1}]}]}`},
		{"duplicate category", `{"categories": [{"name": "Party", "prompts": [{"position":1,"text":"a","difficulty":1}]},{"name": "Party", "prompts": [{"position":1,"text":"b","difficulty":1}]}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_OK(t *testing.T) {
	t.Parallel()

	asset, err := Parse([]byte(`{
		"categories": [
			{"name": "Party", "prompts": [
				{"position": 2, "text": "second", "difficulty": 3},
				{"position": 1, "text": "first", "difficulty": 1}
			]}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, asset.Categories, 1)
	assert.Len(t, asset.Categories[0].Prompts, 2)
}
