// Package deck owns the bundled card content: the embedded JSON asset, its
// validation, the one-time import into the store, and the fixed premium
// membership table re-applied on every launch.
package deck

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

//go:embed deck.json
var bundled []byte

// Asset is the parsed bundled dataset: category name to ordered prompts.
type Asset struct {
	Categories []AssetCategory `json:"categories" validate:"required,min=1,dive"`
}

// AssetCategory is one named group of prompts in canonical order.
type AssetCategory struct {
	Name    string        `json:"name"    validate:"required"`
	Prompts []AssetPrompt `json:"prompts" validate:"required,min=1,dive"`
}

// AssetPrompt is a single (position, text) pair with its difficulty level.
type AssetPrompt struct {
	Position   int    `json:"position"   validate:"required,min=1"`
	Text       string `json:"text"       validate:"required"`
	Difficulty int    `json:"difficulty" validate:"required,min=1,max=5"`
}

// Parse decodes and validates a deck asset.
// Beyond tag validation it checks the position invariant: positions
// are unique and contiguous starting at 1 within each category.
func Parse(data []byte) (*Asset, error) {
	var asset Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("decode deck asset: %w", err)
	}

	if err := validator.New().Struct(asset); err != nil {
		return nil, fmt.Errorf("validate deck asset: %w", err)
	}

	seen := make(map[string]bool, len(asset.Categories))
	for _, cat := range asset.Categories {
		if seen[cat.Name] {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true

		positions := make(map[int]bool, len(cat.Prompts))
		for _, p := range cat.Prompts {
			if positions[p.Position] {
				return nil, fmt.Errorf("category %q: duplicate position %d", cat.Name, p.Position)
			}
			positions[p.Position] = true
		}
		for i := 1; i <= len(cat.Prompts); i++ {
			if !positions[i] {
				return nil, fmt.Errorf("category %q: positions not contiguous, missing %d", cat.Name, i)
			}
		}
	}

	return &asset, nil
}

// Bundled parses the asset compiled into the binary.
func Bundled() (*Asset, error) {
	return Parse(bundled)
}
