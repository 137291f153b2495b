package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// parseCategories reads a category seed file. Every entry needs a uuid id
// and a name; names must be unique.
func parseCategories(r io.Reader, now time.Time) ([]*entities.Category, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	seen := make(map[string]bool, len(file.Categories))
	out := make([]*entities.Category, 0, len(file.Categories))
	for i, c := range file.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d: name is required", i)
		}
		if _, err := uuid.Parse(c.ID); err != nil {
			return nil, fmt.Errorf("category %q: invalid id: %w", name, err)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("category %q is listed twice", name)
		}
		seen[strings.ToLower(name)] = true

		category := &entities.Category{ID: c.ID, Name: name, CreatedAt: now}
		if icon := strings.TrimSpace(c.Icon); icon != "" {
			category.Icon = &icon
		}
		out = append(out, category)
	}
	return out, nil
}
