// Package catalog loads custom environment definitions and layers them over the
// built-in themes.
//
// Two sources are supported: a single YAML file with an "environments" list, or a
// directory of Markdown files (one theme per file) whose frontmatter holds the
// theme fields and whose body becomes the description.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/pairs/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ThemeMetadata is the frontmatter of a Markdown theme file.
type ThemeMetadata struct {
	Name        string        `json:"name" mapstructure:"name"`
	Symbols     []string      `json:"symbols" mapstructure:"symbols"`
	Colors      domain.Colors `json:"colors" mapstructure:"colors"`
	Description string        `json:"description" mapstructure:"description"`
}

type fileSchema struct {
	Environments []domain.Environment `mapstructure:"environments"`
}

// Load reads custom environments from path and merges them over the default catalog.
// An empty path returns the default catalog unchanged.
func Load(ctx context.Context, path string) (*domain.Catalog, error) {
	base := domain.DefaultCatalog()
	if path == "" {
		return base, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog path: %w", err)
	}

	var envs []domain.Environment
	if info.IsDir() {
		envs, err = LoadDir(ctx, path)
	} else {
		envs, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}

	return base.Merge(envs...)
}

// LoadFile parses a YAML catalog file:
//
//	environments:
//	  - name: space
//	    symbols: ["🚀", "🪐", "⭐", "🌙"]
//	    colors: {front: "#311B92", back: "#EDE7F6"}
func LoadFile(path string) ([]domain.Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML catalog content.
func Parse(data []byte) ([]domain.Environment, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	var schema fileSchema
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &schema,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	for _, env := range schema.Environments {
		if err := env.Validate(); err != nil {
			return nil, err
		}
	}
	return schema.Environments, nil
}

// LoadDir reads every Markdown theme in dir through a read-only Loam repository.
// The file name (without extension) is used when the frontmatter has no name.
func LoadDir(ctx context.Context, dir string) ([]domain.Environment, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	typedRepo := loam.NewTypedRepository[ThemeMetadata](repo)

	docs, err := typedRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	envs := make([]domain.Environment, 0, len(docs))
	seen := make(map[string]string)
	for _, doc := range docs {
		meta := doc.Data
		name := meta.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(doc.ID), filepath.Ext(doc.ID))
		}
		if other, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: environment %q is defined in both %q and %q", domain.ErrInvalidCatalog, name, other, doc.ID)
		}
		seen[name] = doc.ID

		description := meta.Description
		if description == "" {
			description = strings.TrimSpace(doc.Content)
		}

		env := domain.Environment{
			Name:        name,
			Symbols:     meta.Symbols,
			Colors:      meta.Colors,
			Description: description,
		}
		if err := env.Validate(); err != nil {
			return nil, fmt.Errorf("theme %s: %w", doc.ID, err)
		}
		envs = append(envs, env)
	}
	return envs, nil
}
