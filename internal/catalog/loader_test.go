package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/pairs/internal/catalog"
	"github.com/aretw0/pairs/internal/testutils"
	"github.com/aretw0/pairs/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spaceYAML = `
environments:
  - name: space
    symbols: ["🚀", "🪐", "⭐", "🌙"]
    colors:
      front: "#311B92"
      back: "#EDE7F6"
    description: Things you find in orbit
  - name: fruits
    symbols: ["🍎", "🍌"]
`

func TestParse(t *testing.T) {
	envs, err := catalog.Parse([]byte(spaceYAML))
	require.NoError(t, err)
	require.Len(t, envs, 2)

	assert.Equal(t, "space", envs[0].Name)
	assert.Equal(t, []string{"🚀", "🪐", "⭐", "🌙"}, envs[0].Symbols)
	assert.Equal(t, "#311B92", envs[0].Colors.Front)
	assert.Equal(t, "Things you find in orbit", envs[0].Description)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "environments: [",
		"unknown field":   "environments:\n  - name: x\n    symbols: [a, b]\n    sound: beep\n",
		"duplicate":       "environments:\n  - name: x\n    symbols: [a, a]\n",
		"too few symbols": "environments:\n  - name: x\n    symbols: [a]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(spaceYAML), 0644))

	c, err := catalog.Load(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, c.Has("space"))
	assert.True(t, c.Has("birds"), "built-in themes stay available")

	fruits, err := c.Lookup("fruits")
	require.NoError(t, err)
	assert.Len(t, fruits.Symbols, 2, "custom definition replaces the built-in one")
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := catalog.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog().Names(), c.Names())
}

func TestLoad_Missing(t *testing.T) {
	_, err := catalog.Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MarkdownDirectory(t *testing.T) {
	dir := testutils.SetupThemeDir(t, map[string]string{
		"music.md": `---
symbols: ["🎸", "🥁", "🎹", "🎺"]
colors:
  front: "#C62828"
  back: "#FFEBEE"
---
Loud things.
`,
	})

	c, err := catalog.Load(context.Background(), dir)
	require.NoError(t, err)

	music, err := c.Lookup("music")
	require.NoError(t, err)
	assert.Len(t, music.Symbols, 4)
	assert.Equal(t, "#C62828", music.Colors.Front)
	assert.Contains(t, music.Description, "Loud things.")
}

func TestLoadDir_DuplicateName(t *testing.T) {
	theme := "---\nname: ocean\nsymbols: [\"🐙\", \"🐠\"]\n---\n"
	dir := testutils.SetupThemeDir(t, map[string]string{
		"ocean.md":  theme,
		"ocean2.md": theme,
	})

	_, err := catalog.LoadDir(context.Background(), dir)
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}
