package web_test

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/aretw0/pairs/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tmpl, err := web.Templates()
	require.NoError(t, err)

	envs := domain.DefaultCatalog().All()

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "environment.html", map[string]any{"Environments": envs}))
	for _, env := range envs {
		assert.Contains(t, buf.String(), "/index?environment="+env.Name)
	}

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "index.html", map[string]any{"Environment": envs[0]}))
	assert.Contains(t, buf.String(), `data-environment="fruits"`)
	assert.Contains(t, buf.String(), envs[0].Colors.Front)

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "welcome.html", nil))
	assert.Contains(t, buf.String(), `href="/environment"`)
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"js/script.js", "css/style.css"} {
		_, err := fs.Stat(web.Static(), name)
		assert.NoError(t, err, name)
	}
}
