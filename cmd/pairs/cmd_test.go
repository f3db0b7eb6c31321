package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/aretw0/pairs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pairs version "+strings.TrimSpace(pairs.Version)+" ("), out)
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersion_Short(t *testing.T) {
	t.Cleanup(func() { _ = versionCmd.Flags().Set("short", "false") })

	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(pairs.Version)+"\n", out)
}

func TestEnvLs(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := run(t, "env", "ls")
	require.NoError(t, err)
	for _, name := range []string{"fruits", "birds", "cars", "clothes", "electronics", "animals", "nature"} {
		assert.Contains(t, out, name)
	}
}

func TestSessionCommands_FileStore(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	sessions := filepath.Join(dir, "sessions")
	require.NoError(t, os.MkdirAll(sessions, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sessions, "abc.json"),
		[]byte(`{"session_id":"abc","environment":"fruits","deck":["a","a"],"flipped":[],"matched":[],"moves":0}`), 0644))

	flags := []string{"--store-driver", "file", "--store-path", sessions}

	out, err := run(t, append([]string{"session", "ls"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "- abc")

	out, err = run(t, append([]string{"session", "inspect", "abc"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"environment": "fruits"`)

	out, err = run(t, append([]string{"session", "rm", "--all"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'abc'")
}
