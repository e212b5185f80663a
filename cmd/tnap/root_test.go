package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	alsrt "github.com/alecthomas/assert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuheykoyama/tnap/internal/testutil"
)

// writeConfig creates a config file rooted in a temp dir and returns its path.
func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	themes := filepath.Join(root, "themes")
	catalog := testutil.WriteFile(t, root, "config.toml",
		"[prompts]\ncat = \"a cat wearing headphones\"\nrobot = \"a robot reading a book\"\n")
	yaml := fmt.Sprintf("themes:\n  dir: %s\nprompts:\n  catalog: %s\nlogging:\n  file: %s\n",
		themes, catalog, filepath.Join(root, "tnap.log"))
	return testutil.WriteFile(t, root, "config.yaml", yaml), themes
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestThemesCommand(t *testing.T) {
	cfgPath, themes := writeConfig(t)
	testutil.WritePNG(t, filepath.Join(themes, "cat"), "cat_01.png", 2, 2)
	testutil.WritePNG(t, filepath.Join(themes, "cat"), "cat_02.png", 2, 2)
	testutil.WritePNG(t, filepath.Join(themes, "notatheme"), "other.png", 2, 2)

	out, err := execute(t, "--config", cfgPath, "themes")
	require.NoError(t, err)
	alsrt.Contains(t, out, "Theme")
	alsrt.Contains(t, out, "cat")
	assert.NotContains(t, out, "notatheme")
}

func TestThemesCommandEmpty(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	out, err := execute(t, "--config", cfgPath, "themes")
	require.NoError(t, err)
	alsrt.Contains(t, out, "No themes in")
}

func TestPromptsCommand(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	out, err := execute(t, "--config", cfgPath, "prompts")
	require.NoError(t, err)
	alsrt.Contains(t, out, "robot")
	alsrt.Contains(t, out, "a cat wearing headphones")
}

func TestSourceFlagsAreExclusive(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	_, err := execute(t, "--config", cfgPath, "--theme", "cat", "--prompt", "a cat")
	require.Error(t, err)
}

func TestRejectsPositionalArgs(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	_, err := execute(t, "--config", cfgPath, "cat")
	require.Error(t, err)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	alsrt.Contains(t, out, version)
}
