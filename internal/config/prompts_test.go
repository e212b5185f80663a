package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shuheykoyama/tnap/internal/config"
	"github.com/shuheykoyama/tnap/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogTOML = `
[prompts]
cat = "A fluffy cat listening to music with headphones, watercolor"
city = "  Neon city at night, rain, cinematic  "
empty = ""
`

func TestLoadPrompts(t *testing.T) {
	catalog, err := config.LoadPrompts(createTestFile(t, "config-*.toml", catalogTOML))
	require.NoError(t, err)

	prompt, err := catalog.Lookup("cat")
	require.NoError(t, err)
	assert.Equal(t, "A fluffy cat listening to music with headphones, watercolor", prompt)

	prompt, err = catalog.Lookup("city")
	require.NoError(t, err)
	assert.Equal(t, "Neon city at night, rain, cinematic", prompt)

	_, err = catalog.Lookup("dog")
	assert.Equal(t, errors.PromptNotFound, errors.KindOf(err))

	_, err = catalog.Lookup("empty")
	assert.Equal(t, errors.PromptNotFound, errors.KindOf(err))

	assert.Equal(t, []string{"cat", "city", "empty"}, catalog.Keys())
}

func TestLoadPromptsErrors(t *testing.T) {
	_, err := config.LoadPrompts(filepath.Join(t.TempDir(), "config.toml"))
	assert.Equal(t, errors.ConfigNotFound, errors.KindOf(err))

	_, err = config.LoadPrompts(createTestFile(t, "config-*.toml", "[prompts\ncat = "))
	assert.True(t, errors.IsInvalidConfig(err))

	catalog, err := config.LoadPrompts(createTestFile(t, "config-*.toml", "title = \"no prompts\"\n"))
	require.NoError(t, err)
	assert.Empty(t, catalog.Keys())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TNAP_ENV_A=from-file\nTNAP_ENV_B=from-file\n"), 0o600))

	t.Setenv("TNAP_ENV_B", "preset")
	require.NoError(t, os.Unsetenv("TNAP_ENV_A"))
	t.Cleanup(func() { os.Unsetenv("TNAP_ENV_A") })

	require.NoError(t, config.LoadEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "from-file", os.Getenv("TNAP_ENV_A"))
	assert.Equal(t, "preset", os.Getenv("TNAP_ENV_B"))
}
