package config

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shuheykoyama/tnap/internal/errors"
)

// PromptCatalog maps short keys to full generation prompts. It is read from
// the [prompts] table of a TOML file.
type PromptCatalog struct {
	Prompts map[string]string `toml:"prompts"`
}

// LoadPrompts reads the catalog at path.
func LoadPrompts(path string) (*PromptCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError("prompt catalog not found", path, errors.ConfigNotFound, err)
		}
		return nil, errors.NewConfigError("read prompt catalog", path, errors.InvalidConfig, err)
	}

	var catalog PromptCatalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, errors.NewConfigError("parse prompt catalog", path, errors.InvalidConfig, err)
	}
	if catalog.Prompts == nil {
		catalog.Prompts = map[string]string{}
	}
	return &catalog, nil
}

// Lookup returns the prompt stored under key.
func (p *PromptCatalog) Lookup(key string) (string, error) {
	prompt, ok := p.Prompts[key]
	if !ok || strings.TrimSpace(prompt) == "" {
		return "", errors.NewConfigError("no prompt for key "+key, "prompts."+key, errors.PromptNotFound, nil)
	}
	return strings.TrimSpace(prompt), nil
}

// Keys returns the catalog keys sorted.
func (p *PromptCatalog) Keys() []string {
	keys := make([]string, 0, len(p.Prompts))
	for k := range p.Prompts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadEnv loads KEY=VALUE pairs from the given dotenv files into the process
// environment. Missing files are skipped and variables that are already set
// win.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.NewConfigError("load env file", path, errors.InvalidConfig, err)
		}
	}
	return nil
}
