package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hayeah/treepick/internal/assert"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_TOML(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, t.TempDir(), "treepick.toml", `
output_name = "bundle"
token_estimator = "tiktoken"
exclude = ["node_modules/", "*.lock"]
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal("bundle", cfg.OutputName)
	assert.Equal("tiktoken", cfg.TokenEstimator)
	assert.Equal([]string{"node_modules/", "*.lock"}, cfg.Exclude)
	assert.Equal(".", cfg.BaseDir, "unset keys keep defaults")
	assert.Equal("warn", cfg.LogLevel)
	assert.Equal(path, cfg.Path)
}

func TestLoadFile_HuJSON(t *testing.T) {
	assert := assert.New(t)

	path := writeFile(t, t.TempDir(), "treepick.jsonc", `{
	// preselect sources
	"select": "src/**/*.js",
	"base_dir": "..", // trailing comma below
}`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal("src/**/*.js", cfg.Select)
	assert.Equal("..", cfg.BaseDir)
	assert.Equal("output.txt", cfg.OutputName)
}

func TestLoadFile_Errors(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	_, err := LoadFile(writeFile(t, dir, "a.toml", `colour = "blue"`))
	assert.ErrorContains(err, `unknown config key "colour"`)

	_, err = LoadFile(writeFile(t, dir, "b.json", `{"colour": "blue"}`))
	assert.ErrorContains(err, "colour")

	_, err = LoadFile(writeFile(t, dir, "c.toml", `output_name = `))
	assert.ErrorContains(err, "failed to parse config")

	_, err = LoadFile(writeFile(t, dir, "d.yaml", `x: 1`))
	assert.ErrorContains(err, "unsupported config format")
}

func TestLoad_Discovery(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(Default(), cfg)

	writeFile(t, dir, "treepick.json", `{"output_name": "from-json"}`)
	writeFile(t, dir, ".treepick.toml", `output_name = "from-toml"`)
	cfg, err = Load("", dir)
	require.NoError(t, err)
	assert.Equal("from-toml", cfg.OutputName)

	explicit := writeFile(t, t.TempDir(), "other.toml", `output_name = "explicit"`)
	cfg, err = Load(explicit, dir)
	require.NoError(t, err)
	assert.Equal("explicit", cfg.OutputName)

	_, err = Load(filepath.Join(dir, "missing.toml"), dir)
	assert.Error(err)
}
