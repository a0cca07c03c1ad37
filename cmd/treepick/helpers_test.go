package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hayeah/treepick/internal/config"
)

const sampleListing = `src
├── App.js
├── components
    ├── Button.js
    └── Modal.js
└── index.js`

// testEnv is an AppEnv reading stdin from the given text and capturing
// output.
type testEnv struct {
	*AppEnv
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestEnv(stdin string) *testEnv {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		AppEnv: &AppEnv{
			Config: config.Default(),
			Logger: slog.New(slog.DiscardHandler),
			Stdin:  strings.NewReader(stdin),
			Stdout: out,
			Stderr: errOut,
		},
		out: out,
		err: errOut,
	}
}

func (e *testEnv) lines() []string {
	s := strings.TrimSuffix(e.out.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func createTestDirectory(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()
	for relPath, content := range files {
		path := filepath.Join(tempDir, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return tempDir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
