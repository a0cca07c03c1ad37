package combine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/treepick/internal/assert"
	"github.com/hayeah/treepick/internal/metrics"
)

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

func TestWriter_Write(t *testing.T) {
	assert := assert.New(t)

	base := createTestDirectory(t, map[string]string{
		"src/App.js":               "console.log('app')",
		"src/components/Button.js": "export default 1;\n",
		"src/logo.bin":             "\x00\x01\x02\x03\x04\x05",
	})

	m := metrics.NewOutputMetrics(metrics.SimpleCounter{}, 2)
	cw := NewWriter(base, m, nil)

	var sb strings.Builder
	n, err := cw.Write(&sb, []string{
		"src",
		"src/App.js",
		"src/components/",
		"src/components/Button.js",
		"src/logo.bin",
	})
	assert.NoError(err)
	assert.Equal(2, n)
	assert.Equal("File: src/App.js\n"+
		"```javascript\n"+
		"console.log('app')\n"+
		"```\n\n"+
		"File: src/components/Button.js\n"+
		"```javascript\n"+
		"export default 1;\n"+
		"```\n\n", sb.String())

	m.Wait()
	assert.Equal([]string{"src/App.js", "src/components/Button.js"}, m.Names(metrics.KindFile))
}

func TestWriter_MissingFiles(t *testing.T) {
	assert := assert.New(t)

	base := createTestDirectory(t, map[string]string{"a.txt": "a\n"})
	cw := NewWriter(base, nil, nil)

	var sb strings.Builder
	n, err := cw.Write(&sb, []string{"gone.txt", "a.txt", "also/gone.md"})
	assert.Equal(1, n)
	assert.Equal("File: a.txt\n```\na\n```\n\n", sb.String())

	merr, ok := err.(*multierror.Error)
	if assert.True(ok, "expected a multierror, got %T", err) {
		assert.Len(merr.Errors, 2)
		assert.ErrorContains(merr.Errors[0], "gone.txt")
		assert.ErrorContains(merr.Errors[1], "also/gone.md")
	}
}

func TestIsBinaryFile(t *testing.T) {
	assert := assert.New(t)

	assert.False(IsBinaryFile(nil))
	assert.False(IsBinaryFile([]byte("plain text\nwith lines\t")))
	assert.False(IsBinaryFile([]byte("héllo wörld")))
	assert.True(IsBinaryFile([]byte{0x00, 0x01, 0x02, 'a', 'b'}))
	assert.True(IsBinaryFile([]byte{0xff, 0xfe, 0xfd}))
}

func TestLanguage(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("go", Language("main.go"))
	assert.Equal("javascript", Language("src/App.JS"))
	assert.Equal("", Language("Makefile"))
}

func TestOutputName(t *testing.T) {
	cases := []struct {
		name, in, fallback, ext, want string
	}{
		{"default", "", "output.pdf", ".pdf", "output.pdf"},
		{"blank", "   ", "output.txt", ".txt", "output.txt"},
		{"append", "report", "output.pdf", ".pdf", "report.pdf"},
		{"keep", "report.pdf", "output.pdf", ".pdf", "report.pdf"},
		{"case insensitive", "REPORT.PDF", "output.pdf", ".pdf", "REPORT.PDF"},
		{"other extension", "notes.txt", "output.pdf", ".pdf", "notes.txt.pdf"},
		{"no extension rule", "combined", "output", "", "combined"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.New(t).Equal(tc.want, OutputName(tc.in, tc.fallback, tc.ext))
		})
	}
}
