// Package combine writes the contents of selected files into one text
// artifact.
package combine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/hayeah/treepick/internal/metrics"
)

// Writer combines files found below BaseDir.
type Writer struct {
	BaseDir string
	Metrics *metrics.OutputMetrics // optional
	Logger  *slog.Logger
}

// NewWriter creates a Writer resolving paths against baseDir.
func NewWriter(baseDir string, m *metrics.OutputMetrics, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{BaseDir: baseDir, Metrics: m, Logger: logger}
}

// Write emits one fenced block per selected file, in the given order. Folders
// and binary files are skipped. Files that can't be read are skipped too; their
// errors are returned together once every other file has been written.
func (cw *Writer) Write(w io.Writer, paths []string) (int, error) {
	var errs *multierror.Error
	written := 0

	for _, p := range paths {
		full := filepath.Join(cw.BaseDir, filepath.FromSlash(strings.TrimSuffix(p, "/")))

		info, err := os.Stat(full)
		if err != nil {
			cw.Logger.Warn("skip unreadable selection", "path", p, "error", err)
			errs = multierror.Append(errs, fmt.Errorf("failed to stat file %s: %w", p, err))
			continue
		}
		if info.IsDir() {
			continue
		}

		content, err := os.ReadFile(full)
		if err != nil {
			cw.Logger.Warn("skip unreadable selection", "path", p, "error", err)
			errs = multierror.Append(errs, fmt.Errorf("failed to read file %s: %w", p, err))
			continue
		}
		if IsBinaryFile(content) {
			cw.Logger.Debug("skip binary file", "path", p)
			continue
		}

		if err := writeBlock(w, p, content); err != nil {
			return written, err
		}
		written++
		if cw.Metrics != nil {
			cw.Metrics.Add(metrics.KindFile, p, content)
		}
	}

	return written, errs.ErrorOrNil()
}

func writeBlock(w io.Writer, path string, content []byte) error {
	if _, err := fmt.Fprintf(w, "File: %s\n```%s\n", path, Language(path)); err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		return err
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "```\n\n")
	return err
}

var languages = map[string]string{
	".go":   "go",
	".js":   "javascript",
	".jsx":  "javascript",
	".py":   "python",
	".rb":   "ruby",
	".java": "java",
	".c":    "cpp",
	".cpp":  "cpp",
	".h":    "cpp",
	".hpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
	".ts":   "typescript",
	".tsx":  "typescript",
	".html": "html",
	".css":  "css",
	".md":   "markdown",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".sh":   "bash",
	".bash": "bash",
	".sql":  "sql",
}

// Language returns the code fence language for a file name, or "".
func Language(path string) string {
	return languages[strings.ToLower(filepath.Ext(path))]
}

// IsBinaryFile samples the first 100 runes and reports content as binary when
// more than 10% of them are not printable.
func IsBinaryFile(content []byte) bool {
	const sampleSize = 100
	var nonPrintable, total int
	for i := 0; i < len(content) && total < sampleSize; {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError || (!unicode.IsPrint(r) && !unicode.IsSpace(r)) {
			nonPrintable++
		}
		i += size
		total++
	}
	if total == 0 {
		return false
	}
	return float64(nonPrintable)/float64(total) > 0.1
}

// OutputName returns the file name for a combined artifact: fallback when name
// is blank, and name with ext appended when it doesn't already end in ext
// (compared case-insensitively).
func OutputName(name, fallback, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallback
	}
	if ext != "" && !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		name += ext
	}
	return name
}
