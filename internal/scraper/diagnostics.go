package scraper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Dumper writes captured markup to a directory for offline debugging. A
// Dumper with an empty directory does nothing.
type Dumper struct {
	dir    string
	logger *zap.Logger
}

func NewDumper(dir string, logger *zap.Logger) *Dumper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dumper{dir: strings.TrimSpace(dir), logger: logger}
}

func (d *Dumper) Enabled() bool {
	return d != nil && d.dir != ""
}

// Page stores the full captured document as {prefix}_response.html.
func (d *Dumper) Page(prefix, html string) string {
	return d.write(prefix+"_response.html", html)
}

// Card stores one failed card as {prefix}_failed_card_{index}.html.
func (d *Dumper) Card(prefix string, index int, fragment string) string {
	return d.write(fmt.Sprintf("%s_failed_card_%d.html", prefix, index), fragment)
}

func (d *Dumper) write(name, content string) string {
	if !d.Enabled() {
		return ""
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		d.logger.Warn("diagnostics dir unavailable", zap.String("dir", d.dir), zap.Error(err))
		return ""
	}
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		d.logger.Warn("diagnostics write failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	d.logger.Debug("diagnostics written", zap.String("path", path))
	return path
}
