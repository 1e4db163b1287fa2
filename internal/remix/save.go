package remix

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileName is the download name for a result: the title with whitespace
// runs replaced by underscores, then a kind suffix
func FileName(title string, kind Kind) string {
	base := strings.Join(strings.Fields(title), "_")
	base = strings.NewReplacer("/", "_", "\\", "_").Replace(base)
	if base == "" {
		base = "untitled"
	}
	switch kind {
	case KindTeaser:
		return base + "_teaser.mp4"
	default:
		return base + "_poster.png"
	}
}

// Save writes res under dir and returns the file path
func Save(fs afero.Fs, dir, title string, res Result) (string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(title, res.Kind))
	if err := afero.WriteFile(fs, path, res.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
