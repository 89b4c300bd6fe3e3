package render

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/browser"
)

// Opener opens a rendered artifact for the user.
type Opener interface {
	Open(path string) error
}

// SystemViewer opens files with the platform's default handler.
type SystemViewer struct{}

// Open hands path to the default browser or image viewer.
func (SystemViewer) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := browser.OpenFile(abs); err != nil {
		return fmt.Errorf("open %s: %w", abs, err)
	}
	return nil
}

// NopViewer skips opening; used when OPEN_OUTPUT is false.
type NopViewer struct{}

func (NopViewer) Open(string) error { return nil }
