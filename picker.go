package doc2pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// MaxDocumentSize is the largest file FilePicker reads (100 MiB).
const MaxDocumentSize = 100 << 20

// Picker supplies the document to convert.
type Picker interface {
	// Pick returns the document, or an error matching ErrIngestion when its
	// bytes cannot be obtained.
	Pick(ctx context.Context) (PickedDocument, error)
}

var _ Picker = FilePicker{}

// FilePicker reads a document from disk. The extension of Path is the
// type hint.
type FilePicker struct {
	Path string
}

// Pick implements Picker.
func (p FilePicker) Pick(ctx context.Context) (PickedDocument, error) {
	if err := ctx.Err(); err != nil {
		return PickedDocument{}, err
	}

	info, err := os.Stat(p.Path)
	if err != nil {
		return PickedDocument{}, fmt.Errorf("%w: %w", ErrIngestion, err)
	}
	if info.IsDir() {
		return PickedDocument{}, fmt.Errorf("%w: %s is a directory", ErrIngestion, p.Path)
	}
	if info.Size() > MaxDocumentSize {
		return PickedDocument{}, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrIngestion, p.Path, info.Size(), MaxDocumentSize)
	}

	data, err := os.ReadFile(p.Path) // #nosec G304 -- user-provided path
	if err != nil {
		return PickedDocument{}, fmt.Errorf("%w: %w", ErrIngestion, err)
	}

	name := filepath.Base(p.Path)
	return NewPickedDocument(name, filepath.Ext(name), data), nil
}
