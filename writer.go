package doc2pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-doc2pdf/internal/fileutil"
)

// defaultStem names outputs whose source name has no usable stem.
const defaultStem = "document"

// Permissions for written outputs.
const (
	outputDirPerm  = 0o750
	outputFilePerm = 0o644
)

// OutputPath returns destDir/<stem>.pdf for a source name. Directory parts
// of sourceName are ignored.
func OutputPath(sourceName, destDir string) string {
	stem := PickedDocument{SourceName: sourceName}.Stem()
	if strings.Trim(stem, ". ") == "" {
		stem = defaultStem
	}
	return filepath.Join(destDir, stem+".pdf")
}

// WritePDF saves out as <stem>.pdf in destDir, creating destDir when
// missing and replacing an existing file atomically. Errors match
// ErrPersist.
func WritePDF(out *PDFOutput, destDir string) (string, error) {
	if out == nil {
		return "", fmt.Errorf("%w: no output to write", ErrPersist)
	}

	if destDir == "" {
		destDir = "."
	}
	if err := os.MkdirAll(destDir, outputDirPerm); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPersist, err)
	}

	path := OutputPath(out.SourceName, destDir)
	if err := fileutil.WriteFileAtomic(path, out.Bytes, outputFilePerm); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return path, nil
}
