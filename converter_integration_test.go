//go:build integration

package doc2pdf_test

// Notes:
// - Requires Chrome or Chromium (rod downloads one if missing) and, for the
//   office test, LibreOffice on PATH.
// - The .docx fixture is assembled with archive/zip at test time.

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	doc2pdf "github.com/alnah/go-doc2pdf"
	"github.com/alnah/go-doc2pdf/internal/pdfinfo"
)

const integrationTimeout = 2 * time.Minute

var minimalDocx = map[string]string{
	"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
	"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
	"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Hello from a word processor</w:t></w:r></w:p></w:body>
</w:document>`,
}

func buildDocx(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range minimalDocx {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newIntegrationConverter(t *testing.T) *doc2pdf.Converter {
	t.Helper()

	c, err := doc2pdf.NewConverter(
		doc2pdf.WithTimeout(integrationTimeout),
		doc2pdf.WithNoSandbox(os.Getenv("CI") == "true"),
	)
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestIntegration_WordDocument(t *testing.T) {
	if _, err := exec.LookPath("soffice"); err != nil {
		t.Skip("LibreOffice (soffice) not installed")
	}

	c := newIntegrationConverter(t)
	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	doc := doc2pdf.NewPickedDocument("hello.docx", "docx", buildDocx(t))
	res, err := c.Convert(ctx, doc, t.TempDir())
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if res.Fallback {
		t.Fatalf("unexpected fallback: %v", res.Reason)
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	pages, err := pdfinfo.PageCount(data)
	if err != nil {
		t.Fatalf("output unreadable: %v", err)
	}
	if pages < 1 || pages != res.PageCount {
		t.Errorf("pages = %d, reported %d", pages, res.PageCount)
	}
}

func TestIntegration_WordDocumentWithoutOfficeFallsBack(t *testing.T) {
	c, err := doc2pdf.NewConverter(
		doc2pdf.WithTimeout(integrationTimeout),
		doc2pdf.WithOfficeBin("definitely-not-libreoffice"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	res, err := c.Convert(ctx, doc2pdf.NewPickedDocument("hello.docx", "docx", buildDocx(t)), t.TempDir())
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if !res.Fallback || res.Reason.Stage != doc2pdf.StageNavigation {
		t.Errorf("Fallback = %v, Reason = %v, want navigation fallback", res.Fallback, res.Reason)
	}
}
