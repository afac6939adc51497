// Package doc2pdf converts user documents (word-processor, presentation,
// rich-text and plain-text files) to paginated PDF files on local storage.
//
// # Quick Start
//
// Create a converter, convert a file, and close when done:
//
//	conv, err := doc2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.ConvertFile(ctx, "notes.rtf", "out")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Path, result.PageCount)
//
// Documents that are already in memory go through Convert:
//
//	doc := doc2pdf.NewPickedDocument("notes.txt", "txt", data)
//	result, err := conv.Convert(ctx, doc, "out")
//
// # Conversion Pipeline
//
// Each conversion is a RenderJob that moves through these stages:
//
//  1. Dispatch: the document's Kind, fixed when the PickedDocument is built,
//     selects a strategy (see StrategyFor).
//  2. Render: plain and rich text are decoded and typeset with gofpdf on US
//     Letter pages with one-inch margins. Word-processor and presentation
//     files are exported to HTML by LibreOffice, loaded in headless Chrome
//     (go-rod) and printed with half-inch margins.
//  3. Fallback: if rendering fails at any stage, a single page naming the
//     file, its size and the failure reason replaces the document.
//  4. Save: the PDF is written atomically as <stem>.pdf in the destination
//     directory.
//
// Rendering failures never surface as errors; Result.Fallback and
// Result.Reason report them. Errors are returned only for cancellation,
// ErrBusy, ErrIngestion and ErrPersist.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := doc2pdf.NewConverter(
//	    doc2pdf.WithTimeout(2 * time.Minute),
//	    doc2pdf.WithSettleTimeout(10 * time.Second),
//	    doc2pdf.WithScratchDir("/var/tmp/doc2pdf"),
//	    doc2pdf.WithFlightPolicy(doc2pdf.RejectWhenBusy),
//	)
//
// # Concurrency
//
// A Converter runs one conversion at a time. Under PreemptActive (the
// default) a new Convert call cancels the running one and waits for it to
// release the browser page; under RejectWhenBusy it fails with ErrBusy.
// Cancelled conversions return the context error and write nothing.
//
// # Requirements
//
// Word-processor and presentation files need Chrome or Chromium and
// LibreOffice (soffice). Text and RTF files need neither.
package doc2pdf
