package doc2pdf

// PDFOutput is a finished PDF document in memory.
type PDFOutput struct {
	Bytes      []byte
	PageCount  int
	SourceName string
}

// Result describes a saved conversion.
type Result struct {
	// Path is the written PDF.
	Path string
	// BytesWritten is the size of the written PDF.
	BytesWritten int
	PageCount    int

	// Fallback is true when rendering failed and Path holds the single
	// diagnostic page instead. Reason then says why.
	Fallback bool
	Reason   *FailureReason
	// Cause is the rendering error behind Reason, for classification with
	// errors.Is.
	Cause error

	JobID string
}
