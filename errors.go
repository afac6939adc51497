package doc2pdf

import (
	"errors"

	"github.com/alnah/go-doc2pdf/internal/layout"
	"github.com/alnah/go-doc2pdf/internal/offscreen"
	"github.com/alnah/go-doc2pdf/internal/styled"
)

// Sentinel errors for library operations.
var (
	ErrIngestion         = errors.New("failed to read document")
	ErrRender            = errors.New("rendering failed")
	ErrPersist           = errors.New("failed to write PDF")
	ErrBusy              = errors.New("a conversion is already in progress")
	ErrInvalidTransition = errors.New("invalid job state transition")

	// Decoding errors. Every *styled.DecodeError matches ErrDecode.
	ErrDecode = styled.ErrDecode

	// Layout errors.
	ErrInvalidGeometry = layout.ErrInvalidGeometry

	// Browser errors.
	ErrBrowserConnect    = offscreen.ErrBrowserConnect
	ErrPageCreate        = offscreen.ErrPageCreate
	ErrPageLoad          = offscreen.ErrPageLoad
	ErrPDFGeneration     = offscreen.ErrPDFGeneration
	ErrOfficeUnavailable = offscreen.ErrOfficeUnavailable
)

// errZeroPages is reported when the renderer lays a document out on no pages.
var errZeroPages = errors.New("document reported 0 pages")

// Stage names the pipeline step a rendering failure happened in.
type Stage string

// Rendering stages.
const (
	StageDecode     Stage = "decode"
	StageLayout     Stage = "layout"
	StageTempWrite  Stage = "tempWrite"
	StageNavigation Stage = "navigation"
	StageSettle     Stage = "settle"
	StageZeroPages  Stage = "zeroPages"
	StagePrint      Stage = "print"
	StageTimeout    Stage = "timeout"
	StageInternal   Stage = "internal"
)

// RenderError is a failure inside a rendering strategy. It matches
// ErrRender and unwraps to the underlying cause.
type RenderError struct {
	Stage Stage
	Err   error
}

func (e *RenderError) Error() string {
	return "rendering failed at " + string(e.Stage) + ": " + e.Err.Error()
}

// Is reports whether target is ErrRender.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Reason converts the error to the FailureReason printed on fallback pages.
func (e *RenderError) Reason() FailureReason {
	return FailureReason{Stage: e.Stage, Message: e.Err.Error()}
}

// FailureReason explains why a document was replaced by a fallback page.
type FailureReason struct {
	Stage   Stage
	Message string
}

// String returns "<stage>: <message>".
func (r FailureReason) String() string {
	return string(r.Stage) + ": " + r.Message
}

// reasonFor classifies any rendering error. Errors that are not a
// *RenderError are reported as internal failures.
func reasonFor(err error) FailureReason {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Reason()
	}
	return FailureReason{Stage: StageInternal, Message: err.Error()}
}
