package letter

// Method records how a cover letter was produced.
type Method string

const (
	// MethodModel means the letter was extracted from model output.
	MethodModel Method = "model"
	// MethodFallback means generation or extraction failed and the
	// deterministic fallback letter was used.
	MethodFallback Method = "fallback"
)

// Result is a formatted cover letter plus provenance.
type Result struct {
	Text   string
	Method Method
	Reason string // Failure reason when Method is MethodFallback
}
