package diag

// Severity says what a diagnostic means for the file it is attached to.
type Severity uint8

const (
	// SevInfo notes a choice made on the user's behalf, such as running an
	// explicit fixer because it was named on the command line.
	SevInfo Severity = iota
	// SevWarning leaves the rewrite in place: an iteration cap was hit or
	// the verdict cache could not be used.
	SevWarning
	// SevError marks code pyfix could not rewrite. Lex, parse and I/O errors
	// fail the whole file; a failed fixer only leaves its subtree unchanged.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
