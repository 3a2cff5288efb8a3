package models

type CopyOutcome string

const (
	Copied        CopyOutcome = "copied"
	SourceMissing CopyOutcome = "source_missing"
)

type CopyRecord struct {
	RelativePath string
	Group        string
	File         string
	Outcome      CopyOutcome
}

// CopiedSet returns the relative paths of every record that was copied.
func CopiedSet(records []CopyRecord) map[string]bool {
	set := make(map[string]bool, len(records))
	for _, r := range records {
		if r.Outcome == Copied {
			set[r.RelativePath] = true
		}
	}
	return set
}

// CountOutcomes returns the copied and skipped totals.
func CountOutcomes(records []CopyRecord) (copied, skipped int) {
	for _, r := range records {
		switch r.Outcome {
		case Copied:
			copied++
		case SourceMissing:
			skipped++
		}
	}
	return copied, skipped
}
