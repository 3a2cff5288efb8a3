package models

import "fmt"

// RuleKind records which builder produced a rule. Every kind is applied the
// same way, as a literal whole-buffer substitution.
type RuleKind int

const (
	LiteralRule RuleKind = iota
	ImportRemovalRule
	FieldReplacementRule
)

func (k RuleKind) String() string {
	switch k {
	case LiteralRule:
		return "literal"
	case ImportRemovalRule:
		return "import"
	case FieldReplacementRule:
		return "field"
	default:
		return "unknown"
	}
}

type RewriteRule struct {
	Kind    RuleKind
	Label   string
	Match   string
	Replace string
}

func (r RewriteRule) Validate() error {
	if r.Match == "" {
		return fmt.Errorf("rule %q has an empty match pattern", r.Label)
	}
	return nil
}

// PlanEntry holds the rules for one file. Target is relative to the
// destination root, in the same form as CopyRecord.RelativePath.
type PlanEntry struct {
	Target string
	Rules  []RewriteRule
}

type RewritePlan struct {
	Entries []PlanEntry
}

func (p RewritePlan) Validate() error {
	seen := make(map[string]bool)
	for _, e := range p.Entries {
		if e.Target == "" {
			return fmt.Errorf("plan entry has an empty target")
		}
		if seen[e.Target] {
			return fmt.Errorf("plan target %s declared twice", e.Target)
		}
		seen[e.Target] = true
		for _, r := range e.Rules {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("plan target %s: %w", e.Target, err)
			}
		}
	}
	return nil
}

// RuleCount returns the number of rules across all entries.
func (p RewritePlan) RuleCount() int {
	n := 0
	for _, e := range p.Entries {
		n += len(e.Rules)
	}
	return n
}

type RewriteOutcome struct {
	Target       string
	RulesApplied int
	Changed      bool
	// Skipped is set when the target was not produced by the copy phase.
	Skipped bool
	// Fired is indexed like the entry's rules.
	Fired []bool
	// Unfired lists rules that did not match and whose replacement is not
	// already present, which points at drift between catalog and source.
	Unfired []int
	Err     error
	// Diff is only filled in preview mode.
	Diff string
}

// UnfiredRule identifies a rule that matched nothing in a processed file.
type UnfiredRule struct {
	Target string
	Index  int
	Label  string
}

func (u UnfiredRule) String() string {
	return fmt.Sprintf("%s rule #%d (%s)", u.Target, u.Index+1, u.Label)
}
