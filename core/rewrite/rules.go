package rewrite

import (
	"fmt"
	"strings"

	"github.com/thingc24/carve/core/models"
)

// DefaultIndent is the member indentation of the entity sources.
const DefaultIndent = "    "

// Literal returns a rule that replaces match with replace verbatim.
func Literal(match, replace string) models.RewriteRule {
	label := match
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i] + "..."
	}
	return models.RewriteRule{
		Kind:    models.LiteralRule,
		Label:   label,
		Match:   match,
		Replace: replace,
	}
}

// ImportRemoval comments out the import of a type owned by another service.
func ImportRemoval(fqcn string) models.RewriteRule {
	stmt := fmt.Sprintf("import %s;", fqcn)
	return models.RewriteRule{
		Kind:    models.ImportRemovalRule,
		Label:   "import " + fqcn,
		Match:   stmt,
		Replace: fmt.Sprintf("// %s // Replaced with UUID", stmt),
	}
}

// FieldRef describes a @ManyToOne association to another service's entity.
type FieldRef struct {
	// Fetch is the FetchType constant, LAZY or EAGER.
	Fetch  string `yaml:"fetch,omitempty"`
	Column string `yaml:"column"`
	// Nullable omits "nullable = false" from the join and id columns.
	Nullable   bool   `yaml:"nullable,omitempty"`
	JSONIgnore bool   `yaml:"json_ignore,omitempty"`
	Type       string `yaml:"type"`
	Name       string `yaml:"name"`
	IDType     string `yaml:"id_type,omitempty"`
	IDName     string `yaml:"id_name,omitempty"`
	Indent     string `yaml:"indent,omitempty"`
}

func (f FieldRef) withDefaults() FieldRef {
	if f.Fetch == "" {
		f.Fetch = "LAZY"
	}
	if f.IDType == "" {
		f.IDType = "UUID"
	}
	if f.IDName == "" {
		f.IDName = f.Name + "Id"
	}
	if f.Indent == "" {
		f.Indent = DefaultIndent
	}
	return f
}

func (f FieldRef) columnAttrs() string {
	if f.Nullable {
		return fmt.Sprintf("name = %q", f.Column)
	}
	return fmt.Sprintf("name = %q, nullable = false", f.Column)
}

// FieldReplacement swaps the association block for a surrogate id column.
// The match covers the annotations and the declaration joined by a newline and
// the member indent; the first line carries no indent so the surrounding
// whitespace of the file is kept.
func FieldReplacement(f FieldRef) models.RewriteRule {
	f = f.withDefaults()
	sep := "\n" + f.Indent

	lines := []string{
		fmt.Sprintf("@ManyToOne(fetch = FetchType.%s)", f.Fetch),
		fmt.Sprintf("@JoinColumn(%s)", f.columnAttrs()),
	}
	if f.JSONIgnore {
		lines = append(lines, "@JsonIgnore")
	}
	lines = append(lines, fmt.Sprintf("private %s %s;", f.Type, f.Name))

	replacement := fmt.Sprintf("@Column(%s)", f.columnAttrs()) + sep +
		fmt.Sprintf("private %s %s;", f.IDType, f.IDName)

	return models.RewriteRule{
		Kind:    models.FieldReplacementRule,
		Label:   fmt.Sprintf("field %s %s", f.Type, f.Name),
		Match:   strings.Join(lines, sep),
		Replace: replacement,
	}
}

// Apply runs rules in order against content. fired[i] reports whether rule i
// matched the buffer as it stood when the rule ran. Text already equal to a
// rule's replacement is left alone, so Apply(Apply(x)) == Apply(x) even when
// the replacement embeds the match, as ImportRemoval's does.
func Apply(content string, rules []models.RewriteRule) (string, []bool) {
	fired := make([]bool, len(rules))
	for i, rule := range rules {
		content, fired[i] = applyRule(content, rule)
	}
	return content, fired
}

func applyRule(content string, rule models.RewriteRule) (string, bool) {
	if rule.Match == "" || !strings.Contains(content, rule.Match) {
		return content, false
	}
	if rule.Replace == "" || !strings.Contains(rule.Replace, rule.Match) {
		return strings.ReplaceAll(content, rule.Match, rule.Replace), true
	}

	parts := strings.Split(content, rule.Replace)
	fired := false
	for j, part := range parts {
		if strings.Contains(part, rule.Match) {
			parts[j] = strings.ReplaceAll(part, rule.Match, rule.Replace)
			fired = true
		}
	}
	return strings.Join(parts, rule.Replace), fired
}
