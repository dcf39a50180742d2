package grammar

import (
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// SchemaEBNF renders the rule schema as an EBNF grammar. Every rule becomes a
// production named R<index>, listing its slots in order. Rule slots may hold
// any number of nodes, token slots are rendered as quoted slot names.
func (t *Tables) SchemaEBNF() string {
	var b strings.Builder
	for i, r := range t.Rules {
		b.WriteString(fmt.Sprintf("R%d =", i))
		for _, s := range r.Slots {
			if s.Rule == NoRule {
				name := s.Name
				if name == "" {
					name = "token"
				}
				b.WriteString(fmt.Sprintf(" [ %q ]", name))
			} else {
				b.WriteString(fmt.Sprintf(" { R%d }", s.Rule))
			}
		}
		b.WriteString(" .\n")
	}
	return b.String()
}

// VerifySchema checks that every rule a slot refers to exists and that every
// rule is reachable from the root rule.
func (t *Tables) VerifySchema() error {
	if int(t.Root) >= len(t.Rules) {
		return fmt.Errorf("%w: root rule %d out of range", ErrInvalidTables, t.Root)
	}
	src := t.SchemaEBNF()
	tracer().Debugf("schema of %q:\n%s", t.Name, src)
	g, err := ebnf.Parse(t.Name, strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTables, err)
	}
	if err := ebnf.Verify(g, fmt.Sprintf("R%d", t.Root)); err != nil {
		return fmt.Errorf("%w: rule schema not closed (%s): %v", ErrInvalidTables, t.ruleLegend(), err)
	}
	return nil
}

func (t *Tables) ruleLegend() string {
	names := make([]string, len(t.Rules))
	for i, r := range t.Rules {
		names[i] = fmt.Sprintf("R%d=%s", i, r.Name)
	}
	return strings.Join(names, ", ")
}
