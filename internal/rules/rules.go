// Package rules loads the declarative territory rule table.
//
// The table used to be a stack of hand-written conditionals duplicated across
// handler variants; here it is data. Declaration order in the file is
// evaluation order, so narrow territories (a single city, a tight radius)
// must be listed before the broad state-wide rules that would mask them.
package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/brastec/rep-locator/internal/domain"
)

//go:embed default_rules.json
var defaultRules []byte

// Default returns the embedded production rule table.
func Default() (domain.RuleTable, error) {
	return parse(defaultRules)
}

// Load reads a rule table from path, or the embedded default when path is
// empty.
func Load(path string) (domain.RuleTable, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (domain.RuleTable, error) {
	var table domain.RuleTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("rule table is empty")
	}

	for i := range table {
		if err := validate(&table[i]); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, table[i].Name, err)
		}
	}
	return table, nil
}

func validate(r *domain.Rule) error {
	if r.Name == "" {
		return fmt.Errorf("missing name")
	}
	if r.Assignee.Name == "" || r.Assignee.WhatsApp == "" {
		return fmt.Errorf("missing assignee")
	}
	if r.Center != nil && r.RadiusKm <= 0 {
		return fmt.Errorf("center without a positive radius_km")
	}
	if r.RequireAll && (r.Center == nil || len(r.Cities) == 0) {
		return fmt.Errorf("require_all needs both cities and a center")
	}
	for i, s := range r.States {
		s = strings.ToUpper(strings.TrimSpace(s))
		if len(s) != 2 {
			return fmt.Errorf("state %q is not a two-letter UF code", s)
		}
		r.States[i] = s
	}
	return nil
}
