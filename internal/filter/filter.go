// Package filter implements the path-filter algebra from spec.md
// §4.D: an implicit-conjunction list of elements, where each element
// is either an explicit literal path, or one or more ||-joined atoms
// (key=value, key!=value, /regex/i) whose results union within the
// element.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mrferris/genesis/internal/plan"
)

// BadFilter reports a malformed filter atom.
type BadFilter struct {
	Atom    string
	Message string
}

func (e BadFilter) Error() string {
	return fmt.Sprintf("bad filter %q: %s", e.Atom, e.Message)
}

// Apply narrows set's ordered plans to those selected by elements,
// preserving the set's established order. An empty elements list
// selects every plan.
func Apply(set *plan.PlanSet, elements []string) (*plan.PlanSet, error) {
	if len(elements) == 0 {
		return set, nil
	}

	all := set.Ordered()

	var literalPaths []string
	var conjunctive [][]string // one []string per non-literal element, pre-split on "||"

	for _, element := range elements {
		if hasLiteralPlan(all, element) {
			literalPaths = append(literalPaths, element)
			continue
		}
		conjunctive = append(conjunctive, splitAtoms(element))
	}

	selected := make(map[string]bool)
	for _, p := range all {
		matchesAll := true
		for _, atoms := range conjunctive {
			matched, err := matchesAnyAtom(p, atoms)
			if err != nil {
				return nil, err
			}
			if !matched {
				matchesAll = false
				break
			}
		}
		if matchesAll && len(conjunctive) > 0 {
			selected[p.Path] = true
		}
	}

	for _, literal := range literalPaths {
		selected[literal] = true
	}

	result := plan.NewPlanSet()
	var order []string
	for _, p := range all {
		if selected[p.Path] {
			result.Add(p)
			order = append(order, p.Path)
		}
	}
	result.SetOrder(order)

	return result, nil
}

func hasLiteralPlan(plans []*plan.Plan, element string) bool {
	for _, p := range plans {
		if p.Path == element {
			return true
		}
	}
	return false
}

func splitAtoms(element string) []string {
	parts := strings.Split(element, "||")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func matchesAnyAtom(p *plan.Plan, atoms []string) (bool, error) {
	for _, atom := range atoms {
		matched, err := matchesAtom(p, atom)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func matchesAtom(p *plan.Plan, atom string) (bool, error) {
	switch {
	case strings.HasPrefix(atom, "/") || strings.HasPrefix(atom, "!/"):
		return matchesRegexAtom(p, atom)
	case strings.Contains(atom, "!="):
		key, value, _ := strings.Cut(atom, "!=")
		actual, ok := attribute(p, key)
		if !ok {
			return true, nil
		}
		return actual != value, nil
	case strings.Contains(atom, "="):
		key, value, _ := strings.Cut(atom, "=")
		actual, ok := attribute(p, key)
		if !ok {
			return false, nil
		}
		return actual == value, nil
	default:
		return false, BadFilter{Atom: atom, Message: "expected key=value, key!=value, or /regex/i"}
	}
}

func matchesRegexAtom(p *plan.Plan, atom string) (bool, error) {
	negate := strings.HasPrefix(atom, "!")
	body := strings.TrimPrefix(atom, "!")

	if !strings.HasPrefix(body, "/") {
		return false, BadFilter{Atom: atom, Message: "regex atom must start with /"}
	}

	end := strings.LastIndex(body, "/")
	if end <= 0 {
		return false, BadFilter{Atom: atom, Message: "unterminated regex"}
	}

	pattern := body[1:end]
	flags := body[end+1:]

	if flags != "" && flags != "i" {
		return false, BadFilter{Atom: atom, Message: "unsupported regex flags " + flags}
	}
	if flags == "i" {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, BadFilter{Atom: atom, Message: err.Error()}
	}

	matched := re.MatchString(p.Path)
	if negate {
		matched = !matched
	}
	return matched, nil
}

// attribute reads a named plan field by lowercase-insensitive name,
// supporting the handful of attributes a filter atom is likely to
// reference: path, kind, base_path, feature, fixed, is_ca.
func attribute(p *plan.Plan, key string) (string, bool) {
	switch strings.ToLower(key) {
	case "path":
		return p.Path, true
	case "kind", "type":
		return string(p.Kind), true
	case "base_path":
		return p.BasePath, true
	case "feature":
		return p.Feature, true
	case "fixed":
		return fmt.Sprintf("%v", p.Fixed), true
	case "is_ca":
		return fmt.Sprintf("%v", p.IsCA), true
	case "signed_by":
		return p.SignedBy, true
	default:
		return "", false
	}
}
