package ignore

// RuleSet is an ordered, append-only sequence of rules evaluated with
// gitignore last-match-wins semantics.
//
// Sets are structurally shared: Extend returns a child set holding only the
// new rules plus a pointer to its parent, so handing a set down a recursion
// costs nothing per level and sibling directories never see each other's
// local rules.
type RuleSet struct {
	parent *RuleSet
	rules  []Rule
}

// NewRuleSet creates a root-level rule set.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Extend returns a set consisting of the receiver's rules followed by the
// given rules. The receiver is not modified. Extending with no rules
// returns the receiver itself.
func (s *RuleSet) Extend(rules []Rule) *RuleSet {
	if len(rules) == 0 {
		return s
	}
	return &RuleSet{parent: s, rules: rules}
}

// Len returns the total number of rules in the set, ancestors included.
func (s *RuleSet) Len() int {
	n := 0
	for cur := s; cur != nil; cur = cur.parent {
		n += len(cur.rules)
	}
	return n
}

// Rules returns the rules in evaluation order (ancestors first).
func (s *RuleSet) Rules() []Rule {
	out := make([]Rule, 0, s.Len())
	var collect func(cur *RuleSet)
	collect = func(cur *RuleSet) {
		if cur == nil {
			return
		}
		collect(cur.parent)
		out = append(out, cur.rules...)
	}
	collect(s)
	return out
}

// Match reports whether the root-relative POSIX path is excluded by the
// set. Rules are evaluated in order and the last matching rule wins; a
// negated rule flips the verdict back to "not excluded". Matching never
// panics out of a traversal: a rule that blows up counts as no match.
func (s *RuleSet) Match(relPath string, isDir bool) bool {
	excluded := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				excluded = false
			}
		}()
		_, excluded = s.decide(relPath, isDir)
	}()
	return excluded
}

// decide evaluates ancestors before local rules so later rules override
// earlier ones regardless of which directory contributed them.
func (s *RuleSet) decide(relPath string, isDir bool) (matched, excluded bool) {
	if s == nil {
		return false, false
	}
	matched, excluded = s.parent.decide(relPath, isDir)
	for _, rule := range s.rules {
		if rule.Match(relPath, isDir) {
			matched = true
			excluded = !rule.Negated
		}
	}
	return matched, excluded
}
