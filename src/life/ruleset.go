package life

import (
	"strings"
)

// MaxNeighbors is the largest possible live-neighbor count on a
// 2D grid with 8-connectivity.
const MaxNeighbors = 8

// RuleSet is a birth/survival policy: it maps the pair (currently alive,
// live neighbor count) to the cell's next state. Both sets hold neighbor
// counts in [0,8]; membership is what matters, order and duplicates do not.
type RuleSet struct {
	birth    [MaxNeighbors + 1]bool
	survival [MaxNeighbors + 1]bool
}

// NewRuleSet builds a rule set from birth and survival neighbor counts.
// Every count must lie in [0,8].
func NewRuleSet(birth, survival []int) (*RuleSet, error) {
	r := &RuleSet{}
	if err := r.SetBirth(birth); err != nil {
		return nil, err
	}
	if err := r.SetSurvival(survival); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultRules returns Conway's classic B3/S23 rules.
func DefaultRules() *RuleSet {
	r, _ := NewRuleSet([]int{3}, []int{2, 3})
	return r
}

// Evaluate returns the next state for a cell with the given current state
// and live-neighbor count. The count must lie in [0,8].
func (r *RuleSet) Evaluate(alive bool, neighbors int) (bool, error) {
	if neighbors < 0 || neighbors > MaxNeighbors {
		return false, validationErrorf("neighbor count %d out of range [0,%d]", neighbors, MaxNeighbors)
	}
	if alive {
		return r.survival[neighbors], nil
	}
	return r.birth[neighbors], nil
}

// SetBirth replaces the birth set. All counts must lie in [0,8]; a nil
// slice is rejected (an empty, non-nil slice is a valid empty set).
func (r *RuleSet) SetBirth(counts []int) error {
	set, err := toMembership("birth", counts)
	if err != nil {
		return err
	}
	r.birth = set
	return nil
}

// SetSurvival replaces the survival set under the same validation rules
// as SetBirth.
func (r *RuleSet) SetSurvival(counts []int) error {
	set, err := toMembership("survival", counts)
	if err != nil {
		return err
	}
	r.survival = set
	return nil
}

// Clone returns an independent copy.
func (r *RuleSet) Clone() *RuleSet {
	c := *r
	return &c
}

// Equal reports set-equality of both birth and survival sets.
func (r *RuleSet) Equal(other *RuleSet) bool {
	if other == nil {
		return false
	}
	return r.birth == other.birth && r.survival == other.survival
}

// Notation renders the canonical B<digits>/S<digits> form, digits
// ascending, e.g. "B3/S23". An empty set renders no digits.
func (r *RuleSet) Notation() string {
	var b strings.Builder
	b.WriteByte('B')
	writeDigits(&b, r.birth)
	b.WriteString("/S")
	writeDigits(&b, r.survival)
	return b.String()
}

func (r *RuleSet) String() string {
	return r.Notation()
}

// ParseRules parses the B<digits>/S<digits> notation produced by Notation.
func ParseRules(notation string) (*RuleSet, error) {
	parts := strings.SplitN(notation, "/", 2)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "B") || !strings.HasPrefix(parts[1], "S") {
		return nil, validationErrorf("rule notation %q does not match B<digits>/S<digits>", notation)
	}
	birth, err := parseDigits(notation, parts[0][1:])
	if err != nil {
		return nil, err
	}
	survival, err := parseDigits(notation, parts[1][1:])
	if err != nil {
		return nil, err
	}
	return NewRuleSet(birth, survival)
}

func toMembership(name string, counts []int) ([MaxNeighbors + 1]bool, error) {
	var set [MaxNeighbors + 1]bool
	if counts == nil {
		return set, validationErrorf("%s set is required", name)
	}
	var bad []int
	for _, n := range counts {
		if n < 0 || n > MaxNeighbors {
			bad = append(bad, n)
			continue
		}
		set[n] = true
	}
	if len(bad) > 0 {
		return set, validationErrorf("%s set contains values out of range [0,%d]: %v", name, MaxNeighbors, bad)
	}
	return set, nil
}

func writeDigits(b *strings.Builder, set [MaxNeighbors + 1]bool) {
	for n := 0; n <= MaxNeighbors; n++ {
		if set[n] {
			b.WriteByte(byte('0' + n))
		}
	}
}

func parseDigits(notation, digits string) ([]int, error) {
	counts := make([]int, 0, len(digits))
	for _, ch := range digits {
		if ch < '0' || ch > '8' {
			return nil, validationErrorf("rule notation %q contains invalid digit %q", notation, ch)
		}
		counts = append(counts, int(ch-'0'))
	}
	return counts, nil
}
