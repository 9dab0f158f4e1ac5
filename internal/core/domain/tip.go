package domain

import "sort"

// TipKind tags a coaching tip with the rule that produced it.
type TipKind string

const (
	TipGraceDepleted  TipKind = "grace_depleted"
	TipReduceTarget   TipKind = "reduce_target"
	TipWeakDay        TipKind = "weak_day"
	TipPartialPattern TipKind = "partial_pattern"
	TipCelebration    TipKind = "celebration"
	TipWelcome        TipKind = "welcome"
)

type Tip struct {
	Kind    TipKind `json:"kind"`
	Message string  `json:"message"`
}

var tipPriorities = map[TipKind]int{
	TipGraceDepleted:  1,
	TipReduceTarget:   2,
	TipWeakDay:        3,
	TipPartialPattern: 4,
	TipCelebration:    5,
	TipWelcome:        6,
}

const unknownTipPriority = 99

// Priority returns the display rank of a tip kind. Unknown kinds sort last.
func (k TipKind) Priority() int {
	if p, ok := tipPriorities[k]; ok {
		return p
	}
	return unknownTipPriority
}

// SortByPriority orders tips by their fixed kind priority. The sort is
// stable, so equal-priority tips keep their original relative order.
func SortByPriority(tips []Tip) []Tip {
	sorted := make([]Tip, len(tips))
	copy(sorted, tips)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Kind.Priority() < sorted[j].Kind.Priority()
	})

	return sorted
}
