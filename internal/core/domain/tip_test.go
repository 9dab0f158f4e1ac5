package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTipKind_Priority(t *testing.T) {
	assert.Equal(t, 1, TipGraceDepleted.Priority())
	assert.Equal(t, 2, TipReduceTarget.Priority())
	assert.Equal(t, 3, TipWeakDay.Priority())
	assert.Equal(t, 4, TipPartialPattern.Priority())
	assert.Equal(t, 5, TipCelebration.Priority())
	assert.Equal(t, 6, TipWelcome.Priority())
	assert.Equal(t, 99, TipKind("something_else").Priority())
}

func TestSortByPriority(t *testing.T) {
	tests := []struct {
		name  string
		input []Tip
		want  []TipKind
	}{
		{
			name: "Orders by fixed kind rank",
			input: []Tip{
				{Kind: TipCelebration},
				{Kind: TipGraceDepleted},
				{Kind: TipWeakDay},
			},
			want: []TipKind{TipGraceDepleted, TipWeakDay, TipCelebration},
		},
		{
			name: "Unknown kinds sort last",
			input: []Tip{
				{Kind: TipKind("mystery")},
				{Kind: TipWelcome},
			},
			want: []TipKind{TipWelcome, TipKind("mystery")},
		},
		{
			name:  "Empty slice",
			input: []Tip{},
			want:  []TipKind{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortByPriority(tt.input)

			kinds := make([]TipKind, len(got))
			for i, tip := range got {
				kinds[i] = tip.Kind
			}
			assert.Equal(t, tt.want, kinds)
		})
	}
}

func TestSortByPriority_StableAndNonMutating(t *testing.T) {
	input := []Tip{
		{Kind: TipWeakDay, Message: "first"},
		{Kind: TipGraceDepleted, Message: "guard"},
		{Kind: TipWeakDay, Message: "second"},
	}

	got := SortByPriority(input)

	assert.Equal(t, "guard", got[0].Message)
	assert.Equal(t, "first", got[1].Message, "equal-priority tips keep their order")
	assert.Equal(t, "second", got[2].Message)

	assert.Equal(t, TipWeakDay, input[0].Kind, "input slice must not be reordered")
	assert.Equal(t, TipGraceDepleted, input[1].Kind)
}
