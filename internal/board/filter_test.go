package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(res FilterResult) []string {
	out := make([]string, 0, len(res.Activities))
	for _, a := range res.Activities {
		out = append(out, a.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	b := New(catalog(), 0)
	_, err := b.Register("breakfast")
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"Introduction to AI", "Networking Breakfast", "Morning Yoga", "Product Design Workshop"}},
		{"all tab", Filter{Tab: TabAll}, []string{"Introduction to AI", "Networking Breakfast", "Morning Yoga", "Product Design Workshop"}},
		{"tab", Filter{Tab: "physical"}, []string{"Morning Yoga"}},
		{"search title", Filter{Search: "  YOGA "}, []string{"Morning Yoga"}},
		{"search location", Filter{Search: "hall"}, []string{"Introduction to AI"}},
		{"registered", Filter{RegisteredOnly: true}, []string{"Networking Breakfast"}},
		{"available", Filter{AvailableOnly: true}, []string{"Introduction to AI", "Morning Yoga", "Product Design Workshop"}},
		{"high points", Filter{HighPoints: true}, []string{"Introduction to AI", "Morning Yoga", "Product Design Workshop"}},
		{"combined", Filter{Tab: "breakout", AvailableOnly: true, HighPoints: true, Search: "design"}, []string{"Product Design Workshop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := b.Filter(tt.filter)
			assert.Equal(t, tt.want, titles(res))
			assert.Empty(t, res.EmptyMessage)
		})
	}
}

func TestFilterEmptyResult(t *testing.T) {
	b := New(catalog(), 0)

	res := b.Filter(Filter{RegisteredOnly: true})
	assert.NotNil(t, res.Activities)
	assert.Empty(t, res.Activities)
	assert.Equal(t, EmptyMessage, res.EmptyMessage)
	assert.Empty(t, res.Suggestion)

	res = b.Filter(Filter{Tab: "networking", HighPoints: true})
	assert.Empty(t, res.Activities)
	assert.Equal(t, EmptyMessage, res.EmptyMessage)
}

func TestFilterSuggestion(t *testing.T) {
	b := New(catalog(), 0)

	res := b.Filter(Filter{Search: "Morning Yogaa"})
	assert.Empty(t, res.Activities)
	assert.Equal(t, "Morning Yoga", res.Suggestion)
}

func TestApplyEmptyBoard(t *testing.T) {
	res := Apply(nil, Filter{Search: "yoga"})
	assert.NotNil(t, res.Activities)
	assert.Equal(t, EmptyMessage, res.EmptyMessage)
	assert.Empty(t, res.Suggestion)
}
