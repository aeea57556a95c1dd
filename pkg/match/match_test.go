package match_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crosstalk/pkg/match"
	"github.com/aretw0/crosstalk/pkg/text"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		keywords  []string
		want      string
	}{
		{"full match", "I want to reset my password please", []string{"reset", "password"}, "100%"},
		{"empty keywords", "reset password", nil, "0%"},
		{"empty keywords empty text", "", []string{}, "0%"},
		{"no match", "hello there", []string{"refund"}, "0%"},
		{"half", "reset it", []string{"reset", "password"}, "50%"},
		{"repeated token counts once", "refund refund refund", []string{"refund", "money"}, "50%"},
		{"rounds down", "a", []string{"a", "b", "c"}, "33%"},
		{"rounds up", "a b", []string{"a", "b", "c"}, "67%"},
		{"half rounds up", "a", []string{"a", "b", "c", "d", "e", "f", "g", "h"}, "13%"},
		{"no substring match", "passwords", []string{"password"}, "0%"},
		{"punctuation stripped", "¿Refund?", []string{"refund"}, "100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := match.Score(text.Tokenize(tt.utterance), tt.keywords)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestScore_DistinctPresence(t *testing.T) {
	keywords := []string{"a", "b", "c", "d"}
	for matched := 0; matched <= len(keywords); matched++ {
		tokens := append([]string{}, keywords[:matched]...)
		tokens = append(tokens, tokens...) // duplicates must not change the count
		got := match.Score(tokens, keywords)
		assert.Equal(t, match.Percentage(matched*25), got)
	}
}

func TestMatched(t *testing.T) {
	got := match.Matched([]string{"reset", "my", "password"}, []string{"password", "email", "reset"})
	assert.Equal(t, []string{"password", "reset"}, got)
}

func TestPercentage_Encoding(t *testing.T) {
	b, err := json.Marshal(map[string]match.Percentage{"x": 42})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":"42%"}`, string(b))

	var back map[string]match.Percentage
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, match.Percentage(42), back["x"])

	_, err = match.ParsePercentage("abc")
	assert.Error(t, err)
	_, err = match.ParsePercentage("101%")
	assert.Error(t, err)
	assert.False(t, match.Percentage(0).Positive())
}
