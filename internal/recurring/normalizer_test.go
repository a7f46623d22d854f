package recurring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePatternKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "merchant with punctuation",
			input: "Netflix.com *Sub",
			want:  "netflix_com_sub",
		},
		{
			name:  "surrounding whitespace",
			input: "  Spotify AB  ",
			want:  "spotify_ab",
		},
		{
			name:  "hebrew merchant stays intact",
			input: "ארנונה - תל אביב",
			want:  "ארנונה_תל_אביב",
		},
		{
			name:  "mixed hebrew and latin",
			input: "פיצה! Pizza 2Go",
			want:  "פיצה_pizza_2go",
		},
		{
			name:  "digits preserved",
			input: "HOT טלוויזיה 03-1234567",
			want:  "hot_טלוויזיה_03_1234567",
		},
		{
			name:  "symbols only",
			input: "***~~~",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "repeated separators collapse",
			input: "PAYPAL *  NETFLIX",
			want:  "paypal_netflix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePatternKey(tt.input)
			assert.Equal(t, tt.want, got)

			// Normalization must be idempotent.
			assert.Equal(t, got, NormalizePatternKey(got))
		})
	}
}
