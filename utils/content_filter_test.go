package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTextClean(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain clean caption", "my best doodle yet!", true},
		{"empty string", "", true},
		{"direct hit", "total spam account", false},
		{"uppercase hit", "SPAM", false},
		{"leetspeak substitution", "5p4m", false},
		{"separator padding", "s.p.a.m", false},
		{"leet plus separators", "s-p-@-m", false},
		{"multi word phrase", "get free followers here", false},
		{"clean word containing digits", "doodle 100 days", true},
		{"clean emoji caption", "sunset sketch \U0001F3A8", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTextClean(tt.text))
		})
	}
}
