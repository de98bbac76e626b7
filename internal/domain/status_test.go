package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOpen_IgnoresCaseAndWhitespace(t *testing.T) {
	tests := []struct {
		status string
		open   bool
	}{
		{"OPEN", true},
		{"open", true},
		{" Open ", true},
		{"RESOLVED", false},
		{"CONFIRMED", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.open, Review{Status: tt.status}.IsOpen(), "review %q", tt.status)
		assert.Equal(t, tt.open, CctvEvent{Status: tt.status}.IsOpen(), "cctv %q", tt.status)
	}
}
