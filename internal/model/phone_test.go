package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+79991234567", true},
		{"79991234567", true},
		{"123456789", true},
		{"123456789012345", true},
		{"12345", false},
		{"", false},
		{"+7 (999) 123-45-67", false},
		{"abcdefghij", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidPhone(tt.phone))
		})
	}
}
