package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ValidINN(t *testing.T) {
	tests := []struct {
		name  string
		inn   string
		valid bool
	}{
		{"10 digits", "7712345678", true},
		{"12 digits", "771234567890", true},
		{"empty", "", false},
		{"too short", "12345", false},
		{"11 digits", "77123456789", false},
		{"too long", "7712345678901", false},
		{"letters", "77123A5678", false},
		{"with spaces", " 7712345678", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, ValidINN(tt.inn), "inn %q", tt.inn)
		})
	}
}
