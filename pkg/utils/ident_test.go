package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTailToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"c-gxyz", "C-GXYZ"},
		{"CGXYZ", "C-GXYZ"},
		{"C-GXYZ", "C-GXYZ"},
		{"n123ab", "N123AB"},
		{"ASP501", "ASP501"},
		{"  asp501 ", "ASP501"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTailToken(tt.in), "input %q", tt.in)
	}
}

func TestIdentFromFaFlightID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"CGXYZ-1759773600-adhoc-0", "C-GXYZ"},
		{"N123AB-1759773600-airline-0123", "N123AB"},
		{"ASP501-1759773600-schedule-1", "ASP501"},
		{"C-GXYZ", "C-GXYZ"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IdentFromFaFlightID(tt.in), "input %q", tt.in)
	}
}
