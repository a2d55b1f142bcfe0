package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		ids    []string
		want   string
	}{
		{"empty collection", "P", nil, "P001"},
		{"sequential", "P", []string{"P001", "P002"}, "P003"},
		{"gap below max is not reused", "D", []string{"D001", "D007"}, "D008"},
		{"other prefixes ignored", "C", []string{"P009", "C002", "D010"}, "C003"},
		{"malformed suffix ignored", "C", []string{"Cabc", "C004"}, "C005"},
		{"widens past 999", "C", []string{"C999"}, "C1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.prefix, tt.ids))
		})
	}
}
