package plays

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		name       string
		sanctioned bool
		weekly     int
		daily      int
		want       bool
	}{
		{"clean record", false, 0, 0, true},
		{"active sanction blocks", true, 0, 0, false},
		{"two plays this week still allowed", false, 2, 0, true},
		{"three plays this week blocks", false, 3, 0, false},
		{"one play today still allowed", false, 1, 1, true},
		{"two plays today blocks", false, 2, 2, false},
		{"sanction trumps a clean week", true, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.sanctioned, tt.weekly, tt.daily))
		})
	}
}
