package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 100},
		{"abc", "abc", 100},
		{"abc", "", 0},
		{"abc", "xyz", 0},
		{"渋谷駅", "渋谷", 80},
		{"市立病院", "市立病院本館", 80},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 0.001, "Ratio(%q, %q)", tt.a, tt.b)
	}
}

func TestRatio_Symmetric(t *testing.T) {
	assert.InDelta(t, Ratio("中央病院", "中央"), Ratio("中央", "中央病院"), 0.0001)
}
