package httpx_test

import (
	"testing"

	"github.com/Gunvolt24/wc_order_export/pkg/httpx"
)

func TestClampInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		v      int
		lo, hi int
		want   int
	}{
		{"below_min", -5, 0, 10000, 0},
		{"above_max", 10001, 0, 10000, 10000},
		{"inside", 500, 0, 10000, 500},
		{"zero_unbounded", 0, 0, 10000, 0},
		{"equal_max", 10000, 0, 10000, 10000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := httpx.ClampInt(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Fatalf("ClampInt(%d,%d,%d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}
