package fixedpoint

import (
	"testing"

	"cosmossdk.io/math"
)

func TestMulDiv(t *testing.T) {
	testCases := []struct {
		name     string
		a, b, c  int64
		expected int64
		wantErr  bool
	}{
		{"exact", 100, 50, 10, 500, false},
		{"truncates", 10, 3, 4, 7, false},
		{"zero numerator", 0, 999, 7, 0, false},
		{"zero divisor", 1, 1, 0, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MulDiv(math.NewInt(tc.a), math.NewInt(tc.b), math.NewInt(tc.c))
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(math.NewInt(tc.expected)) {
				t.Errorf("expected %d, got %s", tc.expected, got)
			}
		})
	}
}

func TestMulDivWideIntermediate(t *testing.T) {
	// a*b overflows int64 but the wide intermediate must carry it.
	a := math.NewInt(1 << 62)
	got, err := MulDiv(a, math.NewInt(4), math.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(a.MulRaw(2)) {
		t.Errorf("expected %s, got %s", a.MulRaw(2), got)
	}
}

func TestPercentageBps(t *testing.T) {
	got, err := PercentageBps(math.NewInt(1_000_000), 9000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(math.NewInt(900_000)) {
		t.Errorf("expected 900000, got %s", got)
	}

	if _, err := PercentageBps(math.NewInt(100), -1); err == nil {
		t.Error("expected error for negative bps")
	}
}

func TestCheckedSub(t *testing.T) {
	if _, err := CheckedSub(math.NewInt(5), math.NewInt(6)); err == nil {
		t.Error("expected error for negative result")
	}
	got, err := CheckedSub(math.NewInt(6), math.NewInt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(math.OneInt()) {
		t.Errorf("expected 1, got %s", got)
	}
}

func TestClamp(t *testing.T) {
	lo, hi := math.NewInt(-10), math.NewInt(10)
	if got := Clamp(math.NewInt(50), lo, hi); !got.Equal(hi) {
		t.Errorf("expected clamp to hi, got %s", got)
	}
	if got := Clamp(math.NewInt(-50), lo, hi); !got.Equal(lo) {
		t.Errorf("expected clamp to lo, got %s", got)
	}
	if got := Clamp(math.NewInt(3), lo, hi); !got.Equal(math.NewInt(3)) {
		t.Errorf("expected passthrough, got %s", got)
	}
}
