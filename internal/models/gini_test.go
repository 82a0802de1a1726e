package models

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/growthlab/internal/dynamo"
)

func TestGini(t *testing.T) {
	tests := []struct {
		name        string
		upper       float64
		share       float64
		value       float64
		incomeRatio float64
	}{
		{"fifth holds four fifths", 0.2, 0.8, 0.6, 16},
		{"perfect equality", 0.5, 0.5, 0, 1},
		{"tenth holds half", 0.1, 0.5, 0.4, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGini(tt.upper, tt.share)
			if math.Abs(g.Value()-tt.value) > 1e-9 {
				t.Errorf("Value() = %v, want %v", g.Value(), tt.value)
			}
			if math.Abs(g.IncomeRatio()-tt.incomeRatio) > 1e-9 {
				t.Errorf("IncomeRatio() = %v, want %v", g.IncomeRatio(), tt.incomeRatio)
			}
		})
	}
}

func TestDefaultGini(t *testing.T) {
	g := DefaultGini()
	if g.UpperClass() != 0.2 || g.Share() != 0.8 {
		t.Errorf("unexpected defaults: %v, %v", g.UpperClass(), g.Share())
	}
	if math.Abs(g.IncomeRatio()-16) > 1e-9 {
		t.Errorf("IncomeRatio() = %v, want 16", g.IncomeRatio())
	}
}

func TestGiniDegenerateShares(t *testing.T) {
	if r := NewGini(0, 0.8).IncomeRatio(); !math.IsInf(r, 1) {
		t.Errorf("expected +Inf income ratio with no upper class, got %v", r)
	}

	for _, upper := range []float64{0, 1} {
		if err := NewGini(upper, 0.8).Err(); !errors.Is(err, dynamo.ErrDegenerate) {
			t.Errorf("upper=%v: expected ErrDegenerate, got %v", upper, err)
		}
	}
	if err := DefaultGini().Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
