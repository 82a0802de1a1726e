package models

import "github.com/san-kum/growthlab/internal/dynamo"

// Gini is the Gini coefficient of a two-class income distribution: an upper class
// holding a given share of income, and everyone else.
type Gini struct {
	upperClass  float64
	share       float64
	value       float64
	incomeRatio float64
}

// NewGini derives the coefficient from the population share of the upper class and
// its income share. A population share of exactly 0 or 1 divides by zero; the
// result is not recovered and Err reports it.
func NewGini(upperClass, share float64) *Gini {
	return &Gini{
		upperClass:  upperClass,
		share:       share,
		value:       share - upperClass,
		incomeRatio: (share / upperClass) / ((1 - share) / (1 - upperClass)),
	}
}

// DefaultGini is the classic fifth-of-the-population, four-fifths-of-income split.
func DefaultGini() *Gini {
	return NewGini(1.0/5.0, 4.0/5.0)
}

func (g *Gini) UpperClass() float64 { return g.upperClass }
func (g *Gini) Share() float64      { return g.share }

// Value is share − upper_class.
func (g *Gini) Value() float64 { return g.value }

// IncomeRatio is the income per head of the upper class relative to the lower class.
func (g *Gini) IncomeRatio() float64 { return g.incomeRatio }

// Err returns dynamo.ErrDegenerate when the upper-class population share is 0 or 1,
// where the income ratio is undefined.
func (g *Gini) Err() error {
	if g.upperClass == 0 || g.upperClass == 1 {
		return dynamo.ErrDegenerate
	}
	return nil
}
