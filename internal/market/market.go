// Package market computes the equilibrium of a market with linear supply and
// demand curves.
//
// Demand is P = wtp − ds·Q, falling from the highest willingness to pay. Supply is
// P = moc + ss·Q, rising from the lowest opportunity cost of producers.
package market

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/growthlab/internal/dynamo"
)

type Market struct {
	Title       string
	MaxWTP      float64
	DemandSlope float64
	MinOppCost  float64
	SupplySlope float64
}

// Equilibrium is the market-clearing point and the surpluses it leaves.
type Equilibrium struct {
	Quantity        float64
	Price           float64
	ConsumerSurplus float64
	ProducerSurplus float64
}

// NewMarket validates that the curves cross at a single point.
func NewMarket(title string, maxWTP, demandSlope, minOppCost, supplySlope float64) (*Market, error) {
	if demandSlope+supplySlope == 0 {
		return nil, fmt.Errorf("%w: supply and demand slopes sum to zero", dynamo.ErrDegenerate)
	}
	return &Market{
		Title:       title,
		MaxWTP:      maxWTP,
		DemandSlope: demandSlope,
		MinOppCost:  minOppCost,
		SupplySlope: supplySlope,
	}, nil
}

func (m *Market) DemandPrice(q float64) float64 {
	return m.MaxWTP - m.DemandSlope*q
}

func (m *Market) SupplyPrice(q float64) float64 {
	return m.MinOppCost + m.SupplySlope*q
}

func (m *Market) Equilibrium() Equilibrium {
	q := (m.MaxWTP - m.MinOppCost) / (m.SupplySlope + m.DemandSlope)
	p := m.MaxWTP - q*m.DemandSlope
	return Equilibrium{
		Quantity:        q,
		Price:           p,
		ConsumerSurplus: (m.MaxWTP - p) * q / 2,
		ProducerSurplus: (p - m.MinOppCost) * q / 2,
	}
}

// Values returns the equilibrium keyed by name, with the market title under "market".
func (m *Market) Values() map[string]any {
	eq := m.Equilibrium()
	return map[string]any{
		"equilibrium_price":    eq.Price,
		"equilibrium_quantity": eq.Quantity,
		"consumer_surplus":     eq.ConsumerSurplus,
		"producer_surplus":     eq.ProducerSurplus,
		"market":               m.Title,
	}
}

// Summary is the plain-text market summary with values rounded to 3 decimals.
func (m *Market) Summary() string {
	eq := m.Equilibrium()

	var b strings.Builder
	b.WriteString("SUMMARY: MARKET FOR " + strings.ToUpper(m.Title) + "\n\n")
	fmt.Fprintf(&b, "%s = consumer surplus\n", round3(eq.ConsumerSurplus))
	fmt.Fprintf(&b, "%s = producer surplus\n", round3(eq.ProducerSurplus))
	fmt.Fprintf(&b, "%s = equilibrium price\n", round3(eq.Price))
	fmt.Fprintf(&b, "%s = equilibrium quantity\n", round3(eq.Quantity))
	return b.String()
}

// Bounds returns the plotting window [0, 1.5q*] × [0, 1.2·wtp].
func (m *Market) Bounds() (maxQ, maxP float64) {
	return 1.5 * m.Equilibrium().Quantity, 1.2 * m.MaxWTP
}

func round3(x float64) string {
	return strconv.FormatFloat(math.Round(x*1000)/1000, 'f', -1, 64)
}
