package market

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/growthlab/internal/dynamo"
)

func TestEquilibrium(t *testing.T) {
	tests := []struct {
		name                     string
		wtp, ds, moc, ss         float64
		q, p, consumer, producer float64
	}{
		{"symmetric", 10, 1, 2, 1, 4, 6, 8, 8},
		{"lattes", 6, 0.5, 1, 0.25, 20.0 / 3, 8.0 / 3, 100.0 / 9, 50.0 / 9},
		{"flat supply", 10, 2, 4, 0, 3, 4, 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMarket(tt.name, tt.wtp, tt.ds, tt.moc, tt.ss)
			if err != nil {
				t.Fatal(err)
			}
			eq := m.Equilibrium()
			for _, c := range []struct {
				label     string
				got, want float64
			}{
				{"quantity", eq.Quantity, tt.q},
				{"price", eq.Price, tt.p},
				{"consumer surplus", eq.ConsumerSurplus, tt.consumer},
				{"producer surplus", eq.ProducerSurplus, tt.producer},
			} {
				if math.Abs(c.got-c.want) > 1e-9 {
					t.Errorf("%s = %v, want %v", c.label, c.got, c.want)
				}
			}

			if math.Abs(m.DemandPrice(eq.Quantity)-m.SupplyPrice(eq.Quantity)) > 1e-9 {
				t.Error("curves should cross at the equilibrium quantity")
			}
		})
	}
}

func TestNewMarketDegenerate(t *testing.T) {
	if _, err := NewMarket("x", 10, 1, 2, -1); !errors.Is(err, dynamo.ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	m, err := NewMarket("Lattes at Euphoric State", 6, 0.5, 1, 0.25)
	if err != nil {
		t.Fatal(err)
	}

	want := "SUMMARY: MARKET FOR LATTES AT EUPHORIC STATE\n\n" +
		"11.111 = consumer surplus\n" +
		"5.556 = producer surplus\n" +
		"2.667 = equilibrium price\n" +
		"6.667 = equilibrium quantity\n"
	if got := m.Summary(); got != want {
		t.Errorf("Summary() =\n%s\nwant\n%s", got, want)
	}
}

func TestValuesAndBounds(t *testing.T) {
	m, _ := NewMarket("Wheat", 10, 1, 2, 1)

	v := m.Values()
	if v["market"] != "Wheat" || v["equilibrium_price"] != 6.0 {
		t.Errorf("unexpected values %v", v)
	}

	maxQ, maxP := m.Bounds()
	if maxQ != 6 || maxP != 12 {
		t.Errorf("Bounds() = %v, %v", maxQ, maxP)
	}
	if !strings.Contains(m.Summary(), "WHEAT") {
		t.Error("summary should upper-case the title")
	}
}
