package models_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/growthlab/internal/dynamo"
	"github.com/san-kum/growthlab/internal/models"
)

var _ = Describe("Models", func() {
	var (
		solow   *models.Solow
		malthus *models.Malthus
	)

	BeforeEach(func() {
		solow = models.NewSolow(models.DefaultSolowParams())
		malthus = models.NewMalthus(models.DefaultMalthusParams())
	})

	Describe("as dynamo models", func() {
		It("expose one state entry per variable", func() {
			for _, m := range []dynamo.Model{solow, malthus} {
				Expect(m.State()).To(HaveLen(len(m.Variables())))
				for i, name := range m.Variables() {
					v, err := m.Value(name)
					Expect(err).NotTo(HaveOccurred())
					Expect(m.State()[i]).To(Equal(v), name)
				}
			}
		})

		It("report steady states under variable names", func() {
			for _, m := range []dynamo.Model{solow, malthus} {
				ss, ok := m.(dynamo.SteadyStater)
				Expect(ok).To(BeTrue())
				for name := range ss.SteadyStateValues() {
					_, err := m.Value(name)
					Expect(err).NotTo(HaveOccurred(), name)
				}
			}
		})

		DescribeTable("sequence length matches the horizon",
			func(periods int) {
				seq, err := solow.GenerateSequence(periods, "y", true)
				Expect(err).NotTo(HaveOccurred())
				Expect(seq).To(HaveLen(periods))

				seq, err = malthus.GenerateSequence(periods, "y", true, true)
				Expect(err).NotTo(HaveOccurred())
				Expect(seq).To(HaveLen(periods))
			},
			Entry("empty", 0),
			Entry("one period", 1),
			Entry("a century", 100),
		)

		It("fail closed on unknown variables", func() {
			_, err := solow.GenerateSequence(10, "wages", true)
			Expect(err).To(MatchError(dynamo.ErrUnknownVariable))
			Expect(err.Error()).To(ContainSubstring("wages"))

			_, err = malthus.GenerateSequence(10, "wages", true, false)
			Expect(err).To(MatchError(dynamo.ErrUnknownVariable))
		})
	})

	Describe("Solow", func() {
		It("holds its accounting identities along a path", func() {
			for i := 0; i < 100; i++ {
				solow.Update()
				Expect(solow.Y).To(BeNumerically("~", math.Pow(solow.Kappa, solow.Alpha/(1-solow.Alpha))*solow.E*solow.L, 1e-9*solow.Y))
				Expect(solow.K).To(BeNumerically("~", solow.Kappa*solow.Y, 1e-9*solow.K))
				Expect(solow.YPerWorker).To(BeNumerically("~", solow.Y/solow.L, 1e-9*solow.YPerWorker))
			}
		})

		It("grows output per worker at g on the balanced growth path", func() {
			seq, err := solow.GenerateSequence(50, "y", true)
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(seq); i++ {
				Expect(math.Log(seq[i] / seq[i-1])).To(BeNumerically("~", solow.G, 1e-9))
			}
		})

		It("restores the constructed state on reset", func() {
			initial := solow.State()
			for i := 0; i < 30; i++ {
				solow.Update()
			}
			solow.Reset()
			Expect(solow.State()).To(Equal(initial))
		})
	})

	Describe("Malthus", func() {
		It("collapses population growth to zero without new ideas", func() {
			p := models.DefaultMalthusParams()
			p.H = 0
			ss := models.NewMalthus(p).SteadyState()
			Expect(ss.N).To(BeZero())
		})

		It("returns the tuple form of the steady state", func() {
			ss := malthus.SteadyState()
			Expect(ss.Kappa).To(BeNumerically("~", 3.0, 1e-12))
			Expect(ss.Y).To(BeNumerically("~", 1.0, 1e-12))
			Expect(ss.E).To(BeNumerically("~", 1.0/3.0, 1e-12))
			Expect(malthus.MalKappa).To(Equal(ss.Kappa))
		})

		It("is deterministic", func() {
			other := models.NewMalthus(models.DefaultMalthusParams())
			for i := 0; i < 100; i++ {
				malthus.Update()
				other.Update()
			}
			Expect(malthus.State()).To(Equal(other.State()))
		})
	})

	Describe("Gini", func() {
		It("matches the two-class scenario", func() {
			g := models.NewGini(0.2, 0.8)
			Expect(g.Value()).To(BeNumerically("~", 0.6, 1e-12))
			Expect(g.IncomeRatio()).To(BeNumerically("~", 16, 1e-9))
			Expect(g.Err()).NotTo(HaveOccurred())
		})
	})
})
