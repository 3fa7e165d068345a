package tension_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/webtension/internal/line"
	"github.com/san-kum/webtension/internal/tension"
)

var _ = Describe("Simulate", func() {
	var (
		ctx      context.Context
		material tension.Material
	)

	BeforeEach(func() {
		ctx = context.Background()
		material = tension.DefaultMaterial()
	})

	simulate := func(stations []line.Station, length float64) *tension.Result {
		r, err := tension.Simulate(ctx, stations, length, material)
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	Context("with a single unwind-to-rewind span", func() {
		var r *tension.Result

		BeforeEach(func() {
			r = simulate([]line.Station{
				{ID: "unwind", Type: line.Unwind, Position: 0},
				{ID: "rewind", Type: line.Rewind, Position: 100},
			}, 10)
		})

		It("produces one 10 m zone", func() {
			Expect(r.Zones).To(HaveLen(1))
			Expect(r.Zones[0].ID()).To(Equal("unwind-rewind"))
			Expect(r.Zones[0].Zone.LengthMeters).To(BeNumerically("~", 10, 1e-12))
			Expect(r.Zones[0].Damping).To(Equal(4.0))
		})

		It("settles at 30 N", func() {
			final, ok := r.Tension.Last("unwind-rewind")
			Expect(ok).To(BeTrue())
			Expect(final).To(Equal(30.0))

			eps, _ := r.Strain.Last("unwind-rewind")
			Expect(eps).To(BeNumerically("~", 1.5e-4, 1.5e-4*math.Exp(-24)))
		})

		It("samples 0.00 to 6.00 s", func() {
			Expect(r.Time).To(HaveLen(601))
			Expect(r.Time[0]).To(Equal(0.0))
			Expect(r.Time[1]).To(Equal(0.01))
			Expect(r.Time[600]).To(Equal(6.0))
		})
	})

	Context("when a dancer bounds the span", func() {
		It("is within 0.01% of the set-point by 1 s", func() {
			r := simulate([]line.Station{
				{ID: "unwind", Type: line.Unwind, Position: 0},
				{ID: "dancer", Type: line.Dancer, Position: 100},
			}, 10)

			Expect(r.Zones[0].Damping).To(Equal(10.0))
			s, _ := r.Strain.Get("unwind-dancer")
			Expect(r.Time[100]).To(Equal(1.0))
			Expect(math.Abs(s[100]-1.5e-4) / 1.5e-4).To(BeNumerically("<", 1e-4))
		})
	})

	Context("with a pitch roller mid-line", func() {
		It("starts a second tension group at local index zero", func() {
			r := simulate([]line.Station{
				{ID: "unwind", Type: line.Unwind, Position: 0},
				{ID: "pitch", Type: line.Pitch, Position: 50},
				{ID: "rewind", Type: line.Rewind, Position: 100},
			}, 10)

			Expect(r.Tension.Keys()).To(Equal([]string{"unwind-pitch", "pitch-rewind"}))

			first, second := r.Zones[0], r.Zones[1]
			Expect([]int{first.Zone.Index, first.Group, first.Local}).To(Equal([]int{0, 0, 0}))
			Expect([]int{second.Zone.Index, second.Group, second.Local}).To(Equal([]int{1, 1, 0}))
			Expect(first.TargetStrain).To(Equal(material.BaseStrain))
			Expect(second.TargetStrain).To(Equal(material.BaseStrain))
		})
	})

	DescribeTable("degenerate station sets",
		func(stations []line.Station) {
			r := simulate(stations, 10)
			Expect(r.Time).To(HaveLen(601))
			Expect(r.Tension.Len()).To(BeZero())
			Expect(r.Strain.Len()).To(BeZero())
		},
		Entry("no stations", []line.Station{}),
		Entry("one station", []line.Station{{ID: "unwind", Type: line.Unwind, Position: 10}}),
	)

	It("is deterministic across runs", func() {
		stations := []line.Station{
			{ID: "unwind", Type: line.Unwind, Position: 5},
			{ID: "dancer1", Type: line.Dancer, Position: 15},
			{ID: "roller1", Type: line.Roller, Position: 25},
			{ID: "pitch1", Type: line.Pitch, Position: 50},
			{ID: "roller2", Type: line.Roller, Position: 70},
			{ID: "rewind", Type: line.Rewind, Position: 95},
		}
		a := simulate(stations, 10)
		b := simulate(stations, 10)

		Expect(b.Time).To(Equal(a.Time))
		for _, id := range a.Strain.Keys() {
			sa, _ := a.Strain.Get(id)
			sb, _ := b.Strain.Get(id)
			Expect(sb).To(Equal(sa))

			ta, _ := a.Tension.Get(id)
			tb, _ := b.Tension.Get(id)
			Expect(tb).To(Equal(ta))
		}
	})

	It("never reports negative tension", func() {
		material = tension.Material{Stiffness: 1e5, BaseStrain: -2e-4, StrainStep: 1e-4}
		r := simulate([]line.Station{
			{ID: "unwind", Type: line.Unwind, Position: 0},
			{ID: "r1", Type: line.Roller, Position: 30},
			{ID: "r2", Type: line.Roller, Position: 60},
			{ID: "rewind", Type: line.Rewind, Position: 100},
		}, 10)

		r.Tension.Each(func(_ string, v []float64) bool {
			Expect(v).To(HaveEach(BeNumerically(">=", 0)))
			return true
		})
	})
})
