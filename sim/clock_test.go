package sim

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Clock", func() {
	var (
		clock *Clock
		level float64
	)

	BeforeEach(func() {
		clock = NewClock()
		level = 5
		clock.Track("above", func() float64 { return math.Max(level, 0) })
		clock.Track("below", func() float64 { return math.Max(-level, 0) })
	})

	It("should integrate the value held before each event", func() {
		Expect(clock.AdvanceTo(2)).To(Succeed())
		level = -3
		Expect(clock.AdvanceTo(5)).To(Succeed())
		level = 0
		Expect(clock.AdvanceTo(8)).To(Succeed())

		above, _ := clock.Area("above")
		below, _ := clock.Area("below")
		Expect(above).To(Equal(10.0))
		Expect(below).To(Equal(9.0))
		Expect(clock.Now()).To(Equal(8.0))
		Expect(clock.LastUpdate()).To(Equal(8.0))
	})

	It("should accept signed quantities", func() {
		clock.Track("level", func() float64 { return level })

		Expect(clock.AdvanceTo(2)).To(Succeed())
		level = -3
		Expect(clock.AdvanceTo(5)).To(Succeed())

		Expect(clock.Areas()).To(HaveKeyWithValue("level", 1.0))
	})

	It("should add nothing for simultaneous events", func() {
		Expect(clock.AdvanceTo(1)).To(Succeed())
		level = 100
		Expect(clock.AdvanceTo(1)).To(Succeed())

		above, _ := clock.Area("above")
		Expect(above).To(Equal(5.0))
	})

	It("should refuse to move backwards", func() {
		Expect(clock.AdvanceTo(4)).To(Succeed())

		Expect(clock.AdvanceTo(3)).To(MatchError(ErrTimeReversal))
		Expect(clock.Now()).To(Equal(4.0))
	})

	It("should reset to zero", func() {
		Expect(clock.AdvanceTo(4)).To(Succeed())

		clock.Reset()

		Expect(clock.Now()).To(Equal(0.0))
		Expect(clock.Areas()).To(BeEmpty())
		_, ok := clock.Area("above")
		Expect(ok).To(BeFalse())
	})
})
