package tracing

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/nextevent/model/queue"
	"github.com/sarchlab/nextevent/sim"
	"github.com/sarchlab/nextevent/variate"
)

// idleModel declares one kind and never schedules it.
type idleModel struct{}

func (idleModel) EventKinds() []string { return []string{"never"} }

func (idleModel) Initialize(sim.Env) error { return nil }

func (idleModel) Handle(sim.Env, sim.EventKind) error { return nil }

func (idleModel) IsTerminal() bool { return false }

func (idleModel) Report(sim.Stats) sim.Summary { return sim.Summary{} }

var _ = Describe("Tracer", func() {
	var (
		mockCtrl *gomock.Controller
		writer   *MockTraceWriter
		tracer   *Tracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		writer = NewMockTraceWriter(mockCtrl)
		tracer = NewTracer(writer)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should ignore the hook before the event", func() {
		tracer.Func(sim.HookCtx{
			Pos:  sim.HookPosBeforeEvent,
			Item: sim.Dispatch{Seq: 1},
		})
	})

	It("should write a record after the event", func() {
		tracer.SetRun("(20, 40)")
		writer.EXPECT().Write(Record{
			Run:   "(20, 40)",
			Seq:   3,
			Time:  1.5,
			Event: "demand",
			Notes: []string{"Demand of 2 items, level 38"},
		}).Return(nil)

		tracer.Func(sim.HookCtx{
			Pos: sim.HookPosAfterEvent,
			Item: sim.Dispatch{
				Seq: 3, Time: 1.5, Kind: 1, Name: "demand",
				Notes: []string{"Demand of 2 items, level 38"},
			},
		})
	})

	It("should write the in-progress event and the trailer on abort", func() {
		fatal := sim.Overflow("queue", 100, 7.5)

		gomock.InOrder(
			writer.EXPECT().Write(gomock.Any()).Do(func(r Record) {
				Expect(r.Seq).To(Equal(uint64(9)))
				Expect(r.Event).To(Equal("arrival"))
				Expect(r.Fatal).To(BeEmpty())
			}),
			writer.EXPECT().Write(gomock.Any()).Do(func(r Record) {
				Expect(r.Seq).To(Equal(uint64(9)))
				Expect(r.Time).To(Equal(7.5))
				Expect(r.Fatal).To(Equal("capacity exceeded"))
				Expect(r.NotesText()).To(ContainSubstring("more than 100"))
			}),
			writer.EXPECT().Flush(),
		)

		tracer.Func(sim.HookCtx{
			Pos:    sim.HookPosAbort,
			Item:   fatal,
			Detail: sim.Dispatch{Seq: 9, Time: 7.5, Name: "arrival"},
		})
	})

	It("should keep the first write error and stop writing", func() {
		boom := errors.New("disk full")
		writer.EXPECT().Write(gomock.Any()).Return(boom)
		writer.EXPECT().Close().Return(nil)

		d := sim.HookCtx{Pos: sim.HookPosAfterEvent, Item: sim.Dispatch{Seq: 1}}
		tracer.Func(d)
		tracer.Func(d)

		Expect(tracer.Err()).To(MatchError(boom))
		Expect(tracer.Close()).To(MatchError(boom))
	})
})

var _ = Describe("Tracing a run", func() {
	It("should list the queue events in dispatch order", func() {
		buf := &bytes.Buffer{}
		tracer := NewTracer(NewTextTraceWriter(buf))

		m, err := queue.New(queue.Config{
			MeanInterarrival: 1, MeanService: 0.5, DelaysRequired: 3,
		})
		Expect(err).NotTo(HaveOccurred())
		engine, err := sim.MakeBuilder().
			WithModel(m).
			WithStream(variate.NewStream(1)).
			WithHook(tracer).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, stats, err := engine.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(tracer.Close()).To(Succeed())

		out := buf.String()
		Expect(out).To(HavePrefix("1. Next event: arrival at "))
		Expect(out).To(ContainSubstring("    Customer 1 Arrival\n"))
		Expect(out).To(ContainSubstring("    No. of customers delayed: 3\n"))
		Expect(bytes.Count(buf.Bytes(), []byte("Next event:"))).
			To(Equal(int(stats.EventCount)))
	})

	It("should end the trace with the empty event list trailer", func() {
		buf := &bytes.Buffer{}
		tracer := NewTracer(NewTextTraceWriter(buf))
		engine, err := sim.MakeBuilder().
			WithModel(idleModel{}).
			WithHook(tracer).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, _, err = engine.Run()
		Expect(err).To(MatchError(sim.ErrEmptyEventList))
		Expect(tracer.Close()).To(Succeed())

		Expect(buf.String()).To(Equal(
			"---------Event list empty at time 0--------\n\n"))
	})

	It("should end the trace with the overflow trailer", func() {
		buf := &bytes.Buffer{}
		tracer := NewTracer(NewTextTraceWriter(buf))
		m, err := queue.New(queue.Config{
			MeanInterarrival: 1, MeanService: 50, DelaysRequired: 100, Capacity: 1,
		})
		Expect(err).NotTo(HaveOccurred())
		engine, err := sim.MakeBuilder().
			WithModel(m).
			WithStream(variate.NewStreamFromSource(constSource(0.5))).
			WithHook(tracer).
			Build()
		Expect(err).NotTo(HaveOccurred())

		_, _, err = engine.Run()
		Expect(err).To(MatchError(sim.ErrCapacityExceeded))
		Expect(tracer.Close()).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("3. Next event: arrival"))
		Expect(out).To(ContainSubstring("    Customer 3 Arrival\n---------Overflow at 2.0794"))
		Expect(out).To(HaveSuffix(
			": queue holds more than 1 entries: capacity exceeded--------\n\n"))
	})
})

type constSource float64

func (s constSource) Float64() float64 { return float64(s) }
