package tracing

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/sarchlab/nextevent/datarecording"
)

var sampleRecords = []Record{
	{Run: "r1", Seq: 1, Time: 0.25, Event: "arrival", Notes: []string{"Customer 1 Arrival", "No. of customers delayed: 1"}},
	{Run: "r1", Seq: 2, Time: 0.5, Event: "departure", Notes: []string{"Customer 1 Departure"}},
	{Run: "r1", Seq: 2, Time: 0.5, Event: "abort", Fatal: "empty event list"},
}

func writeAll(w TraceWriter) {
	for _, r := range sampleRecords {
		Expect(w.Write(r)).To(Succeed())
	}
	Expect(w.Close()).To(Succeed())
}

var _ = Describe("TextTraceWriter", func() {
	It("should separate runs", func() {
		buf := &bytes.Buffer{}
		w := NewTextTraceWriter(buf)

		Expect(w.Write(Record{Run: "( 20, 40)", Seq: 1, Event: "evaluate"})).To(Succeed())
		Expect(w.Write(Record{Run: "( 20, 60)", Seq: 1, Event: "evaluate"})).To(Succeed())
		Expect(w.Close()).To(Succeed())

		Expect(buf.String()).To(Equal(
			"\n=========Run ( 20, 40)=========\n\n" +
				"1. Next event: evaluate at 0.000000\n" +
				"\n=========Run ( 20, 60)=========\n\n" +
				"1. Next event: evaluate at 0.000000\n"))
	})
})

var _ = Describe("CSVTraceWriter", func() {
	It("should write a header and one row per record", func() {
		buf := &bytes.Buffer{}

		writeAll(NewCSVTraceWriter(buf))

		rows, err := csv.NewReader(buf).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(4))
		Expect(rows[0]).To(Equal(CSVHeader))
		Expect(rows[1]).To(Equal([]string{
			"r1", "1", "0.2500000000", "arrival",
			"Customer 1 Arrival; No. of customers delayed: 1", "",
		}))
		Expect(rows[3][5]).To(Equal("empty event list"))
	})
})

var _ = Describe("ParquetTraceWriter", func() {
	It("should write records that can be read back", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace.parquet")
		w, err := NewParquetTraceWriter(path)
		Expect(err).NotTo(HaveOccurred())

		writeAll(w)

		fr, err := local.NewLocalFileReader(path)
		Expect(err).NotTo(HaveOccurred())
		defer fr.Close()

		pr, err := reader.NewParquetReader(fr, new(ParquetRecord), 1)
		Expect(err).NotTo(HaveOccurred())
		defer pr.ReadStop()

		rows := make([]ParquetRecord, pr.GetNumRows())
		Expect(pr.Read(&rows)).To(Succeed())

		Expect(rows).To(HaveLen(3))
		Expect(rows[1]).To(Equal(ParquetRecord{
			Run: "r1", Seq: 2, Time: 0.5, Event: "departure",
			Notes: "Customer 1 Departure",
		}))
	})
})

var _ = Describe("KafkaTraceWriter", func() {
	It("should publish one JSON message per record", func() {
		producer := mocks.NewSyncProducer(GinkgoT(), nil)
		var events []string
		for range sampleRecords {
			producer.ExpectSendMessageWithCheckerFunctionAndSucceed(
				func(val []byte) error {
					var msg kafkaMessage
					if err := json.Unmarshal(val, &msg); err != nil {
						return err
					}
					if msg.Run != "r1" {
						return errors.New("missing run")
					}
					events = append(events, msg.Event)
					return nil
				})
		}

		writeAll(NewKafkaTraceWriter(producer, "trace"))

		Expect(events).To(Equal([]string{"arrival", "departure", "abort"}))
	})

	It("should report a failed send", func() {
		producer := mocks.NewSyncProducer(GinkgoT(), nil)
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
		w := NewKafkaTraceWriter(producer, "trace")

		err := w.Write(sampleRecords[0])

		Expect(err).To(MatchError(sarama.ErrOutOfBrokers))
		Expect(w.Close()).To(Succeed())
	})
})

var _ = Describe("SQLiteTraceWriter", func() {
	It("should store records in the trace table", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace.sqlite3")
		recorder, err := datarecording.New(path)
		Expect(err).NotTo(HaveOccurred())
		w, err := NewSQLiteTraceWriter(recorder)
		Expect(err).NotTo(HaveOccurred())

		writeAll(w)

		dr, err := datarecording.NewReader(path)
		Expect(err).NotTo(HaveOccurred())
		defer dr.Close()
		dr.MapTable(TraceTable, SQLiteRecord{})

		rows, total, err := dr.Query(context.Background(), TraceTable,
			datarecording.QueryParams{Where: "Fatal = ?", Args: []any{""}})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(2))
		Expect(rows[0].(*SQLiteRecord).Event).To(Equal("arrival"))
	})
})
