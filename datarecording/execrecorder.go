package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecTable is the table execution information is stored in.
const ExecTable = "exec_info"

const timeLayout = "2006-01-02 15:04:05.000000000"

// ExecInfo is one property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records when and how the program ran next to the data it
// produced.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the execution table in the recorder.
func NewExecRecorder(recorder DataRecorder) (*ExecRecorder, error) {
	if err := recorder.CreateTable(ExecTable, ExecInfo{}); err != nil {
		return nil, err
	}

	return &ExecRecorder{recorder: recorder}, nil
}

// Start notes the start time, the command line, the working directory and the
// extra properties.
func (e *ExecRecorder) Start(extra ...ExecInfo) {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", time.Now().Format(timeLayout)},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	if cwd, err := os.Getwd(); err == nil {
		e.entries = append(e.entries, ExecInfo{"Working Directory", cwd})
	}

	e.entries = append(e.entries, extra...)
}

// End writes the noted properties together with the end time and flushes.
func (e *ExecRecorder) End() error {
	e.entries = append(e.entries, ExecInfo{"End Time", time.Now().Format(timeLayout)})

	for _, entry := range e.entries {
		if err := e.recorder.InsertData(ExecTable, entry); err != nil {
			return err
		}
	}

	e.entries = nil

	return e.recorder.Flush()
}
