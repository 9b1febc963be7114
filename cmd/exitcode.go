package cmd

import (
	"errors"

	"github.com/sarchlab/nextevent/config"
	"github.com/sarchlab/nextevent/sim"
)

// ErrOutput is wrapped by the errors of trace sinks and report outputs.
var ErrOutput = errors.New("output failed")

// Process exit codes.
const (
	ExitOK             = 0
	ExitEmptyEventList = 1
	ExitOverflow       = 2
	ExitConfig         = 3
	ExitOutput         = 4
	ExitFailure        = 5
)

// ExitCode maps the outcome of a command to its exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var fatal *sim.FatalError
	if errors.As(err, &fatal) {
		switch fatal.Kind {
		case sim.FatalEmptyEventList:
			return ExitEmptyEventList
		case sim.FatalCapacityExceeded:
			return ExitOverflow
		case sim.FatalInvalidInput:
			return ExitConfig
		}
	}

	switch {
	case errors.Is(err, config.ErrInvalid), errors.Is(err, sim.ErrInvalidInput):
		return ExitConfig
	case errors.Is(err, ErrOutput):
		return ExitOutput
	default:
		return ExitFailure
	}
}
