package sim

// An Engine drives one model through a simulation run. The model sees the
// engine through its Env.
type Engine interface {
	Hookable
	Env

	// State returns the lifecycle state of the engine.
	State() State

	// Run processes events until the model reports completion or a fatal
	// condition stops the run.
	Run() (Summary, Stats, error)
}

var _ Engine = (*SerialEngine)(nil)
