package hierarchy

import (
	"github.com/sarchlab/cachesim/recording"
)

// Builder can build configured simulators.
type Builder struct {
	cfg      Config
	recorder recording.DataRecorder
}

// MakeBuilder creates a builder with the default three-tier hierarchy.
func MakeBuilder() Builder {
	return Builder{
		cfg: DefaultConfig(),
	}
}

// WithConfig sets the hierarchy configuration of the builder.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithRecorder sets a recording backend that the simulator streams access
// results into.
func (b Builder) WithRecorder(r recording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// Build builds a simulator. It returns the configuration error when the
// hierarchy is invalid; the run must not start in that case.
func (b Builder) Build() (*Simulator, error) {
	s := NewSimulator()

	if b.recorder != nil {
		s.AttachRecorder(b.recorder)
	}

	if err := s.Configure(b.cfg); err != nil {
		return nil, err
	}

	return s, nil
}
