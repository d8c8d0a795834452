package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/bubblechamber/internal/dynamo"
)

// Simulator drives an Engine at a fixed dt for a fixed duration and
// records the population time series. It is the headless host.
type Simulator struct {
	engine    *Engine
	metrics   []Metric
	observers []Observer
}

func New(engine *Engine) *Simulator {
	return &Simulator{
		engine:    engine,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Engine() *Engine { return s.engine }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	// Small epsilon so 1.0/0.1 style quotients don't lose a step.
	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	e := s.engine
	result.Samples = append(result.Samples, s.sample(StepStats{}))

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}
		if runErr != nil {
			break
		}

		stats := e.Step(cfg.Dt)
		result.StepsTaken++
		result.Totals.Add(stats)

		if cfg.ValidateState {
			if idx := firstInvalid(e); idx >= 0 {
				result.Errors = append(result.Errors, dynamo.SimError{
					Time:    e.Time(),
					Step:    i,
					Message: fmt.Sprintf("particle %d: %v", idx, dynamo.ErrInvalidState),
				})
				break
			}
		}

		frame := &Frame{
			Step:      i,
			Time:      e.Time(),
			Dt:        cfg.Dt,
			Chamber:   e.Chamber(),
			Particles: e.Particles(),
			Stats:     stats,
		}
		for _, m := range s.metrics {
			m.Observe(frame)
		}
		for _, obs := range s.observers {
			obs.OnStep(frame)
		}

		result.Samples = append(result.Samples, s.sample(stats))
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = e.Particles()

	return result, runErr
}

func (s *Simulator) sample(stats StepStats) Sample {
	e := s.engine
	alive, decaying := e.Counts()
	return Sample{
		Time:       e.Time(),
		Population: e.Len(),
		Alive:      alive,
		Decaying:   decaying,
		Energy:     e.Chamber().Energy(e.Particles()),
		Stats:      stats,
	}
}

func firstInvalid(e *Engine) int {
	ps := e.Particles()
	for i := range ps {
		if !ps[i].IsValid() {
			return i
		}
	}
	return -1
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return &dynamo.BoundsError{Param: "dt", Value: cfg.Dt, Want: "> 0"}
	}
	if cfg.Duration <= 0 {
		return &dynamo.BoundsError{Param: "duration", Value: cfg.Duration, Want: "> 0"}
	}
	return nil
}

// RunWithCallback steps until the duration elapses or callback returns
// false. The frame handed to callback is only valid during the call.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	e := s.engine
	for i := 0; e.Time() < cfg.Duration; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		stats := e.Step(cfg.Dt)
		if cfg.ValidateState && firstInvalid(e) >= 0 {
			return dynamo.SimError{Time: e.Time(), Step: i, Message: dynamo.ErrInvalidState.Error()}
		}

		frame := &Frame{
			Step:      i,
			Time:      e.Time(),
			Dt:        cfg.Dt,
			Chamber:   e.Chamber(),
			Particles: e.Particles(),
			Stats:     stats,
		}
		if !callback(frame) {
			return nil
		}
	}
	return nil
}
