package dispatch

import "time"

// Stage is one grid-total pass. Done, when set, runs on the scheduling
// goroutine after the barrier, typically to swap ping-pong buffers.
type Stage struct {
	Name   string
	Rows   int
	Kernel Kernel
	Done   func()
}

// Timing records how long a stage took during the last Run.
type Timing struct {
	Name     string
	Duration time.Duration
}

// Schedule is an ordered list of stages executed strictly one after another.
type Schedule struct {
	stages  []Stage
	timings []Timing
}

// Add appends a stage.
func (s *Schedule) Add(name string, rows int, kernel Kernel, done func()) {
	s.stages = append(s.stages, Stage{Name: name, Rows: rows, Kernel: kernel, Done: done})
}

// Append appends an already built stage list.
func (s *Schedule) Append(stages ...Stage) {
	s.stages = append(s.stages, stages...)
}

// Len returns the number of queued stages.
func (s *Schedule) Len() int { return len(s.stages) }

// Reset drops every stage, keeping capacity for the next frame.
func (s *Schedule) Reset() {
	s.stages = s.stages[:0]
}

// Run executes every stage through p in order, waiting for each to finish
// before the next begins. A nil pool runs the rows on the calling goroutine.
func (s *Schedule) Run(p *Pool) {
	s.timings = s.timings[:0]
	for _, st := range s.stages {
		start := time.Now()
		switch {
		case st.Kernel == nil:
		case p == nil:
			for row := 0; row < st.Rows; row++ {
				st.Kernel(row)
			}
		default:
			p.Run(st.Rows, st.Kernel)
		}
		if st.Done != nil {
			st.Done()
		}
		s.timings = append(s.timings, Timing{Name: st.Name, Duration: time.Since(start)})
	}
}

// Timings returns per-stage durations of the last Run. The slice is reused by
// the next Run.
func (s *Schedule) Timings() []Timing { return s.timings }

// Total sums the durations of the last Run.
func (s *Schedule) Total() time.Duration {
	var d time.Duration
	for _, t := range s.timings {
		d += t.Duration
	}
	return d
}
