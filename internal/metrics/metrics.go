// Package metrics records plan generation and publishing counters.
package metrics

// Recorder receives plan lifecycle events.
type Recorder interface {
	PlanGenerated(mode string)
	PlanPublished()
	AssignmentsCreated(n int)
	Shortfall(category string, missing int)
}

// Nop discards every event.
type Nop struct{}

var _ Recorder = Nop{}

func NewNop() Nop { return Nop{} }

func (Nop) PlanGenerated(string)   {}
func (Nop) PlanPublished()         {}
func (Nop) AssignmentsCreated(int) {}
func (Nop) Shortfall(string, int)  {}
