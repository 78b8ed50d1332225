package tui

import "github.com/Veraticus/gofinances/internal/aggregate"

// breakdownLoadedMsg carries the result of one load. seq identifies the
// request so that answers to superseded requests can be dropped.
type breakdownLoadedMsg struct {
	err       error
	breakdown aggregate.Breakdown
	skipped   int
	seq       int
}
