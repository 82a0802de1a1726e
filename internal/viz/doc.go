// Package viz renders growth paths in the terminal.
//
// Static output is built on asciigraph and lipgloss:
//
//   - [SeriesChart]: one variable over time with title and axis labels
//   - [ConvergenceChart]: a path against its steady-state value
//   - [SupplyDemandChart]: the linear market diagram
//   - [PhaseDiagram]: x[t+1] against x[t] on a braille [Canvas]
//
// The live view is a Bubble Tea program stepping any dynamo.Model one period
// per tick.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the starting economy
//	V     - Chart the next variable
//	Tab   - Select parameter, Up/Down to tune it
//	[ ]   - Step through recorded periods
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
