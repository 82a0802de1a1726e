// Package dynamo provides the core primitives for discrete-time economic models.
//
// The package defines the shared vocabulary every model and tool speaks:
//
//   - [State]: vector snapshot of a model's named variables
//   - [Model]: a stateful difference-equation model (update, reset, lookup by name)
//   - [SteadyStater]: models with a closed-form steady state
//   - [Configurable]: models whose parameters can be read and set by name
//   - [Simulator]: drives a model for a number of periods, recording every variable
//
// # Example
//
//	m := models.NewSolow(models.DefaultSolowParams())
//	s := dynamo.New(m)
//	result, _ := s.Run(ctx, dynamo.DefaultConfig())
//	kappa := result.Series("kappa")
//
// # Period convention
//
// Every recorder in this package captures a variable's value before the update of
// that period is applied. A run of T periods therefore yields T observations starting
// at t=0 and never includes the state after the final update.
//
// # Thread Safety
//
// Models and Simulator instances are NOT thread-safe. Each instance is owned by a
// single caller.
package dynamo
