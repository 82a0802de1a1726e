// Package analysis provides tools for studying growth paths.
//
//   - [Sweep]: run a model across a range of one parameter and compare the terminal
//     value of a variable with its closed-form steady state
//   - [HalfLife]: periods until the gap to a target has halved
//   - [GrowthRates]: per-period log growth of a series
//   - [ConvergenceSpeed]: implied exponential rate of convergence
//
// # Convergence
//
// In the Solow model the capital-output ratio closes its gap to κ* at roughly
// (1−α)(n+g+δ) per period:
//
//	path, _ := m.GenerateSequence(200, "kappa", true)
//	lambda := analysis.ConvergenceSpeed(path, m.SteadyState())
package analysis
