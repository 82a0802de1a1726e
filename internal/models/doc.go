// Package models implements the course's growth and distribution models.
//
//   - [Solow]: Solow growth model iterated on the capital-output ratio κ
//   - [Malthus]: Malthusian model with prosperity-driven population growth
//   - [Gini]: two-class Gini coefficient
//
// Solow and Malthus implement [dynamo.Model], [dynamo.SteadyStater] and
// [dynamo.Configurable]. Variables are looked up by ASCII name ("kappa", "delta",
// "y") or by the Greek notation of the lecture notes ("κ", "δ").
package models
