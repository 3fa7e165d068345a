// Package dynamo provides the numerical primitives shared by the tension
// engine.
//
// The package defines the fundamental interfaces and types for fixed-step
// integration of first-order systems:
//
//   - [State]: vector representing system state
//   - [Control]: exogenous inputs sampled per step (web speeds)
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//
// # Example
//
//	dyn := tension.NewZoneDynamics(params)
//	integ := integrators.NewEuler()
//	x = integ.Step(dyn, x, u, t, dt)
//
// # Thread Safety
//
// State values are plain slices and are not safe for concurrent mutation.
// [ParallelFor] hands each worker a disjoint index range so callers can
// fan out independent systems without locking.
package dynamo
