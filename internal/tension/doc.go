// Package tension simulates web tension and strain in every zone of a
// roll-to-roll line.
//
// A run has three stages after the line layout is known:
//
//   - [Parameterize] turns each zone and its tension-group placement into
//     a strain set-point, a set-point tension, a damping rate and a
//     length-normalized speed-mismatch gain.
//   - [Engine] integrates one first-order relaxation per zone on a fixed
//     grid (dt = 0.01 s, 6 s) with the explicit Euler stepper.
//   - [Result] zips the shared time axis with per-zone tension and strain
//     sequences, keyed by zone id in line order.
//
// Per zone the state is the scalar strain ε:
//
//	dε/dt = gain·(v_up − v_down) − damping·(ε − ε_set)
//	T     = max(EA·ε, 0)
//
// Upstream and downstream speeds currently both follow the line-speed ramp,
// so the mismatch term is zero; it is still evaluated every step.
//
// Zones are independent, so the engine integrates them concurrently. Each
// zone's own sequence is strictly sequential and results do not depend on
// the worker count.
package tension
