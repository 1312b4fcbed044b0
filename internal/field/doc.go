// Package field evaluates the electrostatic field of a point-charge set.
//
// The central type is [Evaluator], a pure view over a charge registry:
//
//   - [Evaluator.At]: superposed field vector E(p) = k_e Σ q_i (p-r_i)/|p-r_i|³
//   - [Evaluator.PotentialAt]: scalar potential V(p) = k_e Σ q_i/|p-r_i|
//   - [Evaluator.ForceOn]: Coulomb force on a test charge, F = q_t E(p)
//
// Evaluation is deterministic and side-effect free, so an Evaluator may be
// shared across goroutines for different query points.
//
// # Singularity guard
//
// A query point within GuardRadius of a charge would divide by near-zero.
// Field and potential evaluation skip that charge's contribution; force
// evaluation clamps the distance to the guard instead, so a probe dragged
// onto a charge still reports a finite, correctly-signed force. The same
// radius applies to grid sampling and line tracing so singularity behavior
// is consistent everywhere.
package field
