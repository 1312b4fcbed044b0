// Package trace integrates electric field lines.
//
// A field line is the solution of d(pos)/dt = E(pos)/|E(pos)|: the unit
// tangent keeps the geometry independent of field strength, so line density
// rather than line length conveys intensity. Integration uses the adaptive
// Dormand-Prince scheme from [ode] over a fixed parametric interval sampled
// at a fixed number of points, which bounds every trace.
//
// Where the field vanishes (the midpoint of a symmetric dipole, or a seed
// that has run into a charge) the tangent is defined as zero and the line
// stalls in place for the rest of the interval. That is a valid line, not
// an error. A trace that produces NaN or Inf is reported per seed and
// skipped by batch tracing; one bad seed never aborts the batch.
package trace
