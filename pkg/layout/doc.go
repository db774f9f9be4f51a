// Package layout assigns 2D coordinates to graph vertices with a
// force-directed spring embedder.
//
// # Algorithm
//
// [Compute] runs a fixed number of simulation steps:
//
//  1. Vertices start on a circle of radius IdealEdgeLength*sqrt(n), in index
//     order, perturbed by a small seeded jitter.
//  2. Every step sums, per vertex, a Coulomb repulsion from every other
//     vertex (proportional to 1/d²), a Hooke attraction along each incident
//     edge (proportional to d minus the ideal length) and a weak pull towards
//     the centroid that keeps disconnected components together.
//  3. Each vertex moves along its net force by at most the current
//     temperature, which decays linearly from its initial value to near zero.
//
// There is no convergence test. The iteration budget alone bounds the run, so
// timing and output are fully reproducible. Graphs with at most one vertex
// skip the simulation and are placed at the canvas center.
//
// After the loop, coordinates are scaled uniformly and centered to fit
// Width×Height inside Margin, then optionally snapped to a [Grid].
//
// # Determinism
//
// All randomness comes from a PCG source seeded by [Options.Seed], or by the
// vertex count when Seed is zero. With Workers > 1 large graphs accumulate
// forces in parallel, but every vertex still sums its own contributions in
// index order, so results are bit-identical to a sequential run.
//
// # Example
//
//	g, _ := graph6.Decode("Dhc")
//	coords := layout.Compute(g, layout.DefaultOptions())
//	for v, p := range coords {
//	    fmt.Printf("%d: (%.1f, %.1f)\n", v, p.X, p.Y)
//	}
package layout
