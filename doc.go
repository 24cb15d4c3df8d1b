// Package chvi computes Pareto-optimal value bounds for finite-state
// Markov decision processes with vector-valued rewards under discounted
// expected return.
//
// Given an environment satisfying mdpapi.EnvironmentAPI, a discount factor
// per objective, and a convergence tolerance, the solver package produces,
// for the environment's initial state, a lower and upper approximation
// (bounds.Bounds) of the convex, downward-closed set of achievable
// expected-return vectors. Two drivers share the same curve algebra
// (pareto.Curve) and update rule:
//
//	solver.CHVISolver  — an asymptotic sweep over every reachable state
//	solver.BRTDPSolver — a heuristic, simulation-guided variant that
//	                     focuses updates along sampled trajectories
//
// Subpackages, leaves first:
//
//	vecops/      — elementwise vector arithmetic, dot product, distances
//	pareto/      — the 2-D convex-Pareto-curve algebra: hull, closure,
//	               Minkowski sum, point/Hausdorff distance
//	bounds/      — the (lower, upper) curve pair with cached Hausdorff gap
//	mdpapi/      — the EnvironmentAPI contract, settings, and error kinds
//	envwrap/     — per-state/per-(state,action) bound arena and discovery
//	solver/      — the CHVI and BRTDP drivers
//	mdpfile/     — an explicit transition/reward triplet-file parser
//	benchmarks/  — example EnvironmentAPI implementations (seatreasure)
//	telemetry/   — structured tracing and CSV/text result export
//	config/      — YAML + environment configuration loading
//	cmd/paretomdp — a CLI wiring config -> environment -> solver -> telemetry
//
//	go get github.com/go-pareto/chvi
package chvi
