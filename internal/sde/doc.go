// Package sde provides core primitives for randomly perturbed dynamical
// systems.
//
// The package defines the vocabulary shared by the integrator, the Monte
// Carlo simulator and the estimators:
//
//   - [State]: vector representing system state
//   - [Field]: deterministic vector field (dX/dt = f(X, t))
//   - [System]: field plus a diffusion loading for Gaussian increments
//   - [StepError]: failure annotated with the sample/step it occurred in
//
// A [System] may describe an augmented state holding several coupled
// processes; ApplyNoise receives one increment vector per step so that all
// processes inside the augmented state share the same noise path.
package sde
