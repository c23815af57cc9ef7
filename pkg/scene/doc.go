// Package scene builds a fully resolved star system from a seed and a
// configuration value.
//
// Build is a pure function: identical (seed, Config) inputs always produce
// an identical Scene. Every generated feature axis (orbit spacing, moons,
// rings, names, belt geometry, belt particles, star layout, starfield)
// draws from its own salted stream, so overriding one planet's size or
// color never perturbs anything else in the system.
package scene
