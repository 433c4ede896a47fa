// Package solver holds reference stable-matching solvers.
//
// They are fixtures: the oracle never calls them on its own. Tests and the
// `smoracle run` command use them to show that a correct implementation
// passes both oracles.
package solver
