// Package deeprole computes approximate equilibrium values for 5-player
// Avalon with depth-limited CFR+.
//
// A lookahead tree is built from a proposal for a fixed number of further
// proposals. Every node carries one reach probability and one counterfactual
// value per viewpoint of each player, so the hidden role assignment never
// has to be sampled. Play beyond the lookahead is valued by a LeafEstimator.
// The values returned by Solve at the root are used as training data for
// the estimator itself.
package deeprole
