package deeprole

import (
	"gonum.org/v1/gonum/floats"
)

// FullReachProbabilities returns the probability of reaching the node
// under each assignment.
func (n *Node) FullReachProbabilities() AssignmentVector {
	if n.fullReachProbs != nil {
		return *n.fullReachProbs
	}

	var result AssignmentVector
	n.fillFullReachProbabilities(&result)
	return result
}

// Belief returns the posterior distribution over assignments at the node
// given the prior, along with the total (unnormalized) probability
// of reaching it. If the node is unreachable, the belief is all zeros.
func (n *Node) Belief(prior *AssignmentVector) (AssignmentVector, float64) {
	belief := n.FullReachProbabilities()
	floats.Mul(belief[:], prior[:])
	total := floats.Sum(belief[:])
	if total > 0 {
		floats.Scale(1.0/total, belief[:])
	}

	return belief, total
}
