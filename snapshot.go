package deeprole

import (
	"github.com/timpalpant/deeprole/roles"
)

// Snapshot is a JSON-serializable view of a solved lookahead, used by
// bots that walk down the tree as play is observed.
type Snapshot struct {
	Type         string `json:"type"`
	Succeeds     int    `json:"succeeds"`
	Fails        int    `json:"fails"`
	ProposeCount int    `json:"propose_count"`
	Proposer     int    `json:"proposer"`
	Proposal     uint32 `json:"proposal,omitempty"`

	// Propose nodes.
	ProposeOptions  []uint32    `json:"propose_options,omitempty"`
	ProposeStrategy [][]float64 `json:"propose_strat,omitempty"`
	// Vote nodes: [player][viewpoint][reject, approve].
	VoteStrategy [][][]float64 `json:"vote_strat,omitempty"`
	// Mission nodes: [player][viewpoint][pass, fail].
	MissionStrategy [][][]float64 `json:"mission_strat,omitempty"`
	// TerminalMerlin nodes: [player][viewpoint][guess].
	MerlinStrategy [][][]float64 `json:"merlin_strat,omitempty"`
	// TerminalCutoff nodes: the belief to start the next lookahead from.
	NewBelief []float64 `json:"new_belief,omitempty"`

	Children []*Snapshot `json:"children,omitempty"`
}

// NewSnapshot captures the average strategies of the subtree rooted at node.
func NewSnapshot(node *Node, prior *AssignmentVector) *Snapshot {
	s := &Snapshot{
		Type:         node.Type.String(),
		Succeeds:     node.NumSucceeds,
		Fails:        node.NumFails,
		ProposeCount: node.ProposeCount,
		Proposer:     node.Proposer,
		Proposal:     uint32(node.Proposal),
	}

	switch node.Type {
	case Propose:
		for _, proposal := range roles.Proposals(node.Round()) {
			s.ProposeOptions = append(s.ProposeOptions, uint32(proposal))
		}
		for vp := 0; vp < roles.NumViewpoints; vp++ {
			s.ProposeStrategy = append(s.ProposeStrategy, node.AverageProposeStrategy(vp))
		}
	case Vote:
		s.VoteStrategy = playerStrategies(roles.AllPlayers, node.AverageVoteStrategy)
	case Mission:
		s.MissionStrategy = playerStrategies(node.Proposal, node.AverageMissionStrategy)
	case TerminalMerlin:
		s.MerlinStrategy = playerStrategies(roles.AllPlayers, node.AverageMerlinStrategy)
	case TerminalCutoff:
		belief, _ := node.Belief(prior)
		s.NewBelief = belief[:]
	}

	for i := range node.children {
		s.Children = append(s.Children, NewSnapshot(&node.children[i], prior))
	}

	return s
}

// playerStrategies collects the strategy of every viewpoint of every player.
// Players not in the given team have no entries.
func playerStrategies(players roles.Team, strategy func(player, vp int) []float64) [][][]float64 {
	result := make([][][]float64, roles.NumPlayers)
	players.Iter(func(player int) {
		for vp := 0; vp < roles.NumViewpoints; vp++ {
			result[player] = append(result[player], strategy(player, vp))
		}
	})

	return result
}
