package deeprole

import (
	"fmt"
	"math/bits"

	"github.com/timpalpant/deeprole/gamestate"
	"github.com/timpalpant/deeprole/roles"
)

// NodeType represents the kind of decision (or outcome) at a node
// in the lookahead tree.
type NodeType uint8

const (
	Propose NodeType = iota
	Vote
	Mission
	// The good team won three missions; the Assassin guesses Merlin.
	TerminalMerlin
	// Five proposals in a row were rejected; evil wins.
	TerminalNoConsensus
	// Three missions failed; evil wins.
	TerminalTooManyFails
	// The depth budget ran out; values come from the leaf estimator.
	TerminalCutoff
)

var nodeTypeStr = [...]string{
	"PROPOSE",
	"VOTE",
	"MISSION",
	"TERMINAL_MERLIN",
	"TERMINAL_NO_CONSENSUS",
	"TERMINAL_TOO_MANY_FAILS",
	"TERMINAL_PROPOSE_NN",
}

// NumNodeTypes is the number of distinct NodeTypes.
const NumNodeTypes = len(nodeTypeStr)

func (t NodeType) String() string {
	return nodeTypeStr[t]
}

// IsTerminal returns whether nodes of this type have no children.
func (t NodeType) IsTerminal() bool {
	return t >= TerminalMerlin
}

// Node is a public state in the lookahead tree. Every player's private
// information is represented by a vector over their viewpoints, so a
// single tree is shared by all hidden role assignments.
//
// Nodes exclusively own their children. All vectors and strategy tables
// are allocated once when the tree is built and updated in place on every
// iteration.
type Node struct {
	Type NodeType
	gamestate.GameState
	// Proposal is the team under consideration at Vote and Mission nodes.
	Proposal roles.Team
	// Fails is the log of failed missions on the path to this node.
	Fails gamestate.History

	// ReachProbs[player][viewpoint] is the probability that the player
	// plays to reach this node given they hold the viewpoint.
	ReachProbs [roles.NumPlayers]ViewpointVector
	// Values[player][viewpoint] is the counterfactual value of this node.
	Values [roles.NumPlayers]ViewpointVector

	// Only set on terminal nodes.
	fullReachProbs *AssignmentVector

	propose *proposeData
	vote    *binaryData
	mission *binaryData
	merlin  *guessData

	children []Node
}

// NewLookahead builds the tree of all play from a proposal in the given
// state, expanding at most depth further proposals before cutting off.
func NewLookahead(state gamestate.GameState, depth int) (*Node, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	if depth < 0 {
		return nil, fmt.Errorf("invalid depth: %d", depth)
	}

	root := &Node{
		Type:      Propose,
		GameState: state,
	}
	root.buildChildren(depth)
	root.allocate()
	return root, nil
}

// NumChildren returns the number of children of the node.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// GetChild returns the i'th child of the node. Children of Propose nodes
// are ordered as roles.Proposals, children of Vote nodes by the bitmask
// of approving players, and children of Mission nodes by number of fails.
func (n *Node) GetChild(i int) *Node {
	return &n.children[i]
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	switch n.Type {
	case Vote, Mission:
		return fmt.Sprintf("%v: %v, proposal %v, fails %v",
			n.Type, n.GameState, n.Proposal, n.Fails.String())
	default:
		return fmt.Sprintf("%v: %v, fails %v", n.Type, n.GameState, n.Fails.String())
	}
}

// copyParent returns a node with the public state of the parent,
// but no children or vectors.
func (n *Node) copyParent() Node {
	return Node{
		Type:      n.Type,
		GameState: n.GameState,
		Proposal:  n.Proposal,
		Fails:     n.Fails,
	}
}

func (n *Node) buildChildren(depth int) {
	switch n.Type {
	case Propose:
		n.buildProposeChildren(depth)
	case Vote:
		n.buildVoteChildren(depth)
	case Mission:
		n.buildMissionChildren(depth)
	case TerminalMerlin, TerminalNoConsensus, TerminalTooManyFails, TerminalCutoff:
	default:
		panic(fmt.Errorf("unimplemented node type: %v", n.Type))
	}
}

func (n *Node) buildProposeChildren(depth int) {
	proposals := roles.Proposals(n.Round())
	n.children = make([]Node, len(proposals))
	for i, proposal := range proposals {
		child := &n.children[i]
		*child = n.copyParent()
		child.Type = Vote
		child.Proposal = proposal
		child.buildChildren(depth)
	}
}

func (n *Node) buildVoteChildren(depth int) {
	n.children = make([]Node, 1<<roles.NumPlayers)
	for votes := range n.children {
		child := &n.children[votes]
		*child = n.copyParent()
		// The next proposal is always made by the next player,
		// whether or not this one is approved.
		child.Proposer = gamestate.NextPlayer(n.Proposer)

		if bits.OnesCount(uint(votes)) <= roles.NumPlayers/2 {
			// Proposal rejected.
			child.ProposeCount++
			child.Proposal = 0
			switch {
			case child.ProposeCount == roles.MaxProposeCount:
				child.Type = TerminalNoConsensus
			case depth == 0:
				child.Type = TerminalCutoff
			default:
				child.Type = Propose
				child.buildChildren(depth - 1)
			}
		} else {
			child.ProposeCount = 0
			child.Type = Mission
			child.buildChildren(depth)
		}
	}
}

func (n *Node) buildMissionChildren(depth int) {
	if n.Proposal.Len() != roles.TeamSize(n.Round()) {
		panic(fmt.Errorf("mission with team %v in round %d", n.Proposal, n.Round()))
	}

	n.children = make([]Node, roles.NumEvil+1)
	for numFails := range n.children {
		child := &n.children[numFails]
		*child = n.copyParent()
		if numFails == 0 {
			child.NumSucceeds++
		} else {
			child.NumFails++
			child.Fails.Append(n.Proposal, numFails)
		}

		switch {
		case child.NumFails == roles.NumMissionsToWin:
			child.Type = TerminalTooManyFails
		case child.NumSucceeds == roles.NumMissionsToWin:
			child.Type = TerminalMerlin
		case depth == 0:
			child.Type = TerminalCutoff
		default:
			child.Type = Propose
			child.Proposal = 0
			child.buildChildren(depth - 1)
		}
	}
}

// allocate initializes the vectors and strategy tables of the subtree.
func (n *Node) allocate() {
	for player := range n.ReachProbs {
		for vp := range n.ReachProbs[player] {
			n.ReachProbs[player][vp] = 1.0
		}
		n.Values[player] = ViewpointVector{}
	}

	switch n.Type {
	case Propose:
		n.propose = &proposeData{}
	case Vote:
		n.vote = &binaryData{}
	case Mission:
		n.mission = &binaryData{}
	case TerminalMerlin:
		n.merlin = &guessData{}
	}

	if n.Type.IsTerminal() {
		n.fullReachProbs = &AssignmentVector{}
	}

	for i := range n.children {
		n.children[i].allocate()
	}
}
