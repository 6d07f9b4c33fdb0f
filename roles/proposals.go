package roles

import (
	"fmt"
)

// NumProposalOptions is the number of distinct teams that may be proposed
// in any round: 5 choose 2 == 5 choose 3 == 10.
const NumProposalOptions = 10

// The number of players sent on the mission in each round.
var roundToTeamSize = [...]int{2, 3, 2, 3, 3}

var (
	indexToProposal [NumPlayers + 1][]Team
	proposalToIndex [1 << NumPlayers]int
)

func buildProposalTables() {
	for i := range proposalToIndex {
		proposalToIndex[i] = -1
	}

	for _, size := range roundToTeamSize {
		if indexToProposal[size] != nil {
			continue
		}

		proposals := enumerateTeams(0, size, Team(0), nil)
		if len(proposals) != NumProposalOptions {
			panic(fmt.Errorf("expected %d proposals of size %d, got %d",
				NumProposalOptions, size, len(proposals)))
		}

		for i, proposal := range proposals {
			proposalToIndex[proposal] = i
		}
		indexToProposal[size] = proposals
	}
}

// enumerateTeams returns all teams of the given size whose members are
// drawn from [start, NumPlayers), in lexicographic order of members.
func enumerateTeams(start, size int, current Team, result []Team) []Team {
	if size == 0 {
		return append(result, current)
	}

	for player := start; player <= NumPlayers-size; player++ {
		result = enumerateTeams(player+1, size-1, current|(1<<uint(player)), result)
	}

	return result
}

// TeamSize returns the number of players on the mission in the given round.
func TeamSize(round int) int {
	if round < 0 || round >= len(roundToTeamSize) {
		panic(fmt.Errorf("round %d out of range [0, %d)", round, len(roundToTeamSize)))
	}

	return roundToTeamSize[round]
}

// Proposals returns the available team proposals in the given round.
// The returned slice must not be modified.
func Proposals(round int) []Team {
	return indexToProposal[TeamSize(round)]
}

// ProposalIndex returns the index of the given team within Proposals
// for a round with the same team size.
func ProposalIndex(proposal Team) int {
	idx := proposalToIndex[proposal]
	if idx < 0 {
		panic(fmt.Errorf("%v is not a valid proposal", proposal))
	}

	return idx
}
