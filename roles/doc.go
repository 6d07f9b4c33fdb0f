// Package roles implements the combinatorics of hidden roles in 5-player
// Avalon: the viewpoints each player can privately hold, the 60 possible
// role assignments, and the team proposals available in each round.
//
// All tables are derived once at package initialization by enumeration
// and are read-only afterwards.
package roles

func init() {
	// Order matters: assignment viewpoints are looked up in the
	// viewpoint tables, which use the team enumeration.
	buildProposalTables()
	buildViewpointTables()
	buildAssignmentTables()
}
