// Script to count the nodes in a lookahead, to estimate memory and time per iteration.
package main

import (
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/gamestate"
)

func main() {
	var state gamestate.GameState
	depth := flag.Int("depth", 1, "Number of further proposals to expand before cutting off")
	flag.IntVar(&state.NumSucceeds, "num_succeeds", 0, "Number of missions that have succeeded")
	flag.IntVar(&state.NumFails, "num_fails", 0, "Number of missions that have failed")
	flag.IntVar(&state.ProposeCount, "propose_count", 0, "Number of rejected proposals this round")
	flag.IntVar(&state.Proposer, "proposer", 0, "Player making the next proposal")
	flag.Parse()

	start := time.Now()
	root, err := deeprole.NewLookahead(state, *depth)
	if err != nil {
		glog.Fatal(err)
	}
	glog.Infof("Built lookahead in %v", time.Since(start))

	counts := deeprole.CountNodesByType(root)
	total := 0
	for nodeType, n := range counts {
		glog.Infof("%v: %d", deeprole.NodeType(nodeType), n)
		total += n
	}

	glog.Infof("%d nodes in lookahead", total)
}
