package server

// recordVote upserts the voter's ballot for the active round. Last write
// wins; an empty votedForID is an abstention. Votes are only accepted while
// the round is in its voting window.
func recordVote(game *Game, voterID, votedForID string) (*VoteEntry, error) {
	round := currentRound(game)
	if round == nil {
		return nil, ErrInvalidTransition
	}
	if round.Status == roundCompleted {
		return nil, ErrRoundCompleted
	}
	if round.Status != roundVoting {
		return nil, ErrInvalidTransition
	}
	if !isParticipant(game, voterID) {
		return nil, ErrNotAParticipant
	}
	if votedForID != "" && !isParticipant(game, votedForID) {
		return nil, ErrNotAParticipant
	}

	for i := range round.Votes {
		if round.Votes[i].VoterID == voterID {
			round.Votes[i].VotedForID = votedForID
			return &round.Votes[i], nil
		}
	}
	round.Votes = append(round.Votes, VoteEntry{
		VoterID:    voterID,
		VotedForID: votedForID,
	})
	return &round.Votes[len(round.Votes)-1], nil
}

// tallyVotes counts ballots per candidate. Purely derived and side-effect
// free; safe to call in any phase, including after resolution for display.
// The tally never decides who is eliminated: that declaration is the game
// master's.
func tallyVotes(round *RoundState) map[string]int {
	counts := make(map[string]int)
	if round == nil {
		return counts
	}
	for _, vote := range round.Votes {
		if vote.VotedForID != "" {
			counts[vote.VotedForID]++
		}
	}
	return counts
}
