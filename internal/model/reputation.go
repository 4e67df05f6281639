package model

// Reputation deltas mirror the original scoring: the doubt author gains 10
// per upvote received and loses 2 per downvote; a reply author gains 15 when
// their reply is approved. Retractions apply the inverse; the stored value is
// clamped at zero on write.
const (
	RepUpvote   int64 = 10
	RepDownvote int64 = -2
	RepApproval int64 = 15
)

// Reasons recorded on reputation events.
const (
	RepReasonVote     = "vote"
	RepReasonApproval = "approval"
)

// VoteReputationDelta is the doubt author's reputation change for a vote
// transitioning from the existing value to the new one.
func VoteReputationDelta(existing, next int8) int64 {
	var delta int64
	switch existing {
	case VoteUp:
		delta -= RepUpvote
	case VoteDown:
		delta -= RepDownvote
	}
	switch next {
	case VoteUp:
		delta += RepUpvote
	case VoteDown:
		delta += RepDownvote
	}
	return delta
}

// VoteOutcome is what a vote mutation reports back to the engine.
type VoteOutcome struct {
	Counts          VoteCounts
	DoubtAuthorID   uint64
	Value           int8 // stored vote value after the call, VoteNone on retraction
	ReputationDelta int64
}

// ApprovalOutcome is the state after an approval toggle.
type ApprovalOutcome struct {
	Doubt         *Doubt
	ReplyAuthorID uint64
	Approved      bool // true when the target ended up approved
}
