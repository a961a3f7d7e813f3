package timeline

import (
	"strings"

	"github.com/Psopho/twfynz/pkg/bill"
)

// StageVotes are the deciding votes taken at one stage of a bill.
type StageVotes struct {
	Label string
	Votes []*bill.Vote
}

// VotesByStage picks the deciding votes for each debate group, taken from
// the first debate in the group. Groups where no vote can be identified
// are reported with nil Votes.
func VotesByStage(groups []bill.DebateGroup) []StageVotes {
	result := make([]StageVotes, 0, len(groups))
	for _, group := range groups {
		var votes []*bill.Vote
		if len(group.Debates) > 0 {
			votes = decidingVotes(group.Debates[0])
		}
		result = append(result, StageVotes{Label: group.Label, Votes: votes})
	}
	return result
}

func decidingVotes(d *bill.Debate) []*bill.Vote {
	votes := selectVotes(d.Votes, func(v *bill.Vote) bool {
		return strings.Contains(v.Question, "be now read")
	})

	if len(votes) == 0 {
		votes = selectVotes(d.Votes, func(v *bill.Vote) bool {
			return strings.Contains(v.Result, "Bill referred")
		})
	} else if last, ok := lastContribution(d); ok && last.IsVote() && *last.Vote != *votes[0] {
		votes = append(votes, last.Vote)
	}

	if len(votes) > 0 {
		return votes
	}

	last, ok := lastContribution(d)
	if !ok {
		return nil
	}
	if last.IsVote() {
		return []*bill.Vote{last.Vote}
	}
	if n := len(d.Contributions); n >= 2 && closesStage(last.Text) && d.Contributions[n-2].IsVote() {
		return []*bill.Vote{d.Contributions[n-2].Vote}
	}
	return nil
}

func closesStage(text string) bool {
	return strings.Contains(text, "Bill to be reported without amendment presently.") ||
		strings.Contains(text, "Bill referred to")
}

func selectVotes(votes []*bill.Vote, keep func(*bill.Vote) bool) []*bill.Vote {
	var selected []*bill.Vote
	for _, v := range votes {
		if v != nil && keep(v) {
			selected = append(selected, v)
		}
	}
	return selected
}

func lastContribution(d *bill.Debate) (bill.Contribution, bool) {
	if len(d.Contributions) == 0 {
		return bill.Contribution{}, false
	}
	return d.Contributions[len(d.Contributions)-1], true
}
