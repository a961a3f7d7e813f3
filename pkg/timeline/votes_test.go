package timeline

import (
	"testing"

	"github.com/Psopho/twfynz/pkg/bill"
)

func voteContribution(v *bill.Vote) bill.Contribution {
	return bill.Contribution{Kind: bill.ContributionVote, Vote: v}
}

func speech(text string) bill.Contribution {
	return bill.Contribution{Kind: bill.ContributionSpeech, Text: text}
}

func TestVotesByStage(t *testing.T) {
	readVote := &bill.Vote{Question: "That the bill be now read a second time.", Result: "Motion agreed to."}
	amendment := &bill.Vote{Question: "That the amendment be agreed to.", Result: "Amendment not agreed to."}
	referral := &bill.Vote{Question: "That the bill be considered by a select committee.", Result: "Bill referred to the Health Committee."}
	clause := &bill.Vote{Question: "That clause 1 stand part.", Result: "Agreed to."}

	tests := []struct {
		name   string
		debate *bill.Debate
		want   []*bill.Vote
	}{
		{
			name: "reading vote",
			debate: &bill.Debate{
				Votes:         []*bill.Vote{amendment, readVote},
				Contributions: []bill.Contribution{speech("..."), voteContribution(readVote)},
			},
			want: []*bill.Vote{readVote},
		},
		{
			name: "reading vote followed by another",
			debate: &bill.Debate{
				Votes:         []*bill.Vote{readVote, amendment},
				Contributions: []bill.Contribution{voteContribution(readVote), voteContribution(amendment)},
			},
			want: []*bill.Vote{readVote, amendment},
		},
		{
			name: "referral vote",
			debate: &bill.Debate{
				Votes:         []*bill.Vote{amendment, referral},
				Contributions: []bill.Contribution{voteContribution(referral), speech("Bill referred to the Health Committee.")},
			},
			want: []*bill.Vote{referral},
		},
		{
			name: "final contribution is a vote",
			debate: &bill.Debate{
				Votes:         []*bill.Vote{clause},
				Contributions: []bill.Contribution{speech("..."), voteContribution(clause)},
			},
			want: []*bill.Vote{clause},
		},
		{
			name: "vote before closing procedural text",
			debate: &bill.Debate{
				Votes: []*bill.Vote{clause},
				Contributions: []bill.Contribution{
					voteContribution(clause),
					{Kind: bill.ContributionProcedural, Text: "Bill to be reported without amendment presently."},
				},
			},
			want: []*bill.Vote{clause},
		},
		{
			name: "no vote",
			debate: &bill.Debate{
				Contributions: []bill.Contribution{speech("Debate interrupted.")},
			},
		},
		{
			name:   "closing text alone",
			debate: &bill.Debate{Contributions: []bill.Contribution{speech("Bill referred to the Health Committee.")}},
		},
		{
			name:   "empty debate",
			debate: &bill.Debate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.debate.Name = "Second Reading"
			got := VotesByStage([]bill.DebateGroup{{Label: "Second Reading", Debates: []*bill.Debate{tt.debate}}})
			if len(got) != 1 || got[0].Label != "Second Reading" {
				t.Fatalf("VotesByStage() = %+v", got)
			}
			votes := got[0].Votes
			if len(votes) != len(tt.want) {
				t.Fatalf("got %d votes, want %d", len(votes), len(tt.want))
			}
			for i := range votes {
				if votes[i] != tt.want[i] {
					t.Errorf("vote %d = %+v, want %+v", i, votes[i], tt.want[i])
				}
			}
		})
	}
}

func TestVotesByStageUsesFirstDebate(t *testing.T) {
	first := &bill.Vote{Question: "That the bill be now read a third time.", Result: "Motion agreed to."}
	later := &bill.Vote{Question: "That the bill be now read a third time.", Result: "Motion not agreed to."}

	groups := []bill.DebateGroup{
		{Label: "Third Reading", Debates: []*bill.Debate{
			{ID: 1, Votes: []*bill.Vote{first}},
			{ID: 2, Votes: []*bill.Vote{later}},
		}},
		{Label: "In Committee"},
	}

	got := VotesByStage(groups)
	if len(got) != 2 {
		t.Fatalf("VotesByStage() returned %d stages", len(got))
	}
	if len(got[0].Votes) != 1 || got[0].Votes[0] != first {
		t.Errorf("Third Reading votes = %+v, want the first debate's vote", got[0].Votes)
	}
	if got[1].Votes != nil {
		t.Errorf("In Committee votes = %+v, want nil", got[1].Votes)
	}
}
