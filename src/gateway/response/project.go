package response

import (
	"github.com/chocolate-network/ledger/src/engine"
)

type Project struct {
	Id               uint32   `json:"id"`
	Owner            string   `json:"owner"`
	Metadata         string   `json:"metadata"`
	Status           string   `json:"status"`
	ReasonKind       string   `json:"reason_kind"`
	Reward           uint64   `json:"reward"`
	TotalUserScores  uint32   `json:"total_user_scores"`
	TotalReviewScore uint64   `json:"total_review_score"`
	NumberOfReviews  uint32   `json:"number_of_reviews"`
	Reviewers        []string `json:"reviewers"`
}

func ProjectToResponse(project *engine.Project) *Project {
	reviewers := make([]string, len(project.Reviewers))
	for i, reviewer := range project.Reviewers {
		reviewers[i] = string(reviewer)
	}

	return &Project{
		Id:               project.ID,
		Owner:            string(project.Owner),
		Metadata:         string(project.Metadata),
		Status:           string(project.ProposalStatus.Status),
		ReasonKind:       string(project.ProposalStatus.Reason.Kind),
		Reward:           uint64(project.Reward),
		TotalUserScores:  project.TotalUserScores,
		TotalReviewScore: project.TotalReviewScore,
		NumberOfReviews:  project.NumberOfReviews,
		Reviewers:        reviewers,
	}
}

type CreateProject struct {
	Id uint32 `json:"id"`
}
