package response

import (
	"github.com/chocolate-network/ledger/src/engine"
)

type Review struct {
	Reviewer           string `json:"reviewer"`
	ProjectId          uint32 `json:"project_id"`
	Content            string `json:"content"`
	Status             string `json:"status"`
	ReasonKind         string `json:"reason_kind"`
	PointSnapshot      uint32 `json:"point_snapshot"`
	ReviewScore        uint8  `json:"review_score"`
	CollateralCurrency uint32 `json:"collateral_currency"`
}

func ReviewToResponse(review *engine.Review) *Review {
	return &Review{
		Reviewer:           string(review.Reviewer),
		ProjectId:          review.ProjectID,
		Content:            string(review.Content),
		Status:             string(review.ProposalStatus.Status),
		ReasonKind:         string(review.ProposalStatus.Reason.Kind),
		PointSnapshot:      review.PointSnapshot,
		ReviewScore:        review.ReviewScore,
		CollateralCurrency: uint32(review.CollateralCurrency),
	}
}
