package request

type CreateReview struct {
	Reviewer           string `json:"reviewer" binding:"required"`
	Score              uint8  `json:"score"`
	Content            string `json:"content"`
	CollateralCurrency uint32 `json:"collateral_currency"`
}
