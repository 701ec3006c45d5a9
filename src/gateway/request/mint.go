package request

type Mint struct {
	Amount uint64 `json:"amount" binding:"required"`
}
