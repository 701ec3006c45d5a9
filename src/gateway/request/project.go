package request

type CreateProject struct {
	Owner    string `json:"owner" binding:"required"`
	Metadata string `json:"metadata"`
}
