package dto

// CreateReviewDTO is parsed from the "data" multipart field (JSON); up to
// five images arrive as multipart files alongside it.
type CreateReviewDTO struct {
	ProductID string `json:"productId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=5000"`
}

type SetReviewApprovalDTO struct {
	Approved bool `json:"approved"`
}
