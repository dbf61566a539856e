package request

type RunTaskRequest struct {
	TaskType   string `json:"task_type" validate:"required"`
	ExecuteNow bool   `json:"execute_now"`
}

type CreateLeadRequest struct {
	ListingID        string  `json:"listing_id" validate:"required"`
	ContactIdentity  string  `json:"contact_identity" validate:"required"`
	BuyerContact     string  `json:"buyer_contact" validate:"required"`
	Message          string  `json:"message"`
	VerificationTier string  `json:"verification_tier" validate:"required"`
	TrustScore       float64 `json:"trust_score" validate:"gte=0,lte=100"`
	RegisteredAt     string  `json:"registered_at" validate:"required"`
}

type PurchaseLeadRequest struct {
	PurchaserID string `json:"purchaser_id" validate:"required"`
}

type TransitionLeadRequest struct {
	ActorID string `json:"actor_id" validate:"required"`
}
