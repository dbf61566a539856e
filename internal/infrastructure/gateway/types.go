package gateway

type createInvoiceRequest struct {
	CustomerRef string            `json:"customer_ref"`
	Amount      int64             `json:"amount"`
	DueInDays   int               `json:"due_in_days"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type createInvoiceResponse struct {
	InvoiceID string `json:"invoice_id"`
}

type paymentIntentResponse struct {
	Status string `json:"status"`
}

type createTransferRequest struct {
	DestinationRef string `json:"destination_ref"`
	Amount         int64  `json:"amount"`
}

type createTransferResponse struct {
	TransferID string `json:"transfer_id"`
}

type subscriptionResponse struct {
	Status      string `json:"status"`
	PeriodStart int64  `json:"period_start"`
	PeriodEnd   int64  `json:"period_end"`
}

type chargeRequest struct {
	CustomerRef string `json:"customer_ref"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type chargeResponse struct {
	ChargeID string `json:"charge_id"`
}
