package response

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type CommissionResponse struct {
	ID               string     `json:"id"`
	ListingID        string     `json:"listing_id"`
	SellerID         string     `json:"seller_id"`
	SalePrice        int64      `json:"sale_price"`
	CommissionRate   float64    `json:"commission_rate"`
	OriginalAmount   int64      `json:"original_amount"`
	CommissionAmount int64      `json:"commission_amount"`
	Status           string     `json:"status"`
	InvoiceNumber    string     `json:"invoice_number,omitempty"`
	DueDate          time.Time  `json:"due_date"`
	PaidDate         *time.Time `json:"paid_date,omitempty"`
	LateFeeAmount    int64      `json:"late_fee_amount,omitempty"`
	LateFeeDays      int        `json:"late_fee_days,omitempty"`
}

type PayoutBatchResponse struct {
	ID            string    `json:"id"`
	BatchNumber   string    `json:"batch_number"`
	SellerID      string    `json:"seller_id"`
	Commissions   int       `json:"commissions"`
	TotalAmount   int64     `json:"total_amount"`
	Outcome       string    `json:"outcome"`
	FailureReason string    `json:"failure_reason,omitempty"`
	TransferID    string    `json:"transfer_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
