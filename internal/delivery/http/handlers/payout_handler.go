package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/marktline/billing-service/internal/delivery/http/dto/response"
	payoutUsecase "github.com/marktline/billing-service/internal/usecase/payout"
)

type PayoutHandler struct {
	uc payoutUsecase.PayoutUsecase
}

func NewPayoutHandler(uc payoutUsecase.PayoutUsecase) *PayoutHandler {
	return &PayoutHandler{uc: uc}
}

func (h *PayoutHandler) RunPayouts(c echo.Context) error {
	result, err := h.uc.RunPayouts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PayoutHandler) ListSellerBatches(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	batches, err := h.uc.GetPayoutBatchesBySellerID(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]response.PayoutBatchResponse, len(batches))
	for i, batch := range batches {
		out[i] = response.PayoutBatchResponse{
			ID:            batch.ID,
			BatchNumber:   batch.BatchNumber,
			SellerID:      batch.SellerID,
			Commissions:   len(batch.CommissionIDs),
			TotalAmount:   batch.TotalAmount,
			Outcome:       string(batch.Outcome),
			FailureReason: batch.FailureReason,
			TransferID:    batch.TransferID,
			CreatedAt:     batch.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"batches": out})
}
