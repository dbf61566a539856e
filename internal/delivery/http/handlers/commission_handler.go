package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/marktline/billing-service/internal/delivery/http/dto/response"
	"github.com/marktline/billing-service/internal/domain"
	commissionUsecase "github.com/marktline/billing-service/internal/usecase/commission"
)

type CommissionHandler struct {
	uc commissionUsecase.CommissionUsecase
}

func NewCommissionHandler(uc commissionUsecase.CommissionUsecase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

func toCommissionResponse(commission *domain.Commission) response.CommissionResponse {
	return response.CommissionResponse{
		ID:               commission.ID,
		ListingID:        commission.ListingID,
		SellerID:         commission.SellerID,
		SalePrice:        commission.SalePrice,
		CommissionRate:   commission.CommissionRate,
		OriginalAmount:   commission.OriginalAmount,
		CommissionAmount: commission.CommissionAmount,
		Status:           string(commission.Status),
		InvoiceNumber:    commission.InvoiceNumber,
		DueDate:          commission.DueDate,
		PaidDate:         commission.PaidDate,
		LateFeeAmount:    commission.LateFee.FeeAmount,
		LateFeeDays:      commission.LateFee.DaysOverdue,
	}
}

func (h *CommissionHandler) GetCommission(c echo.Context) error {
	commission, err := h.uc.GetCommissionByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCommissionResponse(commission))
}

func (h *CommissionHandler) ListSellerCommissions(c echo.Context) error {
	var statuses []domain.CommissionStatus
	if raw := c.QueryParam("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, domain.CommissionStatus(strings.ToUpper(strings.TrimSpace(s))))
		}
	}

	commissions, err := h.uc.GetCommissionsBySellerID(c.Request().Context(), c.Param("id"), statuses)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]response.CommissionResponse, len(commissions))
	for i, commission := range commissions {
		out[i] = toCommissionResponse(commission)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"commissions": out})
}

func (h *CommissionHandler) MarkDisputed(c echo.Context) error {
	if err := h.uc.MarkDisputed(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommissionHandler) CancelCommission(c echo.Context) error {
	if err := h.uc.CancelCommission(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
