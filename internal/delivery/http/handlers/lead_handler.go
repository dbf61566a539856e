package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/marktline/billing-service/internal/delivery/http/dto/request"
	"github.com/marktline/billing-service/internal/domain"
	leaddto "github.com/marktline/billing-service/internal/usecase/dto/lead"
	leadUsecase "github.com/marktline/billing-service/internal/usecase/lead"
)

type LeadHandler struct {
	uc       leadUsecase.LeadUsecase
	validate *validator.Validate
}

func NewLeadHandler(uc leadUsecase.LeadUsecase) *LeadHandler {
	return &LeadHandler{
		uc:       uc,
		validate: validator.New(),
	}
}

func (h *LeadHandler) CreateLead(c echo.Context) error {
	var req request.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.NewValidationError("invalid request body"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return writeError(c, domain.NewValidationError(err.Error()))
	}

	registeredAt, err := time.Parse(time.RFC3339, req.RegisteredAt)
	if err != nil {
		return writeError(c, domain.NewValidationError("registered_at must be RFC3339"))
	}

	out, err := h.uc.CreateLead(c.Request().Context(), &leaddto.CreateLeadInput{
		ListingID:       req.ListingID,
		ContactIdentity: req.ContactIdentity,
		BuyerContact:    req.BuyerContact,
		Message:         req.Message,
		Buyer: domain.BuyerProfile{
			VerificationTier: domain.VerificationTier(req.VerificationTier),
			TrustScore:       req.TrustScore,
			RegisteredAt:     registeredAt,
		},
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *LeadHandler) PurchaseLead(c echo.Context) error {
	var req request.PurchaseLeadRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.NewValidationError("invalid request body"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return writeError(c, domain.NewValidationError(err.Error()))
	}

	out, err := h.uc.PurchaseLead(c.Request().Context(), &leaddto.PurchaseLeadInput{
		LeadID:      c.Param("id"),
		PurchaserID: req.PurchaserID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LeadHandler) MarkContacted(c echo.Context) error {
	return h.transition(c, h.uc.MarkContacted)
}

func (h *LeadHandler) MarkConverted(c echo.Context) error {
	return h.transition(c, h.uc.MarkConverted)
}

func (h *LeadHandler) MarkNotInterested(c echo.Context) error {
	return h.transition(c, h.uc.MarkNotInterested)
}

func (h *LeadHandler) InvalidateLead(c echo.Context) error {
	return h.transition(c, h.uc.InvalidateLead)
}

func (h *LeadHandler) transition(c echo.Context, apply func(ctx context.Context, input *leaddto.TransitionInput) error) error {
	var req request.TransitionLeadRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.NewValidationError("invalid request body"))
	}
	if err := h.validate.Struct(&req); err != nil {
		return writeError(c, domain.NewValidationError(err.Error()))
	}

	err := apply(c.Request().Context(), &leaddto.TransitionInput{
		LeadID:  c.Param("id"),
		ActorID: req.ActorID,
		At:      time.Now(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LeadHandler) GetLead(c echo.Context) error {
	out, err := h.uc.GetLeadByID(c.Request().Context(), c.Param("id"), c.QueryParam("caller_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LeadHandler) ListSellerLeads(c echo.Context) error {
	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	filters := domain.LeadFilters{ListingID: c.QueryParam("listing_id")}
	if status := c.QueryParam("status"); status != "" {
		filters.Statuses = []domain.LeadStatus{domain.LeadStatus(status)}
	}

	leads, total, err := h.uc.GetLeadsBySellerID(c.Request().Context(), &leaddto.ListLeadsInput{
		SellerID: c.Param("id"),
		Page:     page,
		Limit:    limit,
		Filters:  filters,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"leads": leads,
		"total": total,
	})
}
