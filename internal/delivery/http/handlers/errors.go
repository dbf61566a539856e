package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marktline/billing-service/internal/delivery/http/dto/response"
	"github.com/marktline/billing-service/internal/domain"
)

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	code := domain.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeAuthorization:
		status = http.StatusForbidden
	case domain.CodeStateConflict:
		status = http.StatusConflict
	case domain.CodeGateway:
		status = http.StatusBadGateway
	}

	return c.JSON(status, response.ErrorResponse{
		Error: err.Error(),
		Code:  string(code),
	})
}
