package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nexus-suite/helpdesk/internal/auth"
	"github.com/nexus-suite/helpdesk/internal/service"
	"github.com/nexus-suite/helpdesk/internal/view"
	apperrors "github.com/nexus-suite/helpdesk/pkg/errorutil"
)

func init() {
	apperrors.Register(
		apperrors.Mapping{Target: auth.ErrInvalidCredentials, Build: func(err error) *apperrors.DomainError {
			return &apperrors.DomainError{Code: "UNAUTHORIZED", Message: auth.RejectionMessage, HTTPStatus: http.StatusUnauthorized, Err: err}
		}},
		mapTo(service.ErrEmptyMessage, "VALIDATION_FAILED", http.StatusBadRequest),
		mapTo(service.ErrDescriptionRequired, "VALIDATION_FAILED", http.StatusBadRequest),
		mapTo(service.ErrInvalidCategory, "VALIDATION_FAILED", http.StatusBadRequest),
		mapTo(service.ErrInvalidPriority, "VALIDATION_FAILED", http.StatusBadRequest),
		mapTo(service.ErrSendPending, "CONFLICT", http.StatusConflict),
		mapTo(service.ErrNothingToEscalate, "CONFLICT", http.StatusConflict),
		mapTo(service.ErrTicketReopen, "CONFLICT", http.StatusConflict),
		mapTo(view.ErrInvalidTransition, "CONFLICT", http.StatusConflict),
		mapTo(service.ErrNotEmployeeDashboard, "FORBIDDEN", http.StatusForbidden),
		mapTo(service.ErrTicketNotFound, "NOT_FOUND", http.StatusNotFound),
	)
}

func mapTo(target error, code string, status int) apperrors.Mapping {
	return apperrors.Mapping{Target: target, Build: func(err error) *apperrors.DomainError {
		return &apperrors.DomainError{Code: code, Message: err.Error(), HTTPStatus: status, Err: err}
	}}
}

// notFound answers unmatched routes in the standard error shape.
func notFound(c *fiber.Ctx) error {
	return apperrors.NewNotFound("route", map[string]any{"path": c.Path()})
}
