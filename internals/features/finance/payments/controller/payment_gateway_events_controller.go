package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"studiofit_backend/internals/features/finance/payments/repository"
	helper "studiofit_backend/internals/helpers"
)

type PaymentGatewayEventController struct {
	log repository.EventLog
}

func NewPaymentGatewayEventController(log repository.EventLog) *PaymentGatewayEventController {
	return &PaymentGatewayEventController{log: log}
}

/* =======================================================================
   List
   Query params:
     - provider: stripe|midtrans
     - status: received|processing|success|failed|ignored
     - q: external id or event type
     - start, end: RFC3339 (received_at window)
     - page, per_page
======================================================================= */

// 🟢 GET /api/admin/payment-events
func (h *PaymentGatewayEventController) ListEvents(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	f := repository.EventFilter{
		Provider: strings.TrimSpace(c.Query("provider")),
		Status:   strings.TrimSpace(c.Query("status")),
		Q:        strings.TrimSpace(c.Query("q")),
	}
	if f.Start, err = queryTime(c, "start"); err != nil {
		return helper.FromError(c, err)
	}
	if f.End, err = queryTime(c, "end"); err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := h.log.List(c.UserContext(), caller.StudioID, f, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/admin/payment-events/:id
func (h *PaymentGatewayEventController) GetByID(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := h.log.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, helper.NewFieldError(key, "must be RFC3339")
	}
	return &t, nil
}
