package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"studiofit_backend/internals/features/finance/invoices/dto"
	"studiofit_backend/internals/features/finance/invoices/model"
	"studiofit_backend/internals/features/finance/invoices/repository"
	"studiofit_backend/internals/features/finance/payments/provider"
	"studiofit_backend/internals/features/studio/profiles"
	helper "studiofit_backend/internals/helpers"
)

type InvoiceController struct {
	repo     repository.Repository
	checkout provider.Checkout
	profiles profiles.Resolver
	siteURL  string
	log      *zap.Logger
}

func NewInvoiceController(repo repository.Repository, checkout provider.Checkout, resolver profiles.Resolver, siteURL string, log *zap.Logger) *InvoiceController {
	return &InvoiceController{repo: repo, checkout: checkout, profiles: resolver, siteURL: siteURL, log: log}
}

// 🟢 GET /api/invoices
func (ctrl *InvoiceController) List(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	clientID, err := helper.ParseUUIDQuery(c, "client_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	q := dto.ListInvoiceQuery{Status: c.Query("status"), ClientID: clientID}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.List(c.UserContext(), caller.StudioID, q, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

// 🟢 GET /api/invoices/:id
func (ctrl *InvoiceController) Get(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// 🟢 POST /api/invoices
func (ctrl *InvoiceController) Create(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateInvoiceRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := req.ToModel(caller.StudioID)
	if err != nil {
		return helper.FromError(c, err)
	}
	ok, err := ctrl.repo.ClientOwns(c.UserContext(), caller.StudioID, *m.ClientID, m.EnrollmentID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Client or enrollment not found")
	}
	if err := ctrl.repo.Create(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Invoice created", m)
}

// 🟢 POST /api/invoices/:id/checkout
func (ctrl *InvoiceController) Checkout(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	inv, err := ctrl.repo.Find(c.UserContext(), caller.StudioID, id)
	if err != nil {
		return helper.FromError(c, err)
	}

	switch {
	case caller.IsAdmin():
	case caller.IsClient():
		own, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
		if err != nil {
			return helper.FromError(c, err)
		}
		if inv.ClientID == nil || *inv.ClientID != own {
			return helper.JsonError(c, fiber.StatusNotFound, helper.MsgNotFound)
		}
	default:
		return helper.JsonError(c, fiber.StatusForbidden, helper.MsgAccessDenied)
	}

	if inv.Status == model.StatusPaid {
		return helper.JsonError(c, fiber.StatusConflict, "Invoice already paid")
	}
	if !inv.Payable() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invoice cannot be paid")
	}

	req := provider.CheckoutRequest{
		Reference:  inv.Number,
		Amount:     inv.Amount,
		Currency:   inv.Currency,
		Metadata:   map[string]string{provider.MetaInvoiceID: inv.ID.String()},
		SuccessURL: ctrl.siteURL + "/client/invoices?paid=" + inv.Number,
		CancelURL:  ctrl.siteURL + "/client/invoices",
	}
	req.Description = "Invoice " + inv.Number
	if inv.Description != nil {
		req.Description = *inv.Description
	}
	if inv.EnrollmentID != nil {
		req.Metadata[provider.MetaEnrollmentID] = inv.EnrollmentID.String()
	}
	if inv.ClientID != nil {
		if contact, err := ctrl.repo.Contact(c.UserContext(), *inv.ClientID); err == nil {
			req.Name, req.Email = contact.Name, contact.Email
		}
	}

	res, err := ctrl.checkout.Create(c.UserContext(), req)
	if errors.Is(err, provider.ErrDisabled) {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Payments not configured")
	}
	if err != nil {
		ctrl.log.Error("checkout failed", zap.String("invoice_id", inv.ID.String()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusBadGateway, "Payment provider error")
	}
	if err := ctrl.repo.SaveCheckout(c.UserContext(), inv.ID, res.Provider, res.SessionID, res.URL); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Checkout created", dto.CheckoutResponse{
		InvoiceID:   inv.ID,
		Provider:    res.Provider,
		CheckoutURL: res.URL,
	})
}

// 🟢 GET /api/client/invoices
func (ctrl *InvoiceController) Mine(c *fiber.Ctx) error {
	caller, err := helper.GetCaller(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	own, err := ctrl.profiles.ClientID(c.UserContext(), caller.StudioID, caller.UserID)
	if err != nil {
		return helper.FromError(c, err)
	}
	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	rows, total, err := ctrl.repo.List(c.UserContext(), caller.StudioID,
		dto.ListInvoiceQuery{Status: c.Query("status"), ClientID: &own}, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

