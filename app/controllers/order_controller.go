package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boofino/boofino/app/guard"
	"github.com/boofino/boofino/app/lang"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/pkg/bind"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Index returns the buyer's orders, newest first.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	user := guard.CurrentUser(r)
	orders, err := c.service.ListForUser(r.Context(), user.ID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("list orders", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}
	response.Success(w, orders)
}

// Show returns one order by tracking code. Buyers see their own orders;
// school admins see orders of their school.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.Get(r.Context(), chi.URLParam(r, "trackingCode"), guard.CurrentUser(r))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound):
			response.Error(w, http.StatusNotFound, lang.OrderNotFound)
		case errors.Is(err, services.ErrNotOrderOwner):
			response.Error(w, http.StatusForbidden, lang.NoPermission)
		default:
			logger.WithCtx(r.Context()).Error("show order", "error", err)
			response.Error(w, http.StatusInternalServerError, lang.ServerError)
		}
		return
	}
	response.Success(w, order)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,in=pending,processing,delivered,canceled"`
}

// UpdateStatus is called by the fulfillment service (service JWT, not a
// cookie session) to move an order through its lifecycle.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body updateStatusRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}
	if errs != nil {
		response.ValidationError(w, lang.ValidationFailed, errs)
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), chi.URLParam(r, "trackingCode"), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound):
			response.Error(w, http.StatusNotFound, lang.OrderNotFound)
		case errors.Is(err, services.ErrBadTransition):
			response.Error(w, http.StatusConflict, lang.InvalidStatusTransition)
		default:
			logger.WithCtx(r.Context()).Error("update order status", "error", err)
			response.Error(w, http.StatusInternalServerError, lang.ServerError)
		}
		return
	}

	logger.WithCtx(r.Context()).Info("fulfillment update",
		"service", guard.ServiceName(r),
		"tracking_code", order.TrackingCode,
		"status", order.Status,
	)
	response.OK(w, lang.OrderStatusUpdated, order)
}
