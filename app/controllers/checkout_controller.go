package controllers

import (
	"errors"
	"net/http"

	"github.com/boofino/boofino/app/guard"
	"github.com/boofino/boofino/app/lang"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/pkg/bind"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
)

type CheckoutController struct {
	service *services.CheckoutService
}

func NewCheckoutController(service *services.CheckoutService) *CheckoutController {
	return &CheckoutController{service: service}
}

type buyRequest struct {
	Products   []services.CartLine `json:"products"`
	TotalPrice int64               `json:"total_price"`
}

// Buy turns the cart into an order.
func (c *CheckoutController) Buy(w http.ResponseWriter, r *http.Request) {
	var body buyRequest
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}

	buyer := guard.CurrentUser(r)
	order, err := c.service.Purchase(r.Context(), buyer.ID, body.Products, body.TotalPrice)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			response.Error(w, http.StatusUnprocessableEntity, lang.EmptyCart)
		case errors.Is(err, services.ErrNoSchool):
			response.Error(w, http.StatusBadRequest, lang.NotConnectedToSchool)
		case errors.Is(err, repositories.ErrSchoolNotFound):
			response.Error(w, http.StatusNotFound, lang.SchoolNotFound)
		case errors.Is(err, repositories.ErrProductNotFound):
			response.Error(w, http.StatusNotFound, lang.ProductNotFound)
		case errors.Is(err, repositories.ErrInsufficientStock):
			response.Error(w, http.StatusConflict, lang.InsufficientStock)
		case errors.Is(err, services.ErrPriceMismatch):
			response.Error(w, http.StatusConflict, lang.PriceMismatch)
		case errors.Is(err, repositories.ErrInsufficientFunds):
			response.Error(w, http.StatusConflict, lang.InsufficientFunds)
		default:
			logger.WithCtx(r.Context()).Error("checkout", "error", err)
			response.Error(w, http.StatusInternalServerError, lang.ServerError)
		}
		return
	}

	response.Created(w, lang.PurchaseSuccess, map[string]string{
		"trackingCode": order.TrackingCode,
	})
}
