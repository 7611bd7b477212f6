package controllers

import (
	"errors"
	"net/http"

	"github.com/boofino/boofino/app/lang"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/pkg/bind"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
)

type DiscountController struct {
	service *services.DiscountService
}

func NewDiscountController(service *services.DiscountService) *DiscountController {
	return &DiscountController{service: service}
}

type discountRequest struct {
	Code      string `json:"code" validate:"required"`
	CartTotal int64  `json:"cart_total" validate:"gte=0"`
}

// Validate checks a discount code against the cart total and reports the
// discount percentage when usable.
func (c *DiscountController) Validate(w http.ResponseWriter, r *http.Request) {
	var body discountRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}
	if errs != nil {
		response.ValidationError(w, lang.FillAllFields, errs)
		return
	}

	d, err := c.service.Validate(r.Context(), body.Code, body.CartTotal)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrCodeNotFound):
			response.Error(w, http.StatusNotFound, lang.DiscountNotFound)
		case errors.Is(err, services.ErrDiscountExpired):
			response.Error(w, http.StatusGone, lang.DiscountExpired)
		case errors.Is(err, services.ErrDiscountUsedUp):
			response.Error(w, http.StatusConflict, lang.DiscountExhausted)
		case errors.Is(err, services.ErrCartBelowMin):
			response.Error(w, http.StatusUnprocessableEntity, lang.DiscountMinCart)
		default:
			logger.WithCtx(r.Context()).Error("validate discount", "error", err)
			response.Error(w, http.StatusInternalServerError, lang.ServerError)
		}
		return
	}

	response.OK(w, lang.DiscountValid, map[string]int64{"percent": d.Percent})
}
