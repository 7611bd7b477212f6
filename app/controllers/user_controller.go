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

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

// Show returns the authenticated user's fresh record. The guard has already
// re-read it from the store for this request.
func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	response.Success(w, guard.CurrentUser(r))
}

type updateUserRequest struct {
	Fullname    *string `json:"fullname"`
	Username    *string `json:"username"`
	Phonenumber *string `json:"phonenumber"`
	ImgURL      *string `json:"imgUrl"`
	Wallet      *int64  `json:"wallet"` // additive delta, not a new balance
	SchoolID    *string `json:"schoolId"`
}

// Update applies a partial profile update. Absent fields stay untouched;
// the wallet value is treated as a delta and added atomically.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	var body updateUserRequest
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}

	user := guard.CurrentUser(r)
	updated, err := c.service.Update(r.Context(), user.ID, repositories.ProfilePatch{
		Fullname:    body.Fullname,
		Username:    body.Username,
		PhoneNumber: body.Phonenumber,
		ImgURL:      body.ImgURL,
		WalletDelta: body.Wallet,
		SchoolID:    body.SchoolID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUsernameTaken):
			response.Error(w, http.StatusConflict, lang.UsernameTaken)
		case errors.Is(err, repositories.ErrInsufficientFunds):
			response.Error(w, http.StatusConflict, lang.InsufficientFunds)
		case errors.Is(err, repositories.ErrUserNotFound):
			response.Error(w, http.StatusNotFound, lang.ProfileUpdateFailed)
		default:
			logger.WithCtx(r.Context()).Error("update profile", "error", err)
			response.Error(w, http.StatusInternalServerError, lang.ProfileUpdateFailed)
		}
		return
	}

	response.OK(w, lang.ProfileUpdated, updated)
}
