// Package controllers maps HTTP requests onto the service layer and
// translates the service/repository error families into status codes with
// localized messages.
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
	"github.com/boofino/boofino/pkg/session"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Fullname             string `json:"fullname" validate:"required"`
	Username             string `json:"username" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phonenumber          string `json:"phonenumber" validate:"required,digits=11"`
	ImgURL               string `json:"imgUrl" validate:"nullable,url"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}
	if errs != nil {
		response.ValidationError(w, lang.FillAllFields, errs)
		return
	}

	// Password rules get their own localized messages instead of the
	// generic validation envelope.
	if len([]rune(body.Password)) < 8 {
		response.Error(w, http.StatusUnprocessableEntity, lang.PasswordTooShort)
		return
	}
	if body.Password != body.PasswordConfirmation {
		response.Error(w, http.StatusUnprocessableEntity, lang.PasswordMismatch)
		return
	}

	user, err := c.service.Register(r.Context(), services.RegisterInput{
		Fullname:    body.Fullname,
		Username:    body.Username,
		Password:    body.Password,
		Phonenumber: body.Phonenumber,
		ImgURL:      body.ImgURL,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			response.Error(w, http.StatusConflict, lang.UsernameTaken)
			return
		}
		logger.WithCtx(r.Context()).Error("register", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}

	if err := establishSession(w, r, user.ID.Hex()); err != nil {
		logger.WithCtx(r.Context()).Error("register session", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}
	response.Created(w, lang.Registered, user)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}
	if errs != nil {
		response.ValidationError(w, lang.FillAllFields, errs)
		return
	}

	user, err := c.service.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			response.Error(w, http.StatusNotFound, lang.WrongUsername)
		case errors.Is(err, services.ErrWrongPassword):
			response.Error(w, http.StatusUnauthorized, lang.WrongPassword)
		default:
			logger.WithCtx(r.Context()).Error("login", "error", err)
			response.Error(w, http.StatusInternalServerError, lang.ServerError)
		}
		return
	}

	if err := establishSession(w, r, user.ID.Hex()); err != nil {
		logger.WithCtx(r.Context()).Error("login session", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}
	response.OK(w, lang.LoggedIn, user)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	if sess != nil {
		if err := sess.Destroy(w); err != nil {
			logger.WithCtx(r.Context()).Error("logout", "error", err)
			response.Error(w, http.StatusInternalServerError, lang.ServerError)
			return
		}
	}
	response.Message(w, lang.LoggedOut)
}

func establishSession(w http.ResponseWriter, r *http.Request, userID string) error {
	sess := session.FromCtx(r)
	if sess == nil {
		return errors.New("session middleware not mounted")
	}
	// Fresh ID on every privilege change, so a pre-login cookie value never
	// becomes an authenticated session.
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.SetUserID(userID)
	return sess.Save(w)
}
