package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boofino/boofino/app/lang"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/pkg/bind"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
)

type SchoolController struct {
	catalog *services.CatalogService
}

func NewSchoolController(catalog *services.CatalogService) *SchoolController {
	return &SchoolController{catalog: catalog}
}

// Index lists every school for the public school picker.
func (c *SchoolController) Index(w http.ResponseWriter, r *http.Request) {
	schools, err := c.catalog.Schools(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list schools", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}
	if len(schools) == 0 {
		response.Error(w, http.StatusNotFound, lang.NoSchools)
		return
	}
	response.Success(w, schools)
}

type searchSchoolsRequest struct {
	City  string `json:"city"`
	State string `json:"state"`
	Name  string `json:"name"`
}

// Search filters schools by city/state (exact) and name (case-insensitive
// pattern).
func (c *SchoolController) Search(w http.ResponseWriter, r *http.Request) {
	var body searchSchoolsRequest
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}

	schools, err := c.catalog.SearchSchools(r.Context(), repositories.SchoolFilter{
		City:  body.City,
		State: body.State,
		Name:  body.Name,
	})
	if err != nil {
		logger.WithCtx(r.Context()).Error("search schools", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}
	if len(schools) == 0 {
		response.Error(w, http.StatusNotFound, lang.NoSchools)
		return
	}
	response.Success(w, schools)
}

type selectSchoolRequest struct {
	ID string `json:"id" validate:"required"`
}

// Select fetches one school by document ID for the picker's detail step.
func (c *SchoolController) Select(w http.ResponseWriter, r *http.Request) {
	var body selectSchoolRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}
	if errs != nil {
		response.ValidationError(w, lang.FillAllFields, errs)
		return
	}

	oid, err := primitive.ObjectIDFromHex(body.ID)
	if err != nil {
		response.Error(w, http.StatusNotFound, lang.SchoolNotFound)
		return
	}

	school, err := c.catalog.SelectSchool(r.Context(), oid)
	if err != nil {
		if errors.Is(err, repositories.ErrSchoolNotFound) {
			response.Error(w, http.StatusNotFound, lang.SchoolNotFound)
			return
		}
		logger.WithCtx(r.Context()).Error("select school", "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
		return
	}
	response.Success(w, school)
}
