package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/boofino/boofino/app/guard"
	"github.com/boofino/boofino/app/lang"
	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/pkg/bind"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// schoolScope returns the caller's school ID, writing the 400 rejection when
// the account is not connected to a school.
func schoolScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	u := guard.CurrentUser(r)
	if u.SchoolID == "" {
		response.Error(w, http.StatusBadRequest, lang.NotConnectedToSchool)
		return "", false
	}
	return u.SchoolID, true
}

func (c *ProductController) catalogError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repositories.ErrSchoolNotFound):
		response.Error(w, http.StatusNotFound, lang.SchoolNotFound)
	case errors.Is(err, repositories.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, lang.ProductNotFound)
	case errors.Is(err, repositories.ErrDuplicateProduct):
		response.Error(w, http.StatusConflict, lang.DuplicateProduct)
	default:
		logger.WithCtx(r.Context()).Error(op, "error", err)
		response.Error(w, http.StatusInternalServerError, lang.ServerError)
	}
}

// Index returns the caller's school product list.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := schoolScope(w, r)
	if !ok {
		return
	}

	products, err := c.catalog.Products(r.Context(), schoolID)
	if err != nil {
		c.catalogError(w, r, "list products", err)
		return
	}
	response.Success(w, products)
}

// Show returns one product by exact name.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := schoolScope(w, r)
	if !ok {
		return
	}

	p, err := c.catalog.Product(r.Context(), schoolID, chi.URLParam(r, "name"))
	if err != nil {
		c.catalogError(w, r, "show product", err)
		return
	}
	response.Success(w, p)
}

// Search returns products whose name contains the term, case-insensitively.
func (c *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := schoolScope(w, r)
	if !ok {
		return
	}

	products, err := c.catalog.SearchProducts(r.Context(), schoolID, chi.URLParam(r, "name"))
	if err != nil {
		c.catalogError(w, r, "search products", err)
		return
	}
	response.Success(w, products)
}

type addProductRequest struct {
	Name      string `json:"name" validate:"required"`
	ImgURL    string `json:"imgUrl" validate:"nullable,url"`
	Price     int64  `json:"price" validate:"required,gte=0"`
	Off       int64  `json:"off" validate:"gte=0"`
	Group     string `json:"group"`
	ItemCount int64  `json:"itemCount" validate:"gte=0"`
	OldPrice  int64  `json:"oldPrice" validate:"gte=0"`
}

// Store adds a product to the admin's school catalog.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := schoolScope(w, r)
	if !ok {
		return
	}

	var body addProductRequest
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}
	if errs != nil {
		response.ValidationError(w, lang.FillAllFields, errs)
		return
	}

	p, err := c.catalog.AddProduct(r.Context(), schoolID, models.Product{
		Name:      body.Name,
		ImgURL:    body.ImgURL,
		Price:     body.Price,
		Off:       body.Off,
		Group:     body.Group,
		ItemCount: body.ItemCount,
		OldPrice:  body.OldPrice,
	})
	if err != nil {
		c.catalogError(w, r, "add product", err)
		return
	}
	response.Created(w, lang.ProductAdded, p)
}

type editProductRequest struct {
	Name       *string `json:"name"`
	ImgURL     *string `json:"imgUrl"`
	Price      *int64  `json:"price"`
	Off        *int64  `json:"off"`
	Group      *string `json:"group"`
	FinalPrice *int64  `json:"finalPrice"`
	SellCount  *int64  `json:"sellCount"`
	ItemCount  *int64  `json:"itemCount"`
	OldPrice   *int64  `json:"oldPrice"`
	IsDiscount *bool   `json:"isDiscount"`
}

// Update partially edits the named product. Pointer fields keep explicit
// zeroes distinguishable from absent fields.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := schoolScope(w, r)
	if !ok {
		return
	}

	var body editProductRequest
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}

	err := c.catalog.EditProduct(r.Context(), schoolID, chi.URLParam(r, "name"), repositories.ProductPatch{
		Name:       body.Name,
		ImgURL:     body.ImgURL,
		Price:      body.Price,
		Off:        body.Off,
		Group:      body.Group,
		FinalPrice: body.FinalPrice,
		SellCount:  body.SellCount,
		ItemCount:  body.ItemCount,
		OldPrice:   body.OldPrice,
		IsDiscount: body.IsDiscount,
	})
	if err != nil {
		c.catalogError(w, r, "edit product", err)
		return
	}
	response.Message(w, lang.ProductUpdated)
}

// Destroy removes the named product.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := schoolScope(w, r)
	if !ok {
		return
	}

	if err := c.catalog.DeleteProduct(r.Context(), schoolID, chi.URLParam(r, "name")); err != nil {
		c.catalogError(w, r, "delete product", err)
		return
	}
	response.Message(w, lang.ProductDeleted)
}

type deleteProductsRequest struct {
	Names []string `json:"names"`
}

// DestroyBatch removes a batch of products by name.
func (c *ProductController) DestroyBatch(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := schoolScope(w, r)
	if !ok {
		return
	}

	var body deleteProductsRequest
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, lang.ValidationFailed)
		return
	}
	if len(body.Names) == 0 {
		response.Error(w, http.StatusUnprocessableEntity, lang.FillAllFields)
		return
	}

	removed, err := c.catalog.DeleteProducts(r.Context(), schoolID, body.Names)
	if err != nil {
		c.catalogError(w, r, "delete products", err)
		return
	}
	if removed == 0 {
		response.Error(w, http.StatusNotFound, lang.ProductNotFound)
		return
	}
	response.Message(w, lang.ProductsDeleted)
}
