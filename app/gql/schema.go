// Package gql exposes a read-only GraphQL view over the school catalog for
// rich clients. It mirrors the /schools and /search-schools REST routes.
package gql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/app/services"
	"github.com/boofino/boofino/pkg/bind"
	"github.com/boofino/boofino/pkg/logger"
	"github.com/boofino/boofino/pkg/response"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.ID},
		"name":       &graphql.Field{Type: graphql.String},
		"imgUrl":     &graphql.Field{Type: graphql.String},
		"price":      &graphql.Field{Type: graphql.Int},
		"off":        &graphql.Field{Type: graphql.Int},
		"group":      &graphql.Field{Type: graphql.String},
		"finalPrice": &graphql.Field{Type: graphql.Int},
		"sellCount":  &graphql.Field{Type: graphql.Int},
		"itemCount":  &graphql.Field{Type: graphql.Int},
		"oldPrice":   &graphql.Field{Type: graphql.Int},
		"isDiscount": &graphql.Field{Type: graphql.Boolean},
	},
})

var schoolType = graphql.NewObject(graphql.ObjectConfig{
	Name: "School",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.ID},
		"schoolId": &graphql.Field{Type: graphql.String},
		"name":     &graphql.Field{Type: graphql.String},
		"address":  &graphql.Field{Type: graphql.String},
		"city":     &graphql.Field{Type: graphql.String},
		"state":    &graphql.Field{Type: graphql.String},
		"imgUrl":   &graphql.Field{Type: graphql.String},
		"products": &graphql.Field{Type: graphql.NewList(productType)},
	},
})

// NewSchema builds the catalog query schema on top of the catalog service.
func NewSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"schools": &graphql.Field{
				Type: graphql.NewList(schoolType),
				Args: graphql.FieldConfigArgument{
					"city":  &graphql.ArgumentConfig{Type: graphql.String},
					"state": &graphql.ArgumentConfig{Type: graphql.String},
					"name":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					city, _ := p.Args["city"].(string)
					state, _ := p.Args["state"].(string)
					name, _ := p.Args["name"].(string)
					if city == "" && state == "" && name == "" {
						return catalog.Schools(p.Context)
					}
					return catalog.SearchSchools(p.Context, repositories.SchoolFilter{
						City:  city,
						State: state,
						Name:  name,
					})
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

type gqlRequest struct {
	Query     string                 `json:"query" validate:"required"`
	Variables map[string]interface{} `json:"variables"`
}

// Handler returns the POST /graphql handler for the given schema.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body gqlRequest
		if _, err := bind.JSON(r, &body); err != nil || body.Query == "" {
			response.Error(w, http.StatusBadRequest, "invalid graphql request")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})
		if len(result.Errors) > 0 {
			logger.WithCtx(r.Context()).Warn("graphql errors", "errors", result.Errors)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithCtx(r.Context()).Error("graphql write", "error", err)
		}
	}
}
