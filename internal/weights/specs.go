package weights

import (
	"net/http"

	"github.com/skillforge/fitscore/pkg/openapi"
)

// RegisterSpecs adds weight table schemas and operations to an OpenAPI spec.
func RegisterSpecs(spec *openapi.Spec) {
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"WeightEntry": {
			Type:     "object",
			Required: []string{"metric_code", "weight"},
			Properties: map[string]*openapi.Schema{
				"metric_code": {Type: "string"},
				"weight":      {Type: "number", Description: "Weight in [0,1]; entry weights must sum to 1.0"},
				"is_critical": {Type: "boolean"},
				"penalty":     {Type: "number", Description: "Penalty in [0,0.99] applied below threshold"},
				"threshold":   {Type: "number", Description: "Critical threshold on the 1-10 scale"},
			},
		},
		"WeightTable": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                 {Type: "string", Format: "uuid"},
				"prof_activity_code": {Type: "string", Example: "administrator"},
				"name":               {Type: "string"},
				"description":        {Type: "string"},
				"version":            {Type: "integer"},
				"active":             {Type: "boolean"},
				"entries":            {Type: "array", Items: openapi.SchemaRef("WeightEntry")},
				"created_at":         {Type: "string", Format: "date-time"},
				"updated_at":         {Type: "string", Format: "date-time"},
			},
		},
		"WeightTableCreate": {
			Type:     "object",
			Required: []string{"prof_activity_code", "name", "entries"},
			Properties: map[string]*openapi.Schema{
				"prof_activity_code": {Type: "string"},
				"name":               {Type: "string"},
				"description":        {Type: "string"},
				"entries":            {Type: "array", Items: openapi.SchemaRef("WeightEntry")},
			},
		},
		"WeightTableUpdate": {
			Type:     "object",
			Required: []string{"name", "entries"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"entries":     {Type: "array", Items: openapi.SchemaRef("WeightEntry")},
			},
		},
		"WeightTablePage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("WeightTable")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	})

	spec.AddOperation(http.MethodGet, "/weight-tables", &openapi.Operation{
		Summary: "List weight tables",
		Tags:    []string{"weight-tables"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("prof_activity_code", "string", "Filter by exact profession code", false),
			openapi.QueryParam("name", "string", "Filter by name contains", false),
			openapi.QueryParam("active", "boolean", "Filter by active flag", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Weight table page", "WeightTablePage"),
		},
	})

	spec.AddOperation(http.MethodPost, "/weight-tables", &openapi.Operation{
		Summary:     "Create a weight table version",
		Description: "Validates entries (weights sum to 1.0, no duplicates, ranges) and activates the new version, deactivating the profession's prior active table in the same transaction.",
		Tags:        []string{"weight-tables"},
		RequestBody: openapi.RequestBodyJSON("WeightTableCreate", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created table", "WeightTable"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
			422: openapi.ResponseRef("Unprocessable"),
		},
	})

	spec.AddOperation(http.MethodPost, "/weight-tables/search", &openapi.Operation{
		Summary:     "Search weight tables",
		Tags:        []string{"weight-tables"},
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Weight table page", "WeightTablePage"),
		},
	})

	spec.AddOperation(http.MethodGet, "/weight-tables/active/{prof}", &openapi.Operation{
		Summary: "Active weight table for a profession",
		Tags:    []string{"weight-tables"},
		Parameters: []*openapi.Parameter{
			{
				Name:     "prof",
				In:       "path",
				Required: true,
				Schema:   &openapi.Schema{Type: "string"},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Active table", "WeightTable"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodGet, "/weight-tables/{id}", &openapi.Operation{
		Summary:    "Find a weight table",
		Tags:       []string{"weight-tables"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Weight table ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Weight table", "WeightTable"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodPut, "/weight-tables/{id}", &openapi.Operation{
		Summary:     "Update a weight table",
		Description: "Replaces the entry set wholesale after validation. Does not bump the version.",
		Tags:        []string{"weight-tables"},
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Weight table ID")},
		RequestBody: openapi.RequestBodyJSON("WeightTableUpdate", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated table", "WeightTable"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			422: openapi.ResponseRef("Unprocessable"),
		},
	})

	spec.AddOperation(http.MethodDelete, "/weight-tables/{id}", &openapi.Operation{
		Summary:     "Delete a weight table",
		Description: "Historical scoring results survive with a cleared weight table association.",
		Tags:        []string{"weight-tables"},
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Weight table ID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodPost, "/weight-tables/{id}/activate", &openapi.Operation{
		Summary:    "Activate a weight table version",
		Tags:       []string{"weight-tables"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Weight table ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Activated table", "WeightTable"),
			404: openapi.ResponseRef("NotFound"),
		},
	})
}
