package participants

import (
	"net/http"

	"github.com/skillforge/fitscore/pkg/openapi"
)

// RegisterSpecs adds participant schemas and operations to an OpenAPI spec.
func RegisterSpecs(spec *openapi.Spec) {
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Participant": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"full_name":   {Type: "string"},
				"external_id": {Type: "string"},
				"position":    {Type: "string"},
				"notes":       {Type: "string"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"ParticipantCreate": {
			Type:     "object",
			Required: []string{"full_name"},
			Properties: map[string]*openapi.Schema{
				"full_name":   {Type: "string"},
				"external_id": {Type: "string"},
				"position":    {Type: "string"},
				"notes":       {Type: "string"},
			},
		},
		"ParticipantPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Participant")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"ParticipantSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"search":      {Type: "string"},
				"sort":        {Type: "string"},
				"full_name":   {Type: "string"},
				"external_id": {Type: "string"},
			},
		},
	})

	spec.AddOperation(http.MethodGet, "/participants", &openapi.Operation{
		Summary: "List participants",
		Tags:    []string{"participants"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search across name and position", false),
			openapi.QueryParam("full_name", "string", "Filter by name contains", false),
			openapi.QueryParam("external_id", "string", "Filter by exact external ID", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Participant page", "ParticipantPage"),
		},
	})

	spec.AddOperation(http.MethodPost, "/participants", &openapi.Operation{
		Summary:     "Create a participant",
		Tags:        []string{"participants"},
		RequestBody: openapi.RequestBodyJSON("ParticipantCreate", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created participant", "Participant"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	})

	spec.AddOperation(http.MethodPost, "/participants/search", &openapi.Operation{
		Summary:     "Search participants",
		Tags:        []string{"participants"},
		RequestBody: openapi.RequestBodyJSON("ParticipantSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Participant page", "ParticipantPage"),
		},
	})

	spec.AddOperation(http.MethodGet, "/participants/{id}", &openapi.Operation{
		Summary:    "Find a participant",
		Tags:       []string{"participants"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Participant ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Participant", "Participant"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodPut, "/participants/{id}", &openapi.Operation{
		Summary:     "Update a participant",
		Tags:        []string{"participants"},
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Participant ID")},
		RequestBody: openapi.RequestBodyJSON("ParticipantCreate", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated participant", "Participant"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	})

	spec.AddOperation(http.MethodDelete, "/participants/{id}", &openapi.Operation{
		Summary:    "Delete a participant",
		Tags:       []string{"participants"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Participant ID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodGet, "/participants/{id}/metrics", &openapi.Operation{
		Summary:    "Participant competency grid",
		Tags:       []string{"participants"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Participant ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Grid rows", "ParticipantMetric"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodPut, "/participants/{id}/metrics/{code}", &openapi.Operation{
		Summary: "Set a metric value manually",
		Tags:    []string{"participants"},
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Participant ID"),
			{
				Name:     "code",
				In:       "path",
				Required: true,
				Schema:   &openapi.Schema{Type: "string"},
			},
		},
		RequestBody: openapi.RequestBodyJSON("MetricSet", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stored value", "MetricValue"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	})
}
