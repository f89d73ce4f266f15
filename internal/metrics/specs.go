package metrics

import (
	"net/http"

	"github.com/skillforge/fitscore/pkg/openapi"
)

// RegisterSpecs adds metric schemas and operations to an OpenAPI spec.
func RegisterSpecs(spec *openapi.Spec) {
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"MetricDef": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"code":        {Type: "string", Example: "stress_tolerance"},
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"category":    {Type: "string"},
				"active":      {Type: "boolean"},
				"sort_order":  {Type: "integer"},
			},
		},
		"MetricDefCreate": {
			Type:     "object",
			Required: []string{"code", "name"},
			Properties: map[string]*openapi.Schema{
				"code":        {Type: "string"},
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"category":    {Type: "string"},
				"sort_order":  {Type: "integer"},
			},
		},
		"MetricDefUpdate": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"description": {Type: "string"},
				"category":    {Type: "string"},
				"active":      {Type: "boolean"},
				"sort_order":  {Type: "integer"},
			},
		},
		"ParticipantMetric": {
			Type:        "object",
			Description: "One row of a participant's competency grid. Metrics without a stored value carry value 0 and has_value false.",
			Properties: map[string]*openapi.Schema{
				"code":       {Type: "string"},
				"name":       {Type: "string"},
				"category":   {Type: "string"},
				"value":      {Type: "number"},
				"confidence": {Type: "number"},
				"has_value":  {Type: "boolean"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"MetricValue": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"participant_id":   {Type: "string", Format: "uuid"},
				"metric_code":      {Type: "string"},
				"value":            {Type: "number"},
				"confidence":       {Type: "number"},
				"source_report_id": {Type: "string", Format: "uuid"},
				"updated_at":       {Type: "string", Format: "date-time"},
			},
		},
		"MetricSet": {
			Type:     "object",
			Required: []string{"value"},
			Properties: map[string]*openapi.Schema{
				"value":      {Type: "number", Description: "Metric value on the 1-10 scale"},
				"confidence": {Type: "number", Description: "Confidence on 0-1; defaults to 1 for manual edits"},
			},
		},
		"IngestRequest": {
			Type:     "object",
			Required: []string{"participant_id", "rows"},
			Properties: map[string]*openapi.Schema{
				"participant_id":   {Type: "string", Format: "uuid"},
				"source_report_id": {Type: "string", Format: "uuid"},
				"rows": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"label":      {Type: "string", Example: "СТРЕССОУСТОЙЧИВОСТЬ"},
							"value":      {Type: "number"},
							"confidence": {Type: "number"},
						},
					},
				},
			},
		},
		"IngestResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"applied":        {Type: "integer"},
				"skipped":        {Type: "integer"},
				"unknown_labels": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
	})

	spec.AddOperation(http.MethodGet, "/metrics", &openapi.Operation{
		Summary: "List metric definitions",
		Tags:    []string{"metrics"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("active", "boolean", "Restrict to active definitions", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Metric definitions", "MetricDef"),
		},
	})

	spec.AddOperation(http.MethodPost, "/metrics", &openapi.Operation{
		Summary:     "Create a metric definition",
		Tags:        []string{"metrics"},
		RequestBody: openapi.RequestBodyJSON("MetricDefCreate", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created definition", "MetricDef"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	})

	spec.AddOperation(http.MethodGet, "/metrics/{id}", &openapi.Operation{
		Summary:    "Find a metric definition",
		Tags:       []string{"metrics"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Definition ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Metric definition", "MetricDef"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodPut, "/metrics/{id}", &openapi.Operation{
		Summary:     "Update a metric definition",
		Tags:        []string{"metrics"},
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Definition ID")},
		RequestBody: openapi.RequestBodyJSON("MetricDefUpdate", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated definition", "MetricDef"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodDelete, "/metrics/{id}", &openapi.Operation{
		Summary:    "Delete a metric definition",
		Tags:       []string{"metrics"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Definition ID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodPost, "/metrics/ingest", &openapi.Operation{
		Summary:     "Ingest extracted report rows",
		Description: "Translates report header labels to metric codes and applies best-value priority per metric. Unknown labels are reported in the result.",
		Tags:        []string{"metrics"},
		RequestBody: openapi.RequestBodyJSON("IngestRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Ingest summary", "IngestResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	})
}
