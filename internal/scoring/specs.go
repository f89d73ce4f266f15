package scoring

import (
	"net/http"

	"github.com/skillforge/fitscore/pkg/openapi"
)

// RegisterSpecs adds scoring schemas and operations to an OpenAPI spec.
func RegisterSpecs(spec *openapi.Spec) {
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"ScoringResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                 {Type: "string", Format: "uuid"},
				"participant_id":     {Type: "string", Format: "uuid"},
				"prof_activity_code": {Type: "string"},
				"weight_table_id":    {Type: "string", Format: "uuid", Description: "Null when the source table was deleted"},
				"base_score":         {Type: "number", Description: "Weighted sum clamped to [0,10]"},
				"penalty_multiplier": {Type: "number", Description: "Product of (1-penalty) over triggered critical entries"},
				"final_score":        {Type: "number", Description: "base_score times penalty_multiplier, clamped to [0,10]"},
				"score_pct":          {Type: "number", Description: "final_score on the 0-100 scale"},
				"penalties_applied":  {Type: "array", Items: openapi.SchemaRef("PenaltyApplied")},
				"metrics_used":       {Type: "array", Items: openapi.SchemaRef("MetricUsed")},
				"computed_at":        {Type: "string", Format: "date-time"},
			},
		},
		"PenaltyApplied": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"metric_code": {Type: "string"},
				"value":       {Type: "number"},
				"threshold":   {Type: "number"},
				"penalty":     {Type: "number"},
			},
		},
		"MetricUsed": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"metric_code":    {Type: "string"},
				"value":          {Type: "number"},
				"weight":         {Type: "number"},
				"weighted_value": {Type: "number"},
			},
		},
		"CalculateRequest": {
			Type:     "object",
			Required: []string{"participant_id", "weight_table_id"},
			Properties: map[string]*openapi.Schema{
				"participant_id":  {Type: "string", Format: "uuid"},
				"weight_table_id": {Type: "string", Format: "uuid"},
			},
		},
		"RecalculateRequest": {
			Type:     "object",
			Required: []string{"participant_id"},
			Properties: map[string]*openapi.Schema{
				"participant_id": {Type: "string", Format: "uuid"},
				"weight_table_ids": {
					Type:        "array",
					Items:       &openapi.Schema{Type: "string", Format: "uuid"},
					Description: "Omit for every active weight table",
				},
			},
		},
		"BatchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"participant_ids": {
					Type:        "array",
					Items:       &openapi.Schema{Type: "string", Format: "uuid"},
					Description: "Omit for all participants",
				},
				"weight_table_ids": {
					Type:        "array",
					Items:       &openapi.Schema{Type: "string", Format: "uuid"},
					Description: "Omit for every active weight table",
				},
			},
		},
		"BatchOutcome": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"calculated": {Type: "integer"},
				"failed":     {Type: "integer"},
				"results":    {Type: "array", Items: openapi.SchemaRef("ScoringResult")},
				"failures": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"participant_id":     {Type: "string", Format: "uuid"},
							"weight_table_id":    {Type: "string", Format: "uuid"},
							"prof_activity_code": {Type: "string"},
							"error":              {Type: "string"},
						},
					},
				},
			},
		},
	})

	spec.AddOperation(http.MethodPost, "/scores/calculate", &openapi.Operation{
		Summary:     "Calculate one score",
		Description: "Reads the weight table and the participant's metric values in one transaction, computes the score, and supersedes the stored result for the (participant, profession) pair.",
		Tags:        []string{"scores"},
		RequestBody: openapi.RequestBodyJSON("CalculateRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stored result", "ScoringResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodPost, "/scores/recalculate", &openapi.Operation{
		Summary:     "Recalculate one participant",
		Tags:        []string{"scores"},
		RequestBody: openapi.RequestBodyJSON("RecalculateRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Batch outcome", "BatchOutcome"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodPost, "/scores/batch", &openapi.Operation{
		Summary:     "Batch recalculation",
		Description: "Computes the cartesian pairs concurrently. Pair failures are collected in the outcome; only an empty resolved universe is an error.",
		Tags:        []string{"scores"},
		RequestBody: openapi.RequestBodyJSON("BatchRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Batch outcome", "BatchOutcome"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodGet, "/scores/{id}", &openapi.Operation{
		Summary:    "Find a scoring result",
		Tags:       []string{"scores"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Result ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Scoring result", "ScoringResult"),
			404: openapi.ResponseRef("NotFound"),
		},
	})

	spec.AddOperation(http.MethodGet, "/scores/participant/{id}", &openapi.Operation{
		Summary:    "Current results for a participant",
		Tags:       []string{"scores"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Participant ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Scoring results", "ScoringResult"),
		},
	})

	spec.AddOperation(http.MethodGet, "/scores/participant/{id}/history", &openapi.Operation{
		Summary: "Score history for a participant",
		Tags:    []string{"scores"},
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Participant ID"),
			openapi.QueryParam("prof", "string", "Restrict to one profession activity code", false),
			openapi.QueryParam("limit", "integer", "Maximum rows, default 20, capped at 100", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Current and superseded results, newest first", "ScoringResult"),
		},
	})
}
