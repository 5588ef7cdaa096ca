package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedResponse marks API payloads that do not match the expected
// shape. Match it with errors.Is.
var ErrMalformedResponse = errors.New("malformed response")

// MalformedResponseError lists every violation found in a payload.
type MalformedResponseError struct {
	Kind       string
	Violations []string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %s", e.Kind, strings.Join(e.Violations, "; "))
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

const uploadResultSchema = `{
  "type": "object",
  "required": ["snapshot_id", "empresas_count", "timestamp", "dominios"],
  "properties": {
    "snapshot_id":    {"type": "string", "minLength": 1},
    "empresas_count": {"type": "integer", "minimum": 0},
    "timestamp":      {"type": "string", "minLength": 1},
    "dominios":       {"type": "array", "items": {"type": "string"}}
  }
}`

const analysisRecordSchema = `{
  "type": "object",
  "required": ["domain", "industry", "score", "urgency_level", "insights",
               "commercial_intel", "sales_talking_points", "estimated_deal_size", "analyzed_at"],
  "definitions": {
    "strings": {"type": "array", "items": {"type": "string"}}
  },
  "properties": {
    "domain":        {"type": "string", "minLength": 1},
    "industry":      {"type": "string"},
    "score":         {"type": "integer", "minimum": 0, "maximum": 100},
    "posture":       {"type": "string"},
    "urgency_level": {"enum": ["immediate", "high", "medium", "low"]},
    "executive_summary": {"type": "string"},
    "technical_summary": {"type": "string"},
    "analyzed_at":   {"type": "string"},
    "insights": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "status", "technical_detail", "business_impact", "recommendation"],
        "properties": {
          "category":         {"type": "string"},
          "title":            {"type": "string"},
          "status":           {"enum": ["critical", "warning", "ok"]},
          "technical_detail": {"type": "string"},
          "business_impact":  {"type": "string"},
          "recommendation":   {"type": "string"},
          "urgency":          {"type": "string"},
          "cost_estimate": {
            "type": ["object", "null"],
            "additionalProperties": {"type": "string"}
          }
        }
      }
    },
    "commercial_intel": {
      "type": "object",
      "required": ["budget_signals", "tech_stack", "decision_makers", "pain_points", "competitive_advantage"],
      "properties": {
        "budget_signals":        {"$ref": "#/definitions/strings"},
        "tech_stack":            {"$ref": "#/definitions/strings"},
        "decision_makers":       {"$ref": "#/definitions/strings"},
        "pain_points":           {"$ref": "#/definitions/strings"},
        "competitive_advantage": {"$ref": "#/definitions/strings"},
        "estimated_budget": {
          "type": ["object", "null"],
          "properties": {
            "min": {"type": "integer"},
            "max": {"type": "integer"}
          }
        }
      }
    },
    "sales_talking_points": {"$ref": "#/definitions/strings"},
    "estimated_deal_size": {
      "type": "object",
      "required": ["setup", "monthly", "annual", "confidence"],
      "properties": {
        "setup":      {"type": "string"},
        "monthly":    {"type": "string"},
        "annual":     {"type": "string"},
        "confidence": {"type": "string"}
      }
    }
  }
}`

var (
	uploadSchema   = mustSchema(uploadResultSchema)
	analysisSchema = mustSchema(analysisRecordSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return s
}

// DecodeUploadResult validates and decodes an upload response body.
func DecodeUploadResult(data []byte) (*UploadResult, error) {
	var out UploadResult
	if err := decode("upload", uploadSchema, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecodeAnalysis validates and decodes an enriched analysis body.
func DecodeAnalysis(data []byte) (*AnalysisRecord, error) {
	var out AnalysisRecord
	if err := decode("analysis", analysisSchema, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func decode(kind string, schema *gojsonschema.Schema, data []byte, dst interface{}) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// The loader fails before validation when the body is not JSON.
		return &MalformedResponseError{Kind: kind, Violations: []string{err.Error()}}
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			violations = append(violations, e.String())
		}
		return &MalformedResponseError{Kind: kind, Violations: violations}
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &MalformedResponseError{Kind: kind, Violations: []string{err.Error()}}
	}
	return nil
}
