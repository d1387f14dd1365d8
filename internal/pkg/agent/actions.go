package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/go-playground/validator/v10"
)

// Action names accepted by the gateway
const (
	ActionGenerateReport        = "generate_report"
	ActionSummarizeText         = "summarize_text"
	ActionSummarizeURL          = "summarize_url"
	ActionExtractUniversityInfo = "extract_university_info"
	ActionSuggestUniversities   = "suggest_universities"
	ActionBrainstormEssays      = "brainstorm_essays"
	ActionReviewStrategy        = "review_strategy"
)

// ActionNames lists the closed action catalog in its canonical order
var ActionNames = []string{
	ActionGenerateReport,
	ActionSummarizeText,
	ActionSummarizeURL,
	ActionExtractUniversityInfo,
	ActionSuggestUniversities,
	ActionBrainstormEssays,
	ActionReviewStrategy,
}

// Page text limits for the URL actions
const (
	summarizeURLLimit = 15000
	extractInfoLimit  = 20000
)

// Prompt is a system instruction plus the user content it applies to
type Prompt struct {
	System string
	User   string
}

// Text joins the two halves into the single text part sent to the model
func (p Prompt) Text() string {
	return p.System + "\n\n" + p.User
}

// Action is one request from the closed catalog. Only this package can
// implement it, so every action has a prompt builder.
type Action interface {
	Name() string
	prompt(ctx context.Context, fetcher PageFetcher) (Prompt, error)
}

// GenerateReport asks for a markdown status report on a student record
type GenerateReport struct {
	Student json.RawMessage
}

// SummarizeText asks for a concise summary of free text
type SummarizeText struct {
	Text string `json:"text" validate:"required"`
}

// SummarizeURL fetches a page and asks for a summary of its text
type SummarizeURL struct {
	URL string `json:"url" validate:"required,http_url"`
}

// ExtractUniversityInfo fetches a page and asks for a university record as JSON
type ExtractUniversityInfo struct {
	URL string `json:"url" validate:"required,http_url"`
}

// SuggestUniversities asks for five best-fit Canadian universities as a JSON array
type SuggestUniversities struct {
	Student   *StudentProfile `json:"student" validate:"required"`
	UserNotes string          `json:"userNotes"`
}

// BrainstormEssays asks for three essay angles in markdown
type BrainstormEssays struct {
	Student   *StudentProfile `json:"student" validate:"required"`
	UserNotes string          `json:"userNotes"`
}

// ReviewStrategy asks for a strengths/gaps/action-plan review in markdown
type ReviewStrategy struct {
	Student   *StudentProfile `json:"student" validate:"required"`
	UserNotes string          `json:"userNotes"`
}

func (GenerateReport) Name() string        { return ActionGenerateReport }
func (SummarizeText) Name() string         { return ActionSummarizeText }
func (SummarizeURL) Name() string          { return ActionSummarizeURL }
func (ExtractUniversityInfo) Name() string { return ActionExtractUniversityInfo }
func (SuggestUniversities) Name() string   { return ActionSuggestUniversities }
func (BrainstormEssays) Name() string      { return ActionBrainstormEssays }
func (ReviewStrategy) Name() string        { return ActionReviewStrategy }

// StudentProfile is the part of a student record the prompts read.
// Scores arrive as strings or numbers depending on the caller.
type StudentProfile struct {
	GPA        Text            `json:"gpa"`
	SATScore   Text            `json:"sat_score"`
	IELTSScore Text            `json:"ielts_score"`
	Interests  Text            `json:"interests"`
	Major      Text            `json:"major"`
	Background Text            `json:"background"`
	Status     Text            `json:"status"`
	Checklist  json.RawMessage `json:"checklist"`
}

// Text is a scalar JSON value read as a string
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*t = Text(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("expected a scalar value, got %s", data)
		}
		*t = Text(data)
	}
	return nil
}

func (t Text) or(fallback string) string {
	if strings.TrimSpace(string(t)) == "" {
		return fallback
	}
	return string(t)
}

// checklistProgress renders the checklist JSON or "Not started" when absent
func (p *StudentProfile) checklistProgress() string {
	raw := bytes.TrimSpace(p.Checklist)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "Not started"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

var validate = validator.New()

// ParseAction decodes payload into the action named by name
func ParseAction(name string, payload json.RawMessage) (Action, error) {
	var action Action
	switch name {
	case ActionGenerateReport:
		report := GenerateReport{Student: compactJSON(payload)}
		return report, nil
	case ActionSummarizeText:
		action = &SummarizeText{}
	case ActionSummarizeURL:
		action = &SummarizeURL{}
	case ActionExtractUniversityInfo:
		action = &ExtractUniversityInfo{}
	case ActionSuggestUniversities:
		action = &SuggestUniversities{}
	case ActionBrainstormEssays:
		action = &BrainstormEssays{}
	case ActionReviewStrategy:
		action = &ReviewStrategy{}
	default:
		return nil, InvalidActionError()
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s requires a payload", name))
	}
	if err := json.Unmarshal(payload, action); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid %s payload: %v", name, err))
	}
	if err := validate.Struct(action); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid %s payload: %v", name, err))
	}
	return deref(action), nil
}

// deref returns actions by value so callers can type-switch on the plain types
func deref(a Action) Action {
	switch v := a.(type) {
	case *SummarizeText:
		return *v
	case *SummarizeURL:
		return *v
	case *ExtractUniversityInfo:
		return *v
	case *SuggestUniversities:
		return *v
	case *BrainstormEssays:
		return *v
	case *ReviewStrategy:
		return *v
	}
	return a
}

// InvalidActionError lists the supported actions
func InvalidActionError() error {
	return apperrors.NewCustomError(apperrors.ErrInvalidAction,
		"Invalid action. Supported actions: "+strings.Join(ActionNames, ", "))
}

func compactJSON(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		quoted, _ := json.Marshal(string(raw))
		return quoted
	}
	return buf.Bytes()
}
