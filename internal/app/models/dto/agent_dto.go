package dto

import "encoding/json"

// AgentRequest names one action from the AI catalog and its payload
type AgentRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// AgentResponse carries the model's raw text
type AgentResponse struct {
	Result string `json:"result"`
}

// ExtractUniversityRequest asks the agent to read an admissions page
type ExtractUniversityRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// BrainstormRequest picks the brainstorm mode: universities, essays or strategy
type BrainstormRequest struct {
	Mode      string `json:"mode" binding:"required"`
	UserNotes string `json:"userNotes" binding:"max=4000"`
}

// ReportResponse carries a generated markdown report
type ReportResponse struct {
	Report string `json:"report"`
}
