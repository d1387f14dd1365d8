package agent

import (
	"bytes"
	"encoding/json"

	"github.com/agentcommand/tracker/internal/app/models"
)

// looseText reads any JSON value as text. Strings are unquoted, other
// scalars keep their literal form and arrays or objects stay compact JSON.
type looseText string

func (t *looseText) UnmarshalJSON(data []byte) error {
	var s Text
	if err := s.UnmarshalJSON(data); err == nil {
		*t = looseText(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = looseText(buf.String())
	return nil
}

type extractedScholarship struct {
	Name  looseText `json:"name"`
	Value looseText `json:"value"`
	Notes looseText `json:"notes"`
}

// extractedScholarships accepts an array of objects or plain names; anything
// else (the model writes "TBD" when it finds none) reads as no scholarships.
type extractedScholarships []models.Scholarship

func (s *extractedScholarships) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*s = extractedScholarships{}
		return nil
	}
	out := make(extractedScholarships, 0, len(items))
	for _, raw := range items {
		var item extractedScholarship
		if err := json.Unmarshal(raw, &item); err != nil {
			var name looseText
			if err := name.UnmarshalJSON(raw); err != nil {
				return err
			}
			item = extractedScholarship{Name: name}
		}
		out = append(out, models.Scholarship{
			Name:  string(item.Name),
			Value: string(item.Value),
			Notes: string(item.Notes),
		})
	}
	*s = out
	return nil
}

type extractedUniversity struct {
	Name         looseText             `json:"name"`
	Location     looseText             `json:"location"`
	Deadline     looseText             `json:"deadline"`
	AppFee       looseText             `json:"app_fee"`
	Tuition      looseText             `json:"tuition"`
	RoomBoard    looseText             `json:"room_board"`
	Scholarships extractedScholarships `json:"scholarships"`
	Insights     looseText             `json:"insights"`
}

// decodeUniversity reads an extraction result. Only malformed JSON, or JSON
// that is not an object, is rejected; field shapes are taken as they come.
func decodeUniversity(data []byte) (*models.University, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) || len(data) == 0 || data[0] != '{' {
		return nil, ErrInvalidDataFormat
	}
	var e extractedUniversity
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, ErrInvalidDataFormat
	}
	scholarships := []models.Scholarship(e.Scholarships)
	if scholarships == nil {
		scholarships = []models.Scholarship{}
	}
	return &models.University{
		Name:         string(e.Name),
		Location:     string(e.Location),
		Deadline:     string(e.Deadline),
		AppFee:       string(e.AppFee),
		Tuition:      string(e.Tuition),
		RoomBoard:    string(e.RoomBoard),
		Scholarships: scholarships,
		Insights:     string(e.Insights),
	}, nil
}
