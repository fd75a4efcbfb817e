package assessment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Assessment is a completed questionnaire together with what the backend
// derived from it. Rows are immutable; a retake inserts a new one.
type Assessment struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id"`
	Kind            Kind            `json:"kind"`
	CompletedAt     time.Time       `json:"completed_at"`
	Answers         Answers         `json:"answers"`
	Profile         string          `json:"profile,omitempty"`
	Strategy        string          `json:"strategy,omitempty"`
	Recommendations Recommendations `json:"recommendations,omitempty"`
}

// Recommendation points the user at a marketplace counterpart.
type Recommendation struct {
	TargetID   string  `json:"target_id"`
	TargetType string  `json:"target_type"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason,omitempty"`
}

// Recommendations is stored as a jsonb array.
type Recommendations []Recommendation

func (r Recommendations) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Recommendation(r))
}

func (r *Recommendations) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("recommendations: unsupported column type")
	}
	var out []Recommendation
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*r = out
	return nil
}
