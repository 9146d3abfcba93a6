package ingest

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Answer is one answered question. Multi-select questions arrive as a list
// of selected options; everything else as a single string.
type Answer struct {
	ID     string   `json:"id"`
	Values []string `json:"answer"`
}

// UnmarshalJSON accepts both `"answer": "Yes"` and `"answer": ["a", "b"]`.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var multi struct {
		ID     string   `json:"id"`
		Answer []string `json:"answer"`
	}
	if err := json.Unmarshal(data, &multi); err == nil {
		a.ID = multi.ID
		a.Values = multi.Answer
		return nil
	}

	var single struct {
		ID     string `json:"id"`
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(data, &single); err != nil {
		return eris.Wrap(err, "ingest: decode answer")
	}
	a.ID = single.ID
	if single.Answer != "" {
		a.Values = []string{single.Answer}
	}
	return nil
}

// First returns the single-value reading of the answer.
func (a Answer) First() string {
	if len(a.Values) == 0 {
		return ""
	}
	return a.Values[0]
}

// Response is one respondent's submitted questionnaire.
type Response struct {
	Answers []Answer `json:"answers"`
	Source  string   `json:"source"`
}

// Answer returns the answer for the given field identifier, if present.
func (r Response) Answer(fieldID string) (Answer, bool) {
	for _, a := range r.Answers {
		if a.ID == fieldID {
			return a, true
		}
	}
	return Answer{}, false
}
