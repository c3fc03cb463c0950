package sink

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/thinksmartgroup/Search-AI/internal/types"
)

// wireResult is one element of an inbound callback delivery as the
// enrichment service sends it.
type wireResult struct {
	Status    string         `json:"status"`
	Item      string         `json:"item"`
	Candidate *wireCandidate `json:"candidate"`
}

// wireCandidate tolerates the field-name drift the service has shipped over
// time: the company may arrive as "companyName", "company", or as the first
// entry of an "experience" array.
type wireCandidate struct {
	FullName    string           `json:"fullName"`
	HeadLine    string           `json:"headLine"`
	CompanyName string           `json:"companyName"`
	Company     string           `json:"company"`
	Website     string           `json:"website"`
	Experience  []wireExperience `json:"experience"`
	Contacts    []types.Contact  `json:"contacts"`
}

type wireExperience struct {
	Company string `json:"company"`
}

func (w *wireCandidate) companyName() string {
	if w.CompanyName != "" {
		return w.CompanyName
	}
	if w.Company != "" {
		return w.Company
	}
	if len(w.Experience) > 0 {
		return w.Experience[0].Company
	}
	return ""
}

func (w *wireCandidate) toCandidate() *types.Candidate {
	return &types.Candidate{
		FullName:    w.FullName,
		HeadLine:    w.HeadLine,
		CompanyName: w.companyName(),
		Website:     w.Website,
		Contacts:    w.Contacts,
	}
}

// splitPayload splits a delivery body into its elements. A body is either a
// single result object or an array of result objects. Returns an error only
// when the body is not valid JSON at all; that is the caller's 400.
func splitPayload(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if trimmed[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return nil, fmt.Errorf("malformed array payload: %w", err)
		}
		return elements, nil
	}
	var single json.RawMessage
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	return []json.RawMessage{single}, nil
}

// buildRecord converts one payload element into a CallbackRecord. The
// success invariant is enforced here: a success record always carries a
// candidate, and non-success records never do.
func buildRecord(element json.RawMessage, token string) (types.CallbackRecord, error) {
	var wire wireResult
	if err := json.Unmarshal(element, &wire); err != nil {
		return types.CallbackRecord{}, fmt.Errorf("unparseable element: %w", err)
	}

	status := types.ParseStatus(wire.Status)
	rec := types.CallbackRecord{
		Status:     status,
		Token:      token,
		Item:       wire.Item,
		RawPayload: append(json.RawMessage(nil), element...),
	}

	if status == types.StatusSuccess {
		if wire.Candidate == nil {
			return types.CallbackRecord{}, fmt.Errorf("success element without candidate")
		}
		rec.Candidate = wire.Candidate.toCandidate()
	}
	return rec, nil
}
