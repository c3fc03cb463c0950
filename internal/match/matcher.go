// Package match decides whether a received callback record corresponds to a
// pending query.
package match

import (
	"strings"

	"github.com/thinksmartgroup/Search-AI/internal/normalize"
	"github.com/thinksmartgroup/Search-AI/internal/types"
)

// Find scans the snapshot in arrival order and returns the first success
// record whose candidate corresponds to q. A record matches when any rule
// holds, checked per record in this order:
//
//  1. token:     the record's correlation token equals q.Token (both non-empty)
//  2. exact:     normalized candidate website equals normalized requested
//                website (both non-empty)
//  3. substring: the candidate's company name contains q.RequestedName,
//                case-insensitively (requested name non-empty)
//
// Arrival order is the tie-break across records, not rule strength: an
// earlier record matching only by substring wins over a later record with an
// exact website match. Pure with respect to its inputs: the same query and
// snapshot always produce the same result.
func Find(q types.Query, snapshot []types.CallbackRecord) (types.Candidate, bool) {
	wantSite := normalize.URL(q.RequestedWebsite)
	wantName := normalize.Name(q.RequestedName)

	for _, rec := range snapshot {
		if rec.Status != types.StatusSuccess || rec.Candidate == nil {
			continue
		}
		if matches(q.Token, wantSite, wantName, rec) {
			return *rec.Candidate, true
		}
	}
	return types.Candidate{}, false
}

func matches(token, wantSite, wantName string, rec types.CallbackRecord) bool {
	if token != "" && rec.Token == token {
		return true
	}
	if wantSite != "" && normalize.URL(rec.Candidate.Website) == wantSite {
		return true
	}
	if wantName != "" && strings.Contains(strings.ToLower(rec.Candidate.CompanyName), wantName) {
		return true
	}
	return false
}
