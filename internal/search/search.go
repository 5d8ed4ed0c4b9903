// Package search implements the repository's search/filter engine (the
// spec's Search Engine component): case-insensitive, side-effect-free
// querying over an already-loaded set of credentials.
package search

import (
	"sort"
	"strings"

	"github.com/ejangi/ziplock-sub002/internal/model"
)

// Query describes a search request. An empty Text matches everything;
// RequiredTags/Type/FavoriteOnly further narrow the result set.
type Query struct {
	Text         string
	RequiredTags []string
	Type         string
	FavoriteOnly bool
}

// Result pairs a matched credential with its relevance score.
type Result struct {
	Credential model.CredentialRecord
	Score      int
}

const (
	titleWeight = 10
	tagWeight   = 5
	fieldWeight = 3
	notesWeight = 1
)

// Search evaluates q against records and returns matches sorted by
// descending score, then by title for a stable order among ties. It
// never mutates a record (in particular, it never touches AccessedAt).
func Search(records []model.CredentialRecord, q Query) []Result {
	var out []Result

	for _, rec := range records {
		if q.Type != "" && rec.CredentialType != q.Type {
			continue
		}
		if q.FavoriteOnly && !rec.Favorite {
			continue
		}
		if !hasAllTags(rec, q.RequiredTags) {
			continue
		}

		score, matched := scoreRecord(rec, q.Text)
		if q.Text != "" && !matched {
			continue
		}
		out = append(out, Result{Credential: rec, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Credential.Title < out[j].Credential.Title
	})
	return out
}

func hasAllTags(rec model.CredentialRecord, required []string) bool {
	for _, tag := range required {
		if !rec.HasTag(tag) {
			return false
		}
	}
	return true
}

// scoreRecord returns a deterministic relevance score for rec against
// text, and whether rec matches at all. An empty text always matches
// with score 0. Matching never inspects sensitive field values: only
// title, tags, notes, and non-sensitive field values are searched.
func scoreRecord(rec model.CredentialRecord, text string) (int, bool) {
	if text == "" {
		return 0, true
	}
	needle := strings.ToLower(text)
	score := 0
	matched := false

	if strings.Contains(strings.ToLower(rec.Title), needle) {
		score += titleWeight
		matched = true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			score += tagWeight
			matched = true
		}
	}
	for _, f := range rec.Fields {
		if f.Sensitive {
			continue
		}
		if strings.Contains(strings.ToLower(f.Value), needle) {
			score += fieldWeight
			matched = true
		}
	}
	if strings.Contains(strings.ToLower(rec.Notes), needle) {
		score += notesWeight
		matched = true
	}

	return score, matched
}
