package backup

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/ejangi/ziplock-sub002/internal/model"
)

// exportCSV renders records as CSV with one row per credential: a fixed
// set of leading columns, then every field value in a stable
// alphabetical-by-name column order gathered across the whole record
// set (so every row has the same number of columns).
func exportCSV(records []model.CredentialRecord) ([]byte, error) {
	fieldNames := collectFieldNames(records)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"id", "title", "credential_type", "tags", "favorite"}, fieldNames...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Title,
			rec.CredentialType,
			joinTags(rec.Tags),
			strconv.FormatBool(rec.Favorite),
		}
		for _, name := range fieldNames {
			if f, ok := rec.Fields[name]; ok {
				// Sensitivity filtering already happened in
				// filterCredentials (Sanitized sets Value to "***" when
				// IncludeSensitive is false); use the value as-is here.
				row = append(row, f.Value)
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func collectFieldNames(records []model.CredentialRecord) []string {
	seen := map[string]bool{}
	var names []string
	for _, rec := range records {
		for name := range rec.Fields {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func joinTags(tags []string) string {
	var buf bytes.Buffer
	for i, t := range tags {
		if i > 0 {
			buf.WriteByte(';')
		}
		buf.WriteString(t)
	}
	return buf.String()
}
