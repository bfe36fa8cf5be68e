package sources

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// LoadCountryNames reads an "id<TAB>name" table with a header row and
// returns name -> id.
func LoadCountryNames(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse country names: %w", err)
	}
	if len(rows) == 0 {
		return map[string]string{}, nil
	}

	idCol, nameCol := 0, 1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id":
			idCol = i
		case "name":
			nameCol = i
		}
	}

	names := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= idCol || len(row) <= nameCol {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		names[name] = strings.TrimSpace(row[idCol])
	}
	return names, nil
}
