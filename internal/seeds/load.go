package seeds

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// LoadProfiles reads a seed file, choosing the format from its extension:
// .csv, or .yaml/.yml/.json (JSON is parsed as YAML).
func LoadProfiles(path string) ([]ProfileSeed, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readCSV(f)
	case ".yaml", ".yml", ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var rows []ProfileSeed
		if err := yaml.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported seed file type %q", filepath.Ext(path))
	}
}

// readCSV maps columns by header name. first_name and last_name are required;
// id, email, phone, street_addr, city, state and country are optional.
func readCSV(src io.Reader) ([]ProfileSeed, error) {
	r := csv.NewReader(bufio.NewReader(src))
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"first_name", "last_name"} {
		if _, ok := idx[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []ProfileSeed
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}

		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		row := ProfileSeed{
			ID:         get("id"),
			FirstName:  get("first_name"),
			LastName:   get("last_name"),
			Email:      get("email"),
			StreetAddr: get("street_addr"),
			City:       get("city"),
			State:      get("state"),
			Country:    get("country"),
		}
		if phone := get("phone"); phone != "" {
			row.Phone = &phone
		}
		out = append(out, row)
	}
	return out, nil
}
