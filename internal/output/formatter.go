package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents output format options
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// ParseFormat validates a format name. Empty means JSON.
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(format)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatCSV, FormatTSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid: json, yaml, csv, tsv)", format)
	}
}

// FormatSingle formats one value. JSON and YAML encode it as is; CSV and
// TSV render maps as key/value lines and anything else as a single field.
func FormatSingle(format string, v any) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	default:
		return formatDelimited(f, toRecords(v))
	}
}

// FormatRows formats tabular data whose first row is the header.
// JSON and YAML emit an array of objects keyed by header.
func FormatRows(format string, rows [][]string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if f == FormatCSV || f == FormatTSV {
		return formatDelimited(f, rows)
	}

	objects := []map[string]string{}
	if len(rows) > 0 {
		header := rows[0]
		for _, row := range rows[1:] {
			obj := make(map[string]string, len(header))
			for i, h := range header {
				if i < len(row) {
					obj[h] = row[i]
				}
			}
			objects = append(objects, obj)
		}
	}
	return FormatSingle(string(f), objects)
}

func formatDelimited(f Format, rows [][]string) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if f == FormatTSV {
		w.Comma = '\t'
	}
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%s writer error: %w", f, err)
	}
	return []byte(buf.String()), nil
}

// toRecords converts a single value to delimited records
func toRecords(v any) [][]string {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([][]string, len(keys))
		for i, k := range keys {
			out[i] = []string{k, fmt.Sprint(val[k])}
		}
		return out
	case []string:
		return [][]string{val}
	default:
		if m, ok := asMap(v); ok {
			return toRecords(m)
		}
		return [][]string{{fmt.Sprint(v)}}
	}
}

// asMap converts structs to their JSON object form
func asMap(v any) (map[string]any, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}
