package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNoData = errors.New("no data to export")

// Header maps a dot path into the record ("address.city") to a column label.
type Header struct {
	Key   string
	Label string
}

// ToCSV renders records, a slice of structs or maps, as comma separated
// text: a header row then one row per record, without a trailing newline.
// Nested values are reached through their json field names.
func ToCSV(records any, headers []Header) (string, error) {
	rows, err := toRows(records)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrNoData
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	labels := make([]string, len(headers))
	for i, h := range headers {
		labels[i] = h.Label
	}
	if err := writeRecord(buf, writer, labels); err != nil {
		return "", err
	}

	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			cell, err := formatValue(lookup(row, h.Key))
			if err != nil {
				return "", fmt.Errorf("column %s: %w", h.Key, err)
			}
			record[i] = cell
		}
		if err := writeRecord(buf, writer, record); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// writeRecord spells a lone empty field as "" because csv.Writer would emit a
// blank line, which readers skip.
func writeRecord(buf *bytes.Buffer, writer *csv.Writer, record []string) error {
	if len(record) == 1 && record[0] == "" {
		writer.Flush()
		if err := writer.Error(); err != nil {
			return err
		}
		buf.WriteString("\"\"\n")
		return nil
	}
	return writer.Write(record)
}

// toRows goes through json so that struct tags decide the field names.
func toRows(records any) ([]map[string]any, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("records must be a list of objects: %w", err)
	}
	return rows, nil
}

func lookup(row map[string]any, path string) any {
	var current any = row
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

func formatValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		text, err := json.MarshalNoEscape(v)
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
}
