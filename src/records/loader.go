package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted for the anomalies timestamp column. The scanner
// writes RFC 3339 UTC; the fallbacks cover hand-edited or re-exported files.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp cell into UTC. The second return is
// false when the cell is empty or matches none of the accepted layouts;
// such cells stay absent and the row is kept.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// header maps column names to indexes. Lookups for columns missing from the
// file return absent cells for every row.
type header map[string]int

func readHeader(r *csv.Reader, path string) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	h := header{}
	for i, name := range row {
		h[strings.TrimSpace(name)] = i
	}
	if _, ok := h["type_name"]; !ok {
		return nil, fmt.Errorf("%s: missing required column type_name", path)
	}
	return h, nil
}

func (h header) cell(row []string, name string) (string, bool) {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return "", false
	}
	return v, true
}

// LoadAnomalies reads an anomalies CSV export into memory. The timestamp
// column is parsed at load time; rows with unparseable timestamps are kept
// with the timestamp absent. A missing file, unreadable data, a malformed
// CSV structure or a header without type_name is an error.
func LoadAnomalies(path string) ([]AnomalyRecord, error) {
	start := time.Now()
	defer TimeTrack(start, "load anomalies")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open anomalies: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	h, err := readHeader(r, path)
	if err != nil {
		return nil, err
	}

	var out []AnomalyRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rec := AnomalyRecord{}
		rec.TypeName, _ = h.cell(row, "type_name")
		if v, ok := h.cell(row, "timestamp"); ok {
			rec.Timestamp, rec.HasTimestamp = ParseTimestamp(v)
		}
		if v, ok := h.cell(row, "severity"); ok {
			rec.Severity = v
			rec.HasSeverity = true
		}
		if v, ok := h.cell(row, "count"); ok {
			rec.Count, rec.HasCount = parseNumeric(v)
		}
		if v, ok := h.cell(row, "fee_eth"); ok {
			rec.FeeEth, rec.HasFeeEth = parseNumeric(v)
		}
		rec.TxHash, _ = h.cell(row, "tx_hash")
		rec.Sender, _ = h.cell(row, "sender")
		rec.Address, _ = h.cell(row, "addres")
		rec.Reasons, _ = h.cell(row, "reasons")
		rec.ReceiversJSON, _ = h.cell(row, "receivers_json")
		out = append(out, rec)
	}
	Debugf("loaded %d anomaly rows from %s", len(out), path)
	return out, nil
}

// LoadPatterns reads a business-patterns CSV export into memory.
func LoadPatterns(path string) ([]PatternRecord, error) {
	start := time.Now()
	defer TimeTrack(start, "load patterns")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open patterns: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	h, err := readHeader(r, path)
	if err != nil {
		return nil, err
	}

	var out []PatternRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rec := PatternRecord{}
		if v, ok := h.cell(row, "type_name"); ok {
			rec.TypeName = v
			rec.HasTypeName = true
		}
		if v, ok := h.cell(row, "count"); ok {
			rec.Count, rec.HasCount = parseNumeric(v)
		}
		rec.Sender, _ = h.cell(row, "sender")
		rec.TxHash, _ = h.cell(row, "tx_hash")
		rec.Message, _ = h.cell(row, "message")
		out = append(out, rec)
	}
	Debugf("loaded %d pattern rows from %s", len(out), path)
	return out, nil
}
