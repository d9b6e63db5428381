// Package googlelist parses the cached ds:1 listing payload from the
// Google careers page into canonical drafts.
//
// The payload is a positional-array contract: job rows sit at index 0 of
// the top-level list, and row fields live at fixed offsets. The upstream
// source publishes no schema version, so a shape change upstream breaks
// parsing silently; the offsets below are the observed contract.
package googlelist

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobfeed-engine/internal/domain"
)

// Observed row offsets in the ds:1 payload. Unversioned upstream contract.
const (
	offATSID     = 0
	offTitle     = 1
	offURL       = 2
	offCompany   = 7
	offLocations = 9
)

const defaultCompany = "Google"

// ParsePayload decodes a ds:1 payload (either {"data": [...]} or a bare
// top-level list) and returns the canonical drafts it contains. Rows with
// no ats id and no url are skipped. A payload whose top-level shape is
// wrong is a decode error; a malformed individual row is not.
func ParsePayload(raw []byte) ([]domain.Job, error) {
	rows, err := jobRows(raw)
	if err != nil {
		return nil, err
	}

	var out []domain.Job
	for _, row := range rows {
		if j, ok := normalizeRow(row); ok {
			out = append(out, j)
		}
	}
	return out, nil
}

// jobRows locates the row list inside the payload.
func jobRows(raw []byte) ([]json.RawMessage, error) {
	payload := json.RawMessage(raw)

	// Wrapped form: {"data": [...]}.
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Data != nil {
		payload = wrapper.Data
	}

	var top []json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, fmt.Errorf("ds:1 payload must be a list: %w", err)
	}
	if len(top) == 0 {
		return nil, nil
	}

	// Job rows are the list at index 0.
	var rows []json.RawMessage
	if err := json.Unmarshal(top[0], &rows); err != nil {
		return nil, nil
	}
	return rows, nil
}

// normalizeRow maps one positional row to a draft. ok is false when the
// row carries no natural key or is not an array at all.
func normalizeRow(raw json.RawMessage) (domain.Job, bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Job{}, false
	}

	at := func(i int) json.RawMessage {
		if i < len(fields) {
			return fields[i]
		}
		return nil
	}

	atsID := decodeString(at(offATSID))
	url := decodeString(at(offURL))
	if atsID == "" && url == "" {
		return domain.Job{}, false
	}

	company := decodeString(at(offCompany))
	if company == "" {
		company = defaultCompany
	}

	return domain.Job{
		Source:   domain.SourceGoogle,
		ATSID:    atsID,
		URL:      url,
		Title:    decodeString(at(offTitle)),
		Company:  company,
		Location: FlattenLocations(at(offLocations)),
		IsActive: true,
	}, true
}

// FlattenLocations normalizes the raw locations field. Each entry is a
// bare string, a flat list of strings, or a list of one-level-nested
// lists; the first non-empty string of each entry is collected in
// first-seen order with exact-string dedup, joined by ", ".
func FlattenLocations(raw json.RawMessage) string {
	var entries []json.RawMessage
	if raw == nil || json.Unmarshal(raw, &entries) != nil {
		return ""
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		name := locationName(entry)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func locationName(raw json.RawMessage) string {
	if s := decodeString(raw); s != "" {
		return s
	}

	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return ""
	}
	for _, item := range items {
		if s := decodeString(item); s != "" {
			return s
		}
		var subs []json.RawMessage
		if json.Unmarshal(item, &subs) != nil {
			continue
		}
		for _, sub := range subs {
			if s := decodeString(sub); s != "" {
				return s
			}
		}
	}
	return ""
}

// decodeString returns the trimmed string value of raw, or "" when raw is
// absent, null or not a string.
func decodeString(raw json.RawMessage) string {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
