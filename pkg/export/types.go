// Package export implements the campaign export pipeline: paginated
// fetching, in-memory joining of campaigns with their message links,
// referential validation, filtering, and run accounting.
package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexString is a string type that can unmarshal from both string and number
// JSON values. The campaign API is inconsistent about id fields: some accounts
// return them as strings, others as numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler for FlexString.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	// Try string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	// Try number (int or float)
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	// null, objects, arrays: no usable id. The record stays decodable and
	// the empty id surfaces downstream as a filter reject or a validation
	// finding instead of failing the whole page.
	*f = ""
	return nil
}

// String returns the string value.
func (f FlexString) String() string {
	return string(f)
}

// FlexInt holds an integer that was coerced from a JSON number or a numeric
// string. Valid is false when the source value was absent or not numeric.
// Non-integral numbers (e.g. 5.5) are rejected rather than truncated so that
// an exact-match filter cannot be fooled by rounding.
type FlexInt struct {
	Value int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler for FlexInt.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = FlexInt{}
		return nil
	}

	// Strip quotes for string-typed numbers ("5")
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*f = FlexInt{}
		return nil
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = FlexInt{Value: int(v), Valid: true}
		return nil
	}

	// Accept integral floats ("5.0") but not fractional values
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v == float64(int64(v)) {
		*f = FlexInt{Value: int(v), Valid: true}
		return nil
	}

	// Not numeric: keep the record, mark the value unusable
	*f = FlexInt{}
	return nil
}

// MarshalJSON implements json.Marshaler for FlexInt.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// AutomationFlag classifies a campaign's automation field. The API signals
// "not an automation" as a missing field, an explicit null, or the literal
// string "0" - these three are equivalent. Only the literal string "1" marks
// an automation campaign. Every other value (including numeric 0 and 1, which
// the API is not supposed to send) is classified as Unknown and matches
// neither filter mode.
type AutomationFlag int

const (
	// AutomationAbsent means the field was missing or null.
	AutomationAbsent AutomationFlag = iota

	// AutomationRegular means the field held the literal string "0".
	AutomationRegular

	// AutomationEnabled means the field held the literal string "1".
	AutomationEnabled

	// AutomationUnknown means the field held any other value.
	AutomationUnknown
)

// String returns a human-readable name for the flag.
func (a AutomationFlag) String() string {
	switch a {
	case AutomationAbsent:
		return "absent"
	case AutomationRegular:
		return "regular"
	case AutomationEnabled:
		return "automation"
	default:
		return "unknown"
	}
}

// parseAutomationFlag classifies a raw JSON value.
func parseAutomationFlag(raw json.RawMessage) AutomationFlag {
	if raw == nil || string(raw) == "null" {
		return AutomationAbsent
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Non-string value (number, object, ...)
		return AutomationUnknown
	}
	switch s {
	case "0":
		return AutomationRegular
	case "1":
		return AutomationEnabled
	default:
		return AutomationUnknown
	}
}

// Campaign is the primary paginated record. The three fields the pipeline
// interprets (id, status, automation) are decoded into typed form; the full
// raw field set is kept in Fields and re-emitted verbatim on output.
type Campaign struct {
	ID         FlexString
	Status     FlexInt
	Automation AutomationFlag

	// Fields holds every field of the source record, unmodified.
	Fields map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler for Campaign.
func (c *Campaign) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode campaign: %w", err)
	}

	c.Fields = fields
	c.ID = ""
	c.Status = FlexInt{}

	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &c.ID); err != nil {
			return fmt.Errorf("decode campaign id: %w", err)
		}
	}
	if raw, ok := fields["status"]; ok {
		if err := json.Unmarshal(raw, &c.Status); err != nil {
			return fmt.Errorf("decode campaign status: %w", err)
		}
	}
	c.Automation = parseAutomationFlag(fields["automation"])

	return nil
}

// MarshalJSON emits the original field set verbatim.
func (c Campaign) MarshalJSON() ([]byte, error) {
	if c.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.Fields)
}

// CampaignMessage is the link record joining a campaign to its message.
type CampaignMessage struct {
	CampaignID FlexString
	MessageID  FlexString

	Fields map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler for CampaignMessage.
func (m *CampaignMessage) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode campaign message: %w", err)
	}

	m.Fields = fields
	m.CampaignID = ""
	m.MessageID = ""

	if raw, ok := fields["campaignid"]; ok {
		if err := json.Unmarshal(raw, &m.CampaignID); err != nil {
			return fmt.Errorf("decode campaign message campaignid: %w", err)
		}
	}
	if raw, ok := fields["messageid"]; ok {
		if err := json.Unmarshal(raw, &m.MessageID); err != nil {
			return fmt.Errorf("decode campaign message messageid: %w", err)
		}
	}

	return nil
}

// MarshalJSON emits the original field set verbatim.
func (m CampaignMessage) MarshalJSON() ([]byte, error) {
	if m.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.Fields)
}

// Message is the content record a campaign ultimately points at.
type Message struct {
	ID FlexString

	Fields map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler for Message.
func (m *Message) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}

	m.Fields = fields
	m.ID = ""

	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &m.ID); err != nil {
			return fmt.Errorf("decode message id: %w", err)
		}
	}

	return nil
}

// MarshalJSON emits the original field set verbatim.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.Fields)
}

// Page is one fetched batch: up to batchSize campaigns plus the link and
// message records sideloaded for that batch. Any of the three sequences may
// be absent.
type Page struct {
	Campaigns        []Campaign        `json:"campaigns"`
	CampaignMessages []CampaignMessage `json:"campaignMessages"`
	Messages         []Message         `json:"messages"`
}

// Metadata records the validation outcome for one enriched campaign.
// RelationshipsValid is true exactly when Errors is empty.
type Metadata struct {
	RelationshipsValid bool     `json:"relationshipsValid"`
	Errors             []string `json:"errors"`
}

// EnrichedCampaign is a campaign with its resolved link and message attached.
// Link and Msg are nil when the join could not resolve them; the JSON output
// carries explicit nulls so that absence is visible downstream.
type EnrichedCampaign struct {
	Campaign Campaign
	Link     *CampaignMessage
	Msg      *Message
	Meta     Metadata
}

// MarshalJSON merges the campaign's passthrough fields with the attached
// link, message, and metadata at the top level.
func (e EnrichedCampaign) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.Campaign.Fields)+3)
	for k, v := range e.Campaign.Fields {
		out[k] = v
	}

	link, err := json.Marshal(e.Link)
	if err != nil {
		return nil, fmt.Errorf("encode link: %w", err)
	}
	out["link"] = link

	msg, err := json.Marshal(e.Msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	out["message"] = msg

	meta, err := json.Marshal(e.Meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	out["metadata"] = meta

	return json.Marshal(out)
}

// RunSummary aggregates the counters of a completed export run together with
// the filter configuration that produced it.
type RunSummary struct {
	TotalFetched    int          `json:"totalFetched"`
	TotalKept       int          `json:"totalKept"`
	TotalWithErrors int          `json:"totalWithErrors"`
	DurationSeconds float64      `json:"durationSeconds"`
	Timestamp       time.Time    `json:"timestamp"`
	TestMode        bool         `json:"testMode"`
	Filter          FilterConfig `json:"filter"`
}

// Document is the value handed to the result sink at the end of a run.
type Document struct {
	Summary   RunSummary         `json:"summary"`
	Campaigns []EnrichedCampaign `json:"campaigns"`
}
