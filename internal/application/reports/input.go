package reports

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ID is an identifier as sent by API clients: either a JSON number or a JSON string.
// The canonical text is kept; Numeric coerces it for comparisons.
type ID string

// UintID formats a database key as an ID.
func UintID(v uint) ID {
	return ID(strconv.FormatUint(uint64(v), 10))
}

// Numeric returns the value of the ID as a number. Empty and non-numeric IDs report false.
func (id ID) Numeric() (float64, bool) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// SameNumber reports whether both IDs coerce to the same number.
func (id ID) SameNumber(other ID) bool {
	a, ok := id.Numeric()
	if !ok {
		return false
	}
	b, ok := other.Numeric()
	return ok && a == b
}

// key identifies the ID for grouping: numeric IDs by value, so "1", 1 and "1.0" share a key.
func (id ID) key() string {
	if f, ok := id.Numeric(); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "s:" + string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// booleans, objects, arrays: not an identifier
		*id = ""
		return nil
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseUint(string(id), 10, 64); err == nil && strconv.FormatUint(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Asset is one asset record of a listing snapshot.
type Asset struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	AssetNumber *string      `json:"asset_number"`
	Assignments []Assignment `json:"assignments"`
}

// Assignment places an asset at a station.
type Assignment struct {
	ID               ID                `json:"id"`
	StationID        ID                `json:"station_id"`
	AssignedAt       *time.Time        `json:"assigned_at"`
	BatchAllocations []BatchAllocation `json:"batch_allocations"`
}

// BatchAllocation is one unit handed out under an assignment. Batch is nil when the
// referenced batch could not be resolved.
type BatchAllocation struct {
	ID           ID         `json:"id"`
	Batch        *Batch     `json:"batch"`
	SerialNumber *string    `json:"serial_number"`
	AssignedAt   *time.Time `json:"assigned_at"`
}

// Batch is the purchase record an allocation points at.
type Batch struct {
	ID            ID              `json:"id"`
	Name          string          `json:"name"`
	PurchaseDate  *time.Time      `json:"purchase_date"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// Snapshot payloads come from clients holding partially populated listings, so decoding never
// fails on a nested field: a value of the wrong shape is treated as absent.

func (a *Asset) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          ID              `json:"id"`
		Name        json.RawMessage `json:"name"`
		AssetNumber json.RawMessage `json:"asset_number"`
		Assignments json.RawMessage `json:"assignments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Asset{
		ID:          raw.ID,
		Name:        stringOrEmpty(raw.Name),
		AssetNumber: optionalString(raw.AssetNumber),
		Assignments: decodeList[Assignment](raw.Assignments),
	}
	return nil
}

func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID               ID              `json:"id"`
		StationID        ID              `json:"station_id"`
		AssignedAt       json.RawMessage `json:"assigned_at"`
		BatchAllocations json.RawMessage `json:"batch_allocations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Assignment{
		ID:               raw.ID,
		StationID:        raw.StationID,
		AssignedAt:       parseDate(raw.AssignedAt),
		BatchAllocations: decodeList[BatchAllocation](raw.BatchAllocations),
	}
	return nil
}

func (b *BatchAllocation) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           ID              `json:"id"`
		Batch        json.RawMessage `json:"batch"`
		SerialNumber json.RawMessage `json:"serial_number"`
		AssignedAt   json.RawMessage `json:"assigned_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = BatchAllocation{
		ID:           raw.ID,
		SerialNumber: optionalString(raw.SerialNumber),
		AssignedAt:   parseDate(raw.AssignedAt),
	}
	if isObject(raw.Batch) {
		var batch Batch
		if err := json.Unmarshal(raw.Batch, &batch); err == nil {
			b.Batch = &batch
		}
	}
	return nil
}

func (b *Batch) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            ID              `json:"id"`
		Name          json.RawMessage `json:"name"`
		PurchaseDate  json.RawMessage `json:"purchase_date"`
		PurchasePrice json.RawMessage `json:"purchase_price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Batch{
		ID:            raw.ID,
		Name:          stringOrEmpty(raw.Name),
		PurchaseDate:  parseDate(raw.PurchaseDate),
		PurchasePrice: parsePrice(raw.PurchasePrice),
	}
	return nil
}

// AssetList is a top-level asset listing. Elements that are not asset objects are dropped.
type AssetList []Asset

func (l *AssetList) UnmarshalJSON(data []byte) error {
	*l = decodeList[Asset](data)
	return nil
}

// decodeList decodes a JSON array element by element, dropping elements that do not decode.
// Anything other than an array yields an empty list.
func decodeList[T any](data json.RawMessage) []T {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		if !isObject(e) {
			continue
		}
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func isObject(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

func optionalString(data json.RawMessage) *string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return &s
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		s = n.String()
		return &s
	}
	return nil
}

func stringOrEmpty(data json.RawMessage) string {
	if s := optionalString(data); s != nil {
		return *s
	}
	return ""
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(data json.RawMessage) *time.Time {
	s := optionalString(data)
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

func parsePrice(data json.RawMessage) decimal.Decimal {
	s := optionalString(data)
	if s == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
