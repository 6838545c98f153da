package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MetricKind distinguishes the two per-week indicator fields.
type MetricKind string

// Indicator kinds recorded per week.
const (
	MetricLag  MetricKind = "lag"
	MetricLead MetricKind = "lead"
)

// Valid reports whether k is a known indicator kind.
func (k MetricKind) Valid() bool { return k == MetricLag || k == MetricLead }

// MetricKey addresses one indicator value.
type MetricKey struct {
	Week int
	Kind MetricKind
}

// String renders the persisted form, e.g. "week3_lag".
func (k MetricKey) String() string {
	return "week" + strconv.Itoa(k.Week) + "_" + string(k.Kind)
}

// ParseMetricKey parses the persisted "week<N>_<kind>" form.
func ParseMetricKey(s string) (MetricKey, bool) {
	rest, ok := strings.CutPrefix(s, "week")
	if !ok {
		return MetricKey{}, false
	}
	num, kind, ok := strings.Cut(rest, "_")
	if !ok {
		return MetricKey{}, false
	}
	week, err := strconv.Atoi(num)
	if err != nil {
		return MetricKey{}, false
	}
	k := MetricKey{Week: week, Kind: MetricKind(kind)}
	if !k.Kind.Valid() {
		return MetricKey{}, false
	}
	return k, true
}

// Metrics holds the archived week history plus free-text lag/lead indicators.
// On the wire the indicators are flattened next to wesHistory.
type Metrics struct {
	WESHistory []WeekSnapshot
	Values     map[MetricKey]string
	// Extra keeps unrecognised members of the metrics object so they survive a save.
	Extra map[string]json.RawMessage
}

// Snapshot returns the archived entry for week.
func (m Metrics) Snapshot(week int) (WeekSnapshot, bool) {
	for _, h := range m.WESHistory {
		if h.Week == week {
			return h, true
		}
	}
	return WeekSnapshot{}, false
}

// Upsert replaces the history entry with the same week or appends a new one.
func (m *Metrics) Upsert(entry WeekSnapshot) {
	for i := range m.WESHistory {
		if m.WESHistory[i].Week == entry.Week {
			m.WESHistory[i] = entry
			return
		}
	}
	m.WESHistory = append(m.WESHistory, entry)
}

// Set records an indicator value.
func (m *Metrics) Set(key MetricKey, value string) {
	if m.Values == nil {
		m.Values = make(map[MetricKey]string)
	}
	m.Values[key] = value
}

func (m Metrics) clone() Metrics {
	out := Metrics{
		WESHistory: append([]WeekSnapshot(nil), m.WESHistory...),
		Values:     cloneMap(m.Values),
		Extra:      cloneMap(m.Extra),
	}
	if out.WESHistory == nil {
		out.WESHistory = []WeekSnapshot{}
	}
	return out
}

// MarshalJSON flattens the indicator map into week<N>_<kind> members.
func (m Metrics) MarshalJSON() ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(m.Values)+len(m.Extra)+1)
	for k, v := range m.Extra {
		obj[k] = v
	}
	history := m.WESHistory
	if history == nil {
		history = []WeekSnapshot{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	obj["wesHistory"] = raw
	for k, v := range m.Values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		obj[k.String()] = raw
	}
	return marshalSorted(obj)
}

// UnmarshalJSON accepts the flattened wire form.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	out := Metrics{WESHistory: []WeekSnapshot{}}
	for name, raw := range obj {
		if name == "wesHistory" {
			if err := json.Unmarshal(raw, &out.WESHistory); err != nil {
				return fmt.Errorf("decode wesHistory: %w", err)
			}
			if out.WESHistory == nil {
				out.WESHistory = []WeekSnapshot{}
			}
			continue
		}
		if key, ok := ParseMetricKey(name); ok && !isNull(raw) {
			var value string
			if err := json.Unmarshal(raw, &value); err == nil {
				out.Set(key, value)
				continue
			}
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[name] = append(json.RawMessage(nil), raw...)
	}
	*m = out
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// marshalSorted encodes obj with keys in lexical order so saves are byte-stable.
func marshalSorted(obj map[string]json.RawMessage) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(obj[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Model-week grid dimensions: Monday..Sunday by 08:00..23:00.
const (
	GridDays  = 7
	GridHours = 16
	// GridFirstHour is the wall-clock hour of hour index 0.
	GridFirstHour = 8
)

// SlotKey addresses one hour of the model week.
type SlotKey struct {
	Day  int
	Hour int
}

// Valid reports whether the slot lies inside the planner grid.
func (k SlotKey) Valid() bool {
	return k.Day >= 0 && k.Day < GridDays && k.Hour >= 0 && k.Hour < GridHours
}

// String renders the persisted form, e.g. "d0-h3".
func (k SlotKey) String() string {
	return "d" + strconv.Itoa(k.Day) + "-h" + strconv.Itoa(k.Hour)
}

// ParseSlotKey parses the persisted "d<day>-h<hour>" form.
func ParseSlotKey(s string) (SlotKey, error) {
	day, hour, ok := strings.Cut(s, "-")
	if !ok || !strings.HasPrefix(day, "d") || !strings.HasPrefix(hour, "h") {
		return SlotKey{}, fmt.Errorf("invalid slot key %q", s)
	}
	d, err := strconv.Atoi(day[1:])
	if err != nil {
		return SlotKey{}, fmt.Errorf("invalid slot day %q: %w", s, err)
	}
	h, err := strconv.Atoi(hour[1:])
	if err != nil {
		return SlotKey{}, fmt.Errorf("invalid slot hour %q: %w", s, err)
	}
	return SlotKey{Day: d, Hour: h}, nil
}

// MarshalText implements encoding.TextMarshaler so SlotKey can key JSON objects.
func (k SlotKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SlotKey) UnmarshalText(text []byte) error {
	parsed, err := ParseSlotKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// BlockType tags a model-week slot.
type BlockType string

// Block tags. The first four form the toggle cycle; the legacy tags are only
// ever read from old saves.
const (
	BlockEmpty    BlockType = "empty"
	BlockPlan     BlockType = "plan"
	BlockAction   BlockType = "action"
	BlockBreakout BlockType = "breakout"

	BlockLegacyStrategic BlockType = "strategic"
	BlockLegacyBuffer    BlockType = "buffer"
)

var blockCycle = []BlockType{BlockEmpty, BlockPlan, BlockAction, BlockBreakout}

// Next returns the tag that follows b in the toggle cycle. Tags outside the
// cycle restart from the first cycle position.
func (b BlockType) Next() BlockType {
	idx := 0
	for i, c := range blockCycle {
		if c == b {
			idx = i
			break
		}
	}
	return blockCycle[(idx+1)%len(blockCycle)]
}
