package models

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
)

// Document is a loosely typed JSON object as decoded from a response body
type Document = map[string]interface{}

// Wire keys of the global metadata document
const (
	keyAmmoMetadata    = "ammoMetadata"
	keyTotalUserCount  = "totalUserCount"
	keyTotalAdsWatched = "totalAdsWatched"
	keyDisplayName     = "displayName"
	keyIndex           = "index"
)

// AmmoMetadata describes how a caliber is displayed
type AmmoMetadata struct {
	Caliber     string `json:"caliber"`
	DisplayName string `json:"displayName"`
	Index       int    `json:"index"`
}

// GlobalMetadata is the remote document with usage counters and ammo display data
type GlobalMetadata struct {
	TotalUserCount  int            `json:"totalUserCount"`
	TotalAdsWatched int            `json:"totalAdsWatched"`
	AmmoMetadata    []AmmoMetadata `json:"ammoMetadata"`
}

// ParseGlobalMetadata validates doc and builds a GlobalMetadata from it.
// The parse is all or nothing: any missing or mistyped field, in the
// counters or in any caliber entry, yields ok == false.
// AmmoMetadata is ordered by Index, then Caliber.
func ParseGlobalMetadata(doc Document) (GlobalMetadata, bool) {
	if doc == nil {
		return GlobalMetadata{}, false
	}

	entries, ok := asObject(doc[keyAmmoMetadata])
	if !ok {
		return GlobalMetadata{}, false
	}
	users, ok := asCount(doc[keyTotalUserCount])
	if !ok {
		return GlobalMetadata{}, false
	}
	ads, ok := asCount(doc[keyTotalAdsWatched])
	if !ok {
		return GlobalMetadata{}, false
	}

	ammo := make([]AmmoMetadata, 0, len(entries))
	for caliber, raw := range entries {
		entry, ok := asObject(raw)
		if !ok {
			return GlobalMetadata{}, false
		}
		name, ok := entry[keyDisplayName].(string)
		if !ok {
			return GlobalMetadata{}, false
		}
		index, ok := asInt(entry[keyIndex])
		if !ok {
			return GlobalMetadata{}, false
		}
		ammo = append(ammo, AmmoMetadata{Caliber: caliber, DisplayName: name, Index: index})
	}

	sort.Slice(ammo, func(i, j int) bool {
		if ammo[i].Index != ammo[j].Index {
			return ammo[i].Index < ammo[j].Index
		}
		return ammo[i].Caliber < ammo[j].Caliber
	})

	return GlobalMetadata{
		TotalUserCount:  users,
		TotalAdsWatched: ads,
		AmmoMetadata:    ammo,
	}, true
}

// ParseGlobalMetadataJSON decodes raw JSON and parses it with ParseGlobalMetadata
func ParseGlobalMetadataJSON(data []byte) (GlobalMetadata, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return GlobalMetadata{}, false
	}
	return ParseGlobalMetadata(doc)
}

// Document returns the wire form of g, the inverse of ParseGlobalMetadata
func (g GlobalMetadata) Document() Document {
	ammo := make(map[string]interface{}, len(g.AmmoMetadata))
	for _, a := range g.AmmoMetadata {
		ammo[a.Caliber] = map[string]interface{}{
			keyDisplayName: a.DisplayName,
			keyIndex:       a.Index,
		}
	}
	return Document{
		keyTotalUserCount:  g.TotalUserCount,
		keyTotalAdsWatched: g.TotalAdsWatched,
		keyAmmoMetadata:    ammo,
	}
}

// Ammo returns the metadata entry for caliber
func (g GlobalMetadata) Ammo(caliber string) (AmmoMetadata, bool) {
	for _, a := range g.AmmoMetadata {
		if a.Caliber == caliber {
			return a, true
		}
	}
	return AmmoMetadata{}, false
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch o := v.(type) {
	case map[string]interface{}:
		return o, true
	case map[string]map[string]interface{}:
		out := make(map[string]interface{}, len(o))
		for k, e := range o {
			out[k] = e
		}
		return out, true
	default:
		return nil, false
	}
}

func asCount(v interface{}) (int, bool) {
	n, ok := asInt(v)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// asInt accepts any numeric JSON value and truncates it toward zero.
// Booleans are not numbers.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return floatToInt(n)
	case float32:
		return floatToInt(float64(n))
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return uintToInt(uint64(n))
	case uint64:
		return uintToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return asInt(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	// on 64-bit platforms float64(math.MaxInt) rounds up to 2^63, itself out of range
	if math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

func uintToInt(n uint64) (int, bool) {
	if n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}
