package gateway

import (
	"fmt"
	"math"
	"strings"

	"github.com/grovetools/surround/pkg/models"
	"github.com/mitchellh/mapstructure"
)

// asInt accepts only integral JSON numbers. Anything else, including numeric
// strings, is treated as absent.
func asInt(v interface{}) *int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return nil
		}
		return models.IntPtr(int(n))
	case int:
		return models.IntPtr(n)
	case int64:
		return models.IntPtr(int(n))
	}
	return nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truthy follows the backend's loose boolean convention: null, false, zero and
// the empty string are false; everything else is true.
func truthy(v interface{}) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case float64:
		return b != 0 && !math.IsNaN(b)
	case string:
		return b != ""
	}
	return true
}

func newDecoder(target interface{}) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
}

// decodeFormat turns a backend format object into a StreamFormat. A missing
// or non-object value yields nil so the consolidator substitutes its default.
func decodeFormat(v interface{}) (*models.StreamFormat, error) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	var f models.StreamFormat
	dec, err := newDecoder(&f)
	if err != nil {
		return nil, fmt.Errorf("create format decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode format: %w", err)
	}
	cleaned := make([]string, 0, len(f.ChannelMap))
	for _, ch := range f.ChannelMap {
		for _, part := range strings.Split(ch, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cleaned = append(cleaned, part)
			}
		}
	}
	f.ChannelMap = cleaned
	return &f, nil
}

// decodeStreamRecord validates one sink-input object. Fields with the wrong
// type are treated as absent; a malformed format degrades to the default.
func decodeStreamRecord(raw map[string]interface{}) (models.RawStreamRecord, error) {
	rec := models.RawStreamRecord{
		Index:        asInt(raw["index"]),
		Name:         asString(raw["name"]),
		Sink:         asInt(raw["sink"]),
		TargetObject: asString(raw["target_object"]),
		Volume:       asString(raw["volume"]),
	}
	format, err := decodeFormat(raw["format"])
	rec.Format = format
	return rec, err
}

func decodeSink(raw map[string]interface{}) models.Sink {
	return models.Sink{
		Index:       asInt(raw["index"]),
		Name:        asString(raw["name"]),
		Description: asString(raw["description"]),
	}
}

func decodeHrirFile(raw map[string]interface{}) (models.HrirFile, error) {
	var f struct {
		Label        string      `mapstructure:"label"`
		Path         string      `mapstructure:"path"`
		ChannelCount interface{} `mapstructure:"channel_count"`
	}
	dec, err := newDecoder(&f)
	if err != nil {
		return models.HrirFile{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return models.HrirFile{}, fmt.Errorf("decode hrir file: %w", err)
	}
	return models.HrirFile{Label: f.Label, Path: f.Path, ChannelCount: asInt(f.ChannelCount)}, nil
}

// objects keeps the elements of a JSON list that are objects.
func objects(list []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
