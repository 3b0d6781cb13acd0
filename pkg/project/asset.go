package project

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// ValueType discriminates the kinds of content an Asset can carry. The set
// is closed: Value is a sealed interface with one implementation per type.
type ValueType string

const (
	ValueText   ValueType = "text"
	ValueImage  ValueType = "image"
	ValueRecord ValueType = "record"
	ValueArray  ValueType = "array"
)

// Valid reports whether t is one of the known value types.
func (t ValueType) Valid() bool {
	switch t {
	case ValueText, ValueImage, ValueRecord, ValueArray:
		return true
	}
	return false
}

// Media reports whether t is a media kind (shown in the asset library).
// Text and record assets are data, not media.
func (t ValueType) Media() bool {
	return t == ValueImage || t == ValueArray
}

// Value is the tagged content union of an Asset. Payload is the
// content-bearing part: it is what gets hashed and what history snapshots
// hold. Derived metadata and behavioral config ride alongside but never
// contribute to the content hash.
type Value interface {
	Type() ValueType

	// Payload returns the content that is hashed and snapshotted.
	Payload() any

	meta() any
	config() any
}

// Sys carries an asset's bookkeeping: display name, timestamps (Unix
// milliseconds), and where the content came from.
type Sys struct {
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	Source    string `json:"source,omitempty"`
}

// Asset is a content-bearing unit referenced by graph nodes.
type Asset struct {
	ID    string
	Value Value
	Sys   Sys
}

// Text is free-form text content. Its value serializes as a bare JSON
// string.
type Text struct {
	Content string
	Meta    *TextMeta
}

// TextMeta is display metadata derived from the text content.
type TextMeta struct {
	Preview string `json:"preview,omitempty"`
	Length  int    `json:"length,omitempty"`
}

// NewText builds a text value with derived metadata.
func NewText(content string) Text {
	return Text{Content: content, Meta: DeriveTextMeta(content)}
}

// DeriveTextMeta recomputes a text value's metadata from its content.
func DeriveTextMeta(content string) *TextMeta {
	const previewRunes = 100
	preview := content
	if utf8.RuneCountInString(preview) > previewRunes {
		preview = string([]rune(preview)[:previewRunes])
	}
	return &TextMeta{Preview: preview, Length: utf8.RuneCountInString(content)}
}

func (t Text) Type() ValueType { return ValueText }
func (t Text) Payload() any    { return t.Content }
func (t Text) meta() any {
	if t.Meta == nil {
		return nil
	}
	return t.Meta
}
func (t Text) config() any { return nil }

// Image references a media file inside the project's assets directory.
type Image struct {
	Src  string
	Meta *ImageMeta
}

type imagePayload struct {
	Src string `json:"src"`
}

// ImageMeta is derived from the referenced file, never authoritative.
type ImageMeta struct {
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

func (i Image) Type() ValueType { return ValueImage }
func (i Image) Payload() any    { return imagePayload{Src: i.Src} }
func (i Image) meta() any {
	if i.Meta == nil {
		return nil
	}
	return i.Meta
}
func (i Image) config() any { return nil }

// Record is structured key/value content, optionally constrained by a
// schema carried in its config.
type Record struct {
	Fields map[string]any
	Schema json.RawMessage
}

type schemaConfig struct {
	Schema json.RawMessage `json:"schema"`
}

func (r Record) Type() ValueType { return ValueRecord }
func (r Record) Payload() any    { return r.Fields }
func (r Record) meta() any       { return nil }
func (r Record) config() any {
	if len(r.Schema) == 0 {
		return nil
	}
	return schemaConfig{Schema: r.Schema}
}

// Array is ordered structured content, optionally schema-constrained.
type Array struct {
	Items  []any
	Schema json.RawMessage
}

func (a Array) Type() ValueType { return ValueArray }
func (a Array) Payload() any {
	if a.Items == nil {
		return []any{}
	}
	return a.Items
}
func (a Array) meta() any { return nil }
func (a Array) config() any {
	if len(a.Schema) == 0 {
		return nil
	}
	return schemaConfig{Schema: a.Schema}
}

// EncodeValue serializes a value's three facets. Meta and config are nil
// when the variant has none.
func EncodeValue(v Value) (payload, meta, config []byte, err error) {
	payload, err = json.Marshal(v.Payload())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshaling %s value: %w", v.Type(), err)
	}

	if m := v.meta(); m != nil {
		meta, err = json.Marshal(m)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshaling %s value meta: %w", v.Type(), err)
		}
	}

	if c := v.config(); c != nil {
		config, err = json.Marshal(c)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshaling %s value config: %w", v.Type(), err)
		}
	}

	return payload, meta, config, nil
}

// DecodeValue reassembles a Value from its serialized facets.
func DecodeValue(t ValueType, payload, meta, config []byte) (Value, error) {
	switch t {
	case ValueText:
		v := Text{}
		if err := json.Unmarshal(payload, &v.Content); err != nil {
			return nil, fmt.Errorf("parsing text value: %w", err)
		}
		if len(meta) > 0 {
			v.Meta = &TextMeta{}
			if err := json.Unmarshal(meta, v.Meta); err != nil {
				return nil, fmt.Errorf("parsing text value meta: %w", err)
			}
		}
		return v, nil

	case ValueImage:
		var p imagePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("parsing image value: %w", err)
		}
		v := Image{Src: p.Src}
		if len(meta) > 0 {
			v.Meta = &ImageMeta{}
			if err := json.Unmarshal(meta, v.Meta); err != nil {
				return nil, fmt.Errorf("parsing image value meta: %w", err)
			}
		}
		return v, nil

	case ValueRecord:
		v := Record{}
		if err := json.Unmarshal(payload, &v.Fields); err != nil {
			return nil, fmt.Errorf("parsing record value: %w", err)
		}
		if len(config) > 0 {
			var c schemaConfig
			if err := json.Unmarshal(config, &c); err != nil {
				return nil, fmt.Errorf("parsing record config: %w", err)
			}
			v.Schema = c.Schema
		}
		return v, nil

	case ValueArray:
		v := Array{}
		if err := json.Unmarshal(payload, &v.Items); err != nil {
			return nil, fmt.Errorf("parsing array value: %w", err)
		}
		if len(config) > 0 {
			var c schemaConfig
			if err := json.Unmarshal(config, &c); err != nil {
				return nil, fmt.Errorf("parsing array config: %w", err)
			}
			v.Schema = c.Schema
		}
		return v, nil
	}

	return nil, fmt.Errorf("unknown value type %q", t)
}

type assetJSON struct {
	ID        string          `json:"id"`
	ValueType ValueType       `json:"value_type"`
	Value     json.RawMessage `json:"value"`
	ValueMeta json.RawMessage `json:"value_meta,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
	Sys       Sys             `json:"sys"`
}

func (a Asset) MarshalJSON() ([]byte, error) {
	if a.Value == nil {
		return nil, fmt.Errorf("asset %s has no value", a.ID)
	}

	payload, meta, config, err := EncodeValue(a.Value)
	if err != nil {
		return nil, err
	}

	return json.Marshal(assetJSON{
		ID:        a.ID,
		ValueType: a.Value.Type(),
		Value:     payload,
		ValueMeta: meta,
		Config:    config,
		Sys:       a.Sys,
	})
}

func (a *Asset) UnmarshalJSON(b []byte) error {
	var raw assetJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("parsing asset: %w", err)
	}

	value, err := DecodeValue(raw.ValueType, raw.Value, raw.ValueMeta, raw.Config)
	if err != nil {
		return fmt.Errorf("asset %s: %w", raw.ID, err)
	}

	a.ID = raw.ID
	a.Value = value
	a.Sys = raw.Sys
	return nil
}
