// Package openai models the OpenAI-compatible wire format shared by every
// namespace the gateway exposes. Types here are permissive by design: known
// fields are typed, everything else is collected into an Extra sidecar map.
// ContentPart writes its Extra back out when marshaled; the request types'
// Extra maps are not serialized. Grounded on the teacher's
// internal/provider/openai request/response structs, generalized from a
// single upstream's shape into a provider-agnostic one.
package openai

import "encoding/json"

// ContentPart is one element of a multi-part message content list, e.g.
// {"type": "text", "text": "..."} or {"type": "image_url", "image_url": {...}}.
// Only the discriminant and the fields this gateway understands are typed;
// everything else is preserved in Extra.
type ContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL json.RawMessage `json:"image_url,omitempty"`
	Extra    map[string]any  `json:"-"`
}

func (p ContentPart) MarshalJSON() ([]byte, error) {
	merged := map[string]any{}
	for k, v := range p.Extra {
		merged[k] = v
	}
	merged["type"] = p.Type
	if p.Text != "" {
		merged["text"] = p.Text
	}
	if len(p.ImageURL) > 0 {
		merged["image_url"] = json.RawMessage(p.ImageURL)
	}
	return json.Marshal(merged)
}

func (p *ContentPart) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["type"]; ok {
		_ = json.Unmarshal(v, &p.Type)
		delete(raw, "type")
	}
	if v, ok := raw["text"]; ok {
		_ = json.Unmarshal(v, &p.Text)
		delete(raw, "text")
	}
	if v, ok := raw["image_url"]; ok {
		p.ImageURL = v
		delete(raw, "image_url")
	}

	if len(raw) > 0 {
		p.Extra = make(map[string]any, len(raw))
		for k, v := range raw {
			var val any
			_ = json.Unmarshal(v, &val)
			p.Extra[k] = val
		}
	}
	return nil
}

// Content is the union OpenAI's wire format allows for a message's
// "content" field: either a plain string, or a list of typed parts. Both
// forms are preserved end-to-end — a string in, a string out; a list in, a
// list out — rather than collapsing everything to a string at the door.
type Content struct {
	str   string
	parts []ContentPart
	isStr bool
	isSet bool
}

// NewStringContent builds a Content holding plain text.
func NewStringContent(s string) Content {
	return Content{str: s, isStr: true, isSet: true}
}

// NewPartsContent builds a Content holding a list of typed parts.
func NewPartsContent(parts []ContentPart) Content {
	return Content{parts: parts, isStr: false, isSet: true}
}

// IsSet reports whether content was present on the wire at all (distinct
// from an empty string, which is valid content).
func (c Content) IsSet() bool { return c.isSet }

// IsString reports whether the content arrived as a plain string.
func (c Content) IsString() bool { return c.isSet && c.isStr }

// String returns the flattened text of the content: the string itself when
// IsString, or the concatenation of every part's Text field otherwise. Used
// when projecting content to an upstream that only accepts a string (the
// local-runner and custom providers).
func (c Content) String() string {
	if !c.isSet {
		return ""
	}
	if c.isStr {
		return c.str
	}
	var out string
	for _, p := range c.parts {
		if p.Type == "text" || p.Type == "" {
			out += p.Text
		}
	}
	return out
}

// Parts returns the typed parts, or nil when content arrived as a string.
func (c Content) Parts() []ContentPart { return c.parts }

func (c Content) MarshalJSON() ([]byte, error) {
	if !c.isSet {
		return []byte("null"), nil
	}
	if c.isStr {
		return json.Marshal(c.str)
	}
	return json.Marshal(c.parts)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Content{}
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*c = NewStringContent(asString)
		return nil
	}

	var asParts []ContentPart
	if err := json.Unmarshal(data, &asParts); err != nil {
		return err
	}
	*c = NewPartsContent(asParts)
	return nil
}
