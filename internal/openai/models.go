package openai

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/tidwall/gjson"
)

var knownEmbeddingsRequestFields = map[string]struct{}{
	"model":           {},
	"input":           {},
	"user":            {},
	"dimensions":      {},
	"encoding_format": {},
}

// ParseEmbeddingsRequest decodes body into an EmbeddingsRequest the same way
// ParseChatCompletionRequest does: known fields typed, everything else
// preserved in Extra.
func ParseEmbeddingsRequest(body []byte) (*EmbeddingsRequest, error) {
	var req EmbeddingsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	extra := map[string]any{}
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, known := knownEmbeddingsRequestFields[k]; known {
			return true
		}
		extra[k] = value.Value()
		return true
	})
	if len(extra) > 0 {
		req.Extra = extra
	}

	return &req, nil
}

// Model describes one entry in a GET .../models listing. Permission is
// always an empty slice and Root/Parent default to the model's own id when a
// provider doesn't supply richer values — this gateway never implements
// OpenAI's permission/fine-tune lineage system, it just shapes the response
// to satisfy clients that expect the fields to be present.
type Model struct {
	ID         string       `json:"id"`
	Object     string       `json:"object"`
	Created    int64        `json:"created"`
	OwnedBy    string       `json:"owned_by"`
	Permission []Permission `json:"permission"`
	Root       string       `json:"root"`
	Parent     string       `json:"parent"`
}

// Permission is always an empty array in practice; typed here so the field
// serializes as "[]" rather than "null".
type Permission struct{}

// NewModel fills Root/Parent/Permission with the defaults every provider in
// this gateway uses.
func NewModel(id string, created int64, ownedBy string) Model {
	return Model{
		ID:         id,
		Object:     "model",
		Created:    created,
		OwnedBy:    ownedBy,
		Permission: []Permission{},
		Root:       id,
		Parent:     id,
	}
}

// ModelList is the body of a GET .../models response.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// EmbeddingsRequest is the body of a POST .../embeddings call. Input may be
// a single string or a list of strings on the wire; StringOrSlice models
// that the same way ChatCompletionRequest.Stop does. Dimensions and
// EncodingFormat are honored to the extent a given provider can: the custom
// provider's vectors are synthetic so it truncates/pads to match Dimensions
// exactly, while the local-runner and cloud providers return whatever length
// their upstream produces. EncodingFormat ("float", the default, or
// "base64") is honored uniformly by every provider since it's purely a
// response-rendering concern, not something the upstream model controls.
type EmbeddingsRequest struct {
	Model          string         `json:"model"`
	Input          StringOrSlice  `json:"input"`
	User           string         `json:"user,omitempty"`
	Dimensions     *int           `json:"dimensions,omitempty"`
	EncodingFormat string         `json:"encoding_format,omitempty"`
	Extra          map[string]any `json:"-"`
}

// Embedding is one entry in an embeddings response's "data" array.
type Embedding struct {
	Object    string         `json:"object"`
	Index     int            `json:"index"`
	Embedding EmbeddingValue `json:"embedding"`
}

// EmbeddingValue renders one embedding vector as either a JSON array of
// floats or a base64-encoded buffer of little-endian float32s, matching
// OpenAI's encoding_format:"float"|"base64" request parameter.
type EmbeddingValue struct {
	floats []float64
	b64    string
	isB64  bool
}

// NewEmbeddingValue renders vec according to format ("base64" or anything
// else, which defaults to the float array form).
func NewEmbeddingValue(vec []float64, format string) EmbeddingValue {
	if format != "base64" {
		return EmbeddingValue{floats: vec}
	}

	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(f)))
	}
	return EmbeddingValue{b64: base64.StdEncoding.EncodeToString(buf), isB64: true}
}

func (v EmbeddingValue) MarshalJSON() ([]byte, error) {
	if v.isB64 {
		return json.Marshal(v.b64)
	}
	if v.floats == nil {
		return json.Marshal([]float64{})
	}
	return json.Marshal(v.floats)
}

// EmbeddingsResponse is the body of a POST .../embeddings response.
type EmbeddingsResponse struct {
	Object string      `json:"object"`
	Model  string      `json:"model"`
	Data   []Embedding `json:"data"`
	Usage  *Usage      `json:"usage,omitempty"`
}
