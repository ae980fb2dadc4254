package geocache

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Memento is the serialized form of a cache's coin sequence. It never
// carries the cell; that is supplied when decoding.
type Memento string

// Codec turns coin sequences into mementos and back. Decode(Encode(c))
// yields c element for element, in order.
type Codec interface {
	Name() string
	Encode(coins []Coin) (Memento, error)
	Decode(m Memento) ([]Coin, error)
}

// Codec names.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

const msgpackPrefix = "msgpack:"

var (
	// JSON encodes coins as a JSON array of {"i","j","serial"} objects.
	JSON Codec = jsonCodec{}

	// Msgpack encodes coins as base64 msgpack behind a "msgpack:" tag.
	Msgpack Codec = msgpackCodec{}
)

// CorruptMementoError reports a memento that could not be decoded.
type CorruptMementoError struct {
	Codec string
	Err   error
}

func (e *CorruptMementoError) Error() string {
	return fmt.Sprintf("geocache: corrupt %s memento: %v", e.Codec, e.Err)
}

func (e *CorruptMementoError) Unwrap() error {
	return e.Err
}

// CodecByName resolves a codec from its configured name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case CodecJSON, "":
		return JSON, nil
	case CodecMsgpack:
		return Msgpack, nil
	default:
		return nil, fmt.Errorf("geocache: unknown memento codec %q", name)
	}
}

// DecodeMemento decodes m with whichever codec produced it.
func DecodeMemento(m Memento) ([]Coin, error) {
	if strings.HasPrefix(string(m), msgpackPrefix) {
		return Msgpack.Decode(m)
	}
	return JSON.Decode(m)
}

// wireCoin rejects coins with missing fields.
type wireCoin struct {
	HomeI  *int `json:"i" msgpack:"i"`
	HomeJ  *int `json:"j" msgpack:"j"`
	Serial *int `json:"serial" msgpack:"serial"`
}

func fromWire(codec string, wire []wireCoin) ([]Coin, error) {
	if wire == nil {
		return nil, &CorruptMementoError{Codec: codec, Err: errors.New("not a coin sequence")}
	}

	coins := make([]Coin, len(wire))
	for idx, w := range wire {
		if w.HomeI == nil || w.HomeJ == nil || w.Serial == nil {
			return nil, &CorruptMementoError{Codec: codec, Err: fmt.Errorf("coin %d is missing fields", idx)}
		}
		coins[idx] = Coin{HomeI: *w.HomeI, HomeJ: *w.HomeJ, Serial: *w.Serial}
	}
	return coins, nil
}

func nonNil(coins []Coin) []Coin {
	if coins == nil {
		return []Coin{}
	}
	return coins
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecJSON }

func (jsonCodec) Encode(coins []Coin) (Memento, error) {
	data, err := json.Marshal(nonNil(coins))
	if err != nil {
		return "", fmt.Errorf("geocache: encode json memento: %w", err)
	}
	return Memento(data), nil
}

func (jsonCodec) Decode(m Memento) ([]Coin, error) {
	dec := json.NewDecoder(strings.NewReader(string(m)))
	dec.DisallowUnknownFields()

	var wire []wireCoin
	if err := dec.Decode(&wire); err != nil {
		return nil, &CorruptMementoError{Codec: CodecJSON, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &CorruptMementoError{Codec: CodecJSON, Err: errors.New("trailing data")}
	}

	return fromWire(CodecJSON, wire)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return CodecMsgpack }

func (msgpackCodec) Encode(coins []Coin) (Memento, error) {
	data, err := msgpack.Marshal(nonNil(coins))
	if err != nil {
		return "", fmt.Errorf("geocache: encode msgpack memento: %w", err)
	}
	return Memento(msgpackPrefix + base64.StdEncoding.EncodeToString(data)), nil
}

func (msgpackCodec) Decode(m Memento) ([]Coin, error) {
	payload, ok := strings.CutPrefix(string(m), msgpackPrefix)
	if !ok {
		return nil, &CorruptMementoError{Codec: CodecMsgpack, Err: errors.New("missing msgpack tag")}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &CorruptMementoError{Codec: CodecMsgpack, Err: err}
	}

	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.DisallowUnknownFields(true)

	var wire []wireCoin
	if err := dec.Decode(&wire); err != nil {
		return nil, &CorruptMementoError{Codec: CodecMsgpack, Err: err}
	}
	if r.Len() != 0 {
		return nil, &CorruptMementoError{Codec: CodecMsgpack, Err: errors.New("trailing data")}
	}

	return fromWire(CodecMsgpack, wire)
}
