package ws

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes outbound frames for one client. JSON goes out as text
// frames, msgpack as binary frames. Both use the json field names.
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	FrameType() int
}

type jsonCodec struct{}

func (jsonCodec) Encode(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) FrameType() int                       { return websocket.TextMessage }

type msgpackCodec struct{}

func (msgpackCodec) Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) FrameType() int { return websocket.BinaryMessage }

// codecFor picks the codec requested with ?enc=.
func codecFor(enc string) (Codec, error) {
	switch enc {
	case "", "json":
		return jsonCodec{}, nil
	case "msgpack":
		return msgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}

// decodeInbound parses a client message. Binary frames carry msgpack and are
// normalized to JSON so actions decode through one path.
func decodeInbound(frameType int, raw []byte) (WSMessage, error) {
	var msg WSMessage
	if frameType != websocket.BinaryMessage {
		err := json.Unmarshal(raw, &msg)
		return msg, err
	}

	var generic struct {
		Type string      `msgpack:"type"`
		Data interface{} `msgpack:"data"`
	}
	if err := msgpack.Unmarshal(raw, &generic); err != nil {
		return msg, err
	}
	msg.Type = generic.Type
	if generic.Data != nil {
		data, err := json.Marshal(generic.Data)
		if err != nil {
			return msg, err
		}
		msg.Data = data
	}
	return msg, nil
}
