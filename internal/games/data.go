package games

import "encoding/json"

// DecodeData round-trips the opaque gameState.data map into a game's typed
// state struct. The dispatcher never sees these types; only the owning game
// package interprets the shape.
func DecodeData(raw map[string]any, into any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, into)
}

// EncodeData converts a typed value into the map form the updateData verb
// carries. Handy when a payload sets a whole sub-document at once.
func EncodeData(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
