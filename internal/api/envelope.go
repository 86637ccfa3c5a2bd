package api

import "encoding/json"

// The backend is inconsistent about response envelopes: the same endpoint
// can answer {"data": {"data": ...}}, {"data": ...}, or a bare value
// depending on which middleware wrapped it. Unwrap peels up to two levels
// of {"data": ...} and hands back whatever is inside.
func Unwrap(body []byte) json.RawMessage {
	raw := json.RawMessage(body)
	for i := 0; i < 2; i++ {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return raw
		}
		if len(envelope.Data) == 0 {
			return raw
		}
		raw = envelope.Data
	}
	return raw
}

// decodeList splits an unwrapped JSON array into its raw elements so each
// record's original payload can be retained on the unified item.
func decodeList(body []byte) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(Unwrap(body), &list); err != nil {
		return nil, err
	}
	return list, nil
}
