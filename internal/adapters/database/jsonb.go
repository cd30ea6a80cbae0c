package database

import (
	"encoding/json"
)

// marshalJSONB encodes a sub-document for storage in a JSONB column. Nil
// slices are stored as empty arrays so reads never see SQL NULL.
func marshalJSONB(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}

// unmarshalJSONB decodes a JSONB column into the target, tolerating NULL and
// empty columns.
func unmarshalJSONB(data []byte, target interface{}) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, target)
}
