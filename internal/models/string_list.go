package models

import (
	"encoding/json"
	"fmt"
)

// StringList accepts either a JSON array of strings or a single string.
// Models are inconsistent about which of the two they emit for list fields.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("expected string or array of strings, got %s", string(data))
	}
	if single == "" {
		*s = nil
		return nil
	}
	*s = StringList{single}
	return nil
}
