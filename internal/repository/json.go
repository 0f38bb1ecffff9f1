package repository

import "encoding/json"

// String-list columns (ticket perks, booking seats) are stored as JSON
// text. NULL and empty both decode to an empty slice so callers never see
// a nil list.

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(s []byte) []string {
	if len(s) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(s, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
