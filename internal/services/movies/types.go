package movies

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ----- API response types -----

type Movie struct {
	Id        string    `json:"_id"`
	Name      string    `json:"name"`
	Time      []string  `json:"time"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ----- API request types -----

type MovieRequest struct {
	Name   *string         `json:"name"`
	Time   FlexibleStrings `json:"time"`
	Rating *FlexibleNumber `json:"rating"`
}

// FlexibleNumber accepts a JSON number or a string holding one, as sent by
// urlencoded forms.
type FlexibleNumber struct {
	Value float64
}

func (n *FlexibleNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = v
	default:
		return fmt.Errorf("rating must be a number")
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("rating must be a number, got %q", text)
	}
	n.Value = value
	return nil
}

// FlexibleStrings accepts an array of strings or numbers, or a single value
// which becomes a one element list.
type FlexibleStrings []string

func (s *FlexibleStrings) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*s = nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, err := castString(item)
			if err != nil {
				return err
			}
			out = append(out, str)
		}
		*s = out
	default:
		str, err := castString(v)
		if err != nil {
			return err
		}
		*s = []string{str}
	}
	return nil
}

func castString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", fmt.Errorf("time entries must be strings")
}
