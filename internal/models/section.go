package models

import (
	"encoding/json"
	"fmt"
)

// Section is one analyzer's slot in a report: either a result or an error stub.
type Section[T any] struct {
	Result *T
	Error  string
}

// Succeeded wraps a result into a populated section
func Succeeded[T any](result *T) *Section[T] {
	return &Section[T]{Result: result}
}

// FailedSection returns the error stub recorded when an analyzer fails
func FailedSection[T any](analyzer string) *Section[T] {
	return &Section[T]{Error: fmt.Sprintf("%s analysis failed", analyzer)}
}

// OK reports whether the section holds a result
func (s *Section[T]) OK() bool {
	return s != nil && s.Error == "" && s.Result != nil
}

// MarshalJSON emits the result itself, or {"error": "..."} for failed sections
func (s Section[T]) MarshalJSON() ([]byte, error) {
	if s.Error != "" || s.Result == nil {
		msg := s.Error
		if msg == "" {
			msg = "analysis unavailable"
		}
		return json.Marshal(map[string]string{"error": msg})
	}
	return json.Marshal(s.Result)
}

// UnmarshalJSON accepts either form produced by MarshalJSON
func (s *Section[T]) UnmarshalJSON(data []byte) error {
	var stub struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &stub); err == nil && stub.Error != "" {
		s.Error = stub.Error
		s.Result = nil
		return nil
	}
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}
	s.Result = &result
	s.Error = ""
	return nil
}
