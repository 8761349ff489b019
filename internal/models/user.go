package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// User represents one record of the remote users resource
type User struct {
	ID    UserID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserID is the record identifier. The API may send it as a string or a number.
type UserID string

// UnmarshalJSON accepts a JSON string, a JSON number or null
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or a number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

func (id UserID) String() string {
	return string(id)
}

// UserPayload is the body sent on create and update.
// A nil field is left out of the JSON body, a pointer to "" is sent as "".
type UserPayload struct {
	ID    *string `json:"id,omitempty"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// Empty reports whether no field is set
func (p UserPayload) Empty() bool {
	return p.ID == nil && p.Name == nil && p.Email == nil && p.Role == nil
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
