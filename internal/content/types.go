package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Scalar is a JSON value the CMS may write as a string, number or boolean
// ("stats": [{"number": 500}] and {"number": "500+"} both occur).
type Scalar string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("content: expected a scalar, got %q", data[:1])
	}
	*s = Scalar(data)
	return nil
}

func (s Scalar) String() string { return strings.TrimSpace(string(s)) }

// Homepage is /_data/homepage.json.
type Homepage struct {
	Hero  *Hero  `json:"hero,omitempty"`
	Stats []Stat `json:"stats,omitempty"`
}

// Hero is the homepage headline block.
type Hero struct {
	Title    Scalar `json:"title"`
	Subtitle Scalar `json:"subtitle"`
}

// Stat is one figure in the homepage stats grid.
type Stat struct {
	Number Scalar `json:"number"`
	Label  Scalar `json:"label"`
}

// Contact is /_data/contact.json.
type Contact struct {
	Email    Scalar `json:"email"`
	Phone    Scalar `json:"phone"`
	Address  Scalar `json:"address,omitempty"`
	WhatsApp Scalar `json:"whatsapp,omitempty"`
}
