package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Category only drives styling of a notice.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
	CategoryWarning Category = "warning"
	CategoryInfo    Category = "info"
)

// Notice is a categorised message shown above the staging list.
type Notice struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

func (n Notice) String() string {
	return fmt.Sprintf("%s: %s", n.Category, n.Text)
}

// UnmarshalJSON accepts both the tuple form ["error", "text"] and the object
// form {"category": "error", "text": "text"}.
func (n *Notice) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err == nil {
		if len(pair) != 2 {
			return errors.New("notice tuple must have exactly two items")
		}
		n.Category = Category(pair[0])
		n.Text = pair[1]
		return nil
	}

	type plain Notice
	var obj plain
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("notice: %w", err)
	}
	*n = Notice(obj)
	return nil
}

// FileOutcome is the server verdict for one uploaded file.
type FileOutcome struct {
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
}

// Result is a decoded server response.
//
// Outcomes is nil when the server did not report per-file results; Success
// then applies to every submitted entry. Reload is set by the legacy HTML
// decoder when the page carried no notices block.
type Result struct {
	Success  bool          `json:"success"`
	Outcomes []FileOutcome `json:"results"`
	Notices  []Notice      `json:"messages"`
	Reload   bool          `json:"-"`
}
