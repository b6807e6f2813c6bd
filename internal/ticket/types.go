package ticket

import "time"

// Ticket is the persisted record of one processed support query: the original
// text, the decided action, the generated content, and any later human
// feedback. Created exactly once per processed ticket; only HumanLabel is
// ever updated afterwards.
type Ticket struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	Action     string    `json:"action"`
	Reply      *string   `json:"reply"`
	Tags       []string  `json:"tags"`
	Reason     *string   `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	HumanLabel *string   `json:"human_label"`
}

// CreateParams are the caller-supplied fields for a new ticket.
// ID and CreatedAt are assigned by the store.
//
// Tags distinguishes nil (no tag set, persisted as NULL) from an empty slice
// (an explicit empty set, persisted as the empty string). The distinction
// survives a round-trip through the store.
type CreateParams struct {
	Text       string
	Action     string
	Reply      *string
	Tags       []string
	Reason     *string
	HumanLabel *string
}
