// Package transcript decodes, groups, and renders read-only chat transcripts.
// The input is a base64-encoded JSON array of messages carried entirely in a
// URL query parameter; nothing here touches storage or shares state, so every
// function is safe to call from concurrent render requests.
package transcript

import "encoding/json"

// User types with dedicated styling in the rendered transcript. Any other
// value renders with the default member accent.
const (
	UserTypeSystem  = "System"
	UserTypeSupport = "Support"
)

// Message is one chat message supplied by the client. It exists only for the
// duration of a render and is never persisted. Absent optional fields decode
// as empty.
type Message struct {
	Timestamp   string            `json:"timestamp"`
	UserType    string            `json:"userType"`
	Author      string            `json:"author"`
	Content     string            `json:"content"`
	Attachments []json.RawMessage `json:"attachments"`
	Embeds      []Embed           `json:"embeds"`
}

// Embed is a structured, styled content block attached to a message.
type Embed struct {
	Type   string       `json:"type"`
	Title  string       `json:"title,omitempty"`
	Color  *int         `json:"color,omitempty"` // RGB; nil means default accent
	Fields []EmbedField `json:"fields,omitempty"`
	Footer *EmbedFooter `json:"footer,omitempty"`
}

// EmbedField is a titled name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// EmbedFooter is the trailing text line of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}
