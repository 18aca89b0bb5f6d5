// Package content defines the canonical, provider-agnostic conversation
// model. History turns are text-only and append-only so a transcript built
// against one backend can be replayed against any other, including backends
// with no multimodal support.
package content

import (
	"fmt"
	"strings"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single canonical conversation turn. Turns are never edited after
// creation; history grows by appending only.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is a caller-owned, immutable-append transcript. Operations return
// new slices and never mutate the receiver's backing array in place.
type History []Turn

// Append returns a new history with the given turns added. The input history
// is left untouched; callers sharing a conversation across concurrent
// requests must still serialize their own writes.
func (h History) Append(turns ...Turn) History {
	out := make(History, 0, len(h)+len(turns))
	out = append(out, h...)
	out = append(out, turns...)
	return out
}

// Clone returns an independent copy of the history.
func (h History) Clone() History {
	return h.Append()
}

// BlockType identifies the kind of a provider content block.
type BlockType string

const (
	BlockText     BlockType = "text"
	BlockImage    BlockType = "image"
	BlockDocument BlockType = "document"
)

// Block is a single provider-bound content unit. Text blocks carry Text;
// image and document blocks carry the original bytes plus mime type and are
// rendered to the provider's native wire shape by the driver. Blocks never
// enter canonical history.
type Block struct {
	Type     BlockType `json:"type"`
	Text     string    `json:"text,omitempty"`
	MimeType string    `json:"mime_type,omitempty"`
	FileName string    `json:"file_name,omitempty"`
	Data     []byte    `json:"data,omitempty"`
}

// Message is a provider-bound chat message: canonical role plus one or more
// content blocks.
type Message struct {
	Role   Role    `json:"role"`
	Blocks []Block `json:"blocks"`
}

// TextMessage builds a single-block text message.
func TextMessage(role Role, text string) Message {
	return Message{Role: role, Blocks: []Block{{Type: BlockText, Text: text}}}
}

// Messages converts a canonical history into provider-bound text messages.
func (h History) Messages() []Message {
	msgs := make([]Message, 0, len(h))
	for _, turn := range h {
		msgs = append(msgs, TextMessage(turn.Role, turn.Content))
	}
	return msgs
}

// Attachment is a user-submitted file handed to the payload builder. The
// bytes never reach canonical history; only a FileSummary does.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// FileSummary renders the canonical text stand-in for an attachment. History
// stores this summary instead of raw bytes so it stays serializable.
// Dimensions is optional ("1024x768") and only set for decodable images.
func FileSummary(name, mimeType string, byteLen int, dimensions string) string {
	var b strings.Builder
	b.WriteString("[Uploaded file: ")
	b.WriteString(name)
	b.WriteString(" (")
	b.WriteString(mimeType)
	if dimensions != "" {
		b.WriteString(", ")
		b.WriteString(dimensions)
	}
	fmt.Fprintf(&b, ", %d bytes)]", byteLen)
	return b.String()
}
