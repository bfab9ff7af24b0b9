// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model: chat messages, search
// results, search strategies, and stage configuration.
package types

import "encoding/json"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImageRef is a self-describing inline image reference carried inside a
// user message. URL is a data: URL (MIME type + base64 bytes) or a plain
// https URL for providers that fetch images themselves.
type ImageRef struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// ContentPart is one piece of a multi-part user message. Type is "text"
// or "image_url" following the OpenAI-compatible chat wire format.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageRef `json:"image_url,omitempty"`
}

// Message is a single chat turn. Immutable once appended to a history.
// A message body is either plain Text or, for vision requests, a list of
// Parts (text plus one entry per image).
type Message struct {
	Role  Role
	Text  string
	Parts []ContentPart
}

// wireMessage is the JSON shape for plain-text messages.
type wireMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// wirePartsMessage is the JSON shape for composite (text + images) messages.
type wirePartsMessage struct {
	Role    Role          `json:"role"`
	Content []ContentPart `json:"content"`
}

// MarshalJSON emits the content as a string for plain messages and as a
// part array for composite messages, matching the chat completion wire
// format.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.Parts) > 0 {
		return json.Marshal(wirePartsMessage{Role: m.Role, Content: m.Parts})
	}
	return json.Marshal(wireMessage{Role: m.Role, Content: m.Text})
}

// TextMessage builds a plain-text chat turn.
func TextMessage(role Role, text string) Message {
	return Message{Role: role, Text: text}
}

// CompositeMessage builds a user turn carrying text plus one image part
// per reference, each requested at high detail.
func CompositeMessage(role Role, text string, images []ImageRef) Message {
	parts := make([]ContentPart, 0, len(images)+1)
	parts = append(parts, ContentPart{Type: "text", Text: text})
	for i := range images {
		img := images[i]
		if img.Detail == "" {
			img.Detail = "high"
		}
		parts = append(parts, ContentPart{Type: "image_url", ImageURL: &img})
	}
	return Message{Role: role, Parts: parts}
}
