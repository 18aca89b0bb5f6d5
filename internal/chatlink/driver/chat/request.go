package chat

import (
	"fmt"
	"strings"

	"github.com/modelink/modelink/internal/chatlink/content"
	"github.com/modelink/modelink/internal/chatlink/driver"
	"github.com/modelink/modelink/internal/chatlink/encode"
	"github.com/modelink/modelink/internal/chatlink/profile"
)

// chatCompletionRequest is the openai dialect: POST {base}/chat/completions.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

// chatMessage content is either a plain string or a list of typed blocks.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageBlock struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

type fileBlock struct {
	Type string   `json:"type"`
	File fileData `json:"file"`
}

type fileData struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

// agentConversationRequest is the assist dialect: an agent conversation
// endpoint addressed via recipients, text content only.
type agentConversationRequest struct {
	Recipients []agentRecipient `json:"recipients"`
	Messages   []agentMessage   `json:"messages"`
}

type agentRecipient struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type agentMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// buildWireRequest renders the provider-agnostic request into the profile's
// wire dialect. Payload construction upstream is pure, so identical inputs
// always produce an identical body.
func buildWireRequest(prof profile.Profile, req *driver.Request) (any, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages are required")
	}

	switch prof.Dialect {
	case profile.DialectAssist:
		return buildAgentRequest(prof, req)
	default:
		return buildChatRequest(prof, req)
	}
}

func buildChatRequest(prof profile.Profile, req *driver.Request) (*chatCompletionRequest, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}

	messages := make([]chatMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		value, err := convertBlocks(msg.Blocks)
		if err != nil {
			return nil, err
		}
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: value})
	}

	payload := &chatCompletionRequest{Model: req.Model, Messages: messages}
	if prof.Temperature > 0 {
		t := prof.Temperature
		payload.Temperature = &t
	}
	if prof.MaxTokens > 0 {
		n := prof.MaxTokens
		payload.MaxTokens = &n
	}
	return payload, nil
}

// convertBlocks keeps single text blocks as a bare string (the common case)
// and renders multimodal content as a typed block array.
func convertBlocks(blocks []content.Block) (any, error) {
	if len(blocks) == 0 {
		return "", nil
	}
	if len(blocks) == 1 && blocks[0].Type == content.BlockText {
		return blocks[0].Text, nil
	}

	converted := make([]any, 0, len(blocks))
	for _, block := range blocks {
		switch block.Type {
		case content.BlockText:
			converted = append(converted, textBlock{Type: "text", Text: block.Text})
		case content.BlockImage:
			converted = append(converted, imageBlock{
				Type:     "image_url",
				ImageURL: imageURL{URL: encode.DataURI(block.MimeType, block.Data)},
			})
		case content.BlockDocument:
			converted = append(converted, fileBlock{
				Type: "file",
				File: fileData{
					Filename: block.FileName,
					FileData: encode.DataURI(block.MimeType, block.Data),
				},
			})
		default:
			return nil, fmt.Errorf("unsupported content block type: %s", block.Type)
		}
	}
	return converted, nil
}

func buildAgentRequest(prof profile.Profile, req *driver.Request) (*agentConversationRequest, error) {
	messages := make([]agentMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		text, err := flattenText(msg.Blocks)
		if err != nil {
			return nil, err
		}
		messages = append(messages, agentMessage{Role: string(msg.Role), Content: text})
	}

	return &agentConversationRequest{
		Recipients: []agentRecipient{{Type: "agent", ID: prof.AgentID}},
		Messages:   messages,
	}, nil
}

// flattenText concatenates text blocks; the assist dialect carries no native
// binary blocks, and profiles without multimodal support never produce them.
func flattenText(blocks []content.Block) (string, error) {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Type != content.BlockText {
			return "", fmt.Errorf("unsupported content block type for agent dialect: %s", block.Type)
		}
		parts = append(parts, block.Text)
	}
	return strings.Join(parts, "\n"), nil
}
