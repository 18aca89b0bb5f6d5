// Package payload builds the provider-bound request content for a user
// message with an attachment. Build is a pure function of its inputs: it
// never performs I/O, never errors, and on degraded paths (unsupported
// modality, oversized binary) it returns limitation text as payload content
// so the interaction stays conversational.
package payload

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/modelink/modelink/internal/chatlink/classify"
	"github.com/modelink/modelink/internal/chatlink/content"
	"github.com/modelink/modelink/internal/chatlink/encode"
	"github.com/modelink/modelink/internal/chatlink/imaging"
	"github.com/modelink/modelink/internal/chatlink/profile"
)

// Built is the outcome of payload construction.
type Built struct {
	// Blocks is the provider-bound content for the user message. Always
	// non-empty; degraded paths carry limitation text instead of bytes.
	Blocks []content.Block
	// Summary is the canonical text stand-in stored in history in place of
	// the attachment bytes.
	Summary string
	// Degraded is set when the attachment could not be sent natively and
	// limitation/refusal text was substituted.
	Degraded bool
	// Reason names the degraded path ("unsupported_modality",
	// "size_limit_exceeded") and is empty otherwise.
	Reason string
}

const (
	ReasonUnsupportedModality = "unsupported_modality"
	ReasonSizeLimitExceeded   = "size_limit_exceeded"
)

// Build constructs the provider payload for a message with an attachment
// under the given profile and resolved model.
func Build(message string, att content.Attachment, modality classify.Modality, prof profile.Profile, model string) Built {
	dims := ""
	if modality == classify.ModalityImage {
		dims = imaging.Dimensions(att.Data)
	}
	summary := content.FileSummary(att.Name, att.MimeType, len(att.Data), dims)

	switch modality {
	case classify.ModalityText:
		return buildText(message, att, prof, summary)
	case classify.ModalityImage:
		return buildImage(message, att, prof, model, summary)
	case classify.ModalityDocument:
		return buildDocument(message, att, prof, model, summary)
	default:
		return buildOpaque(message, att, prof, summary)
	}
}

func buildText(message string, att content.Attachment, prof profile.Profile, summary string) Built {
	text := truncate(decodeText(att.Data), prof.MaxTextChars)
	prompt := fmt.Sprintf("%s\n\n--- FILE: %s ---\n```\n%s\n```", message, att.Name, text)
	return Built{
		Blocks:  []content.Block{{Type: content.BlockText, Text: prompt}},
		Summary: summary,
	}
}

func buildImage(message string, att content.Attachment, prof profile.Profile, model string, summary string) Built {
	if !prof.VisionCapable(model) {
		text := fmt.Sprintf(
			"%s\n\n[Note: File '%s' (%s) was uploaded, but model '%s' cannot process images. "+
				"Please describe the image or share its content as text instead.]",
			message, att.Name, att.MimeType, model)
		return Built{
			Blocks:   []content.Block{{Type: content.BlockText, Text: strings.TrimSpace(text)}},
			Summary:  summary,
			Degraded: true,
			Reason:   ReasonUnsupportedModality,
		}
	}
	if !encode.FitsCeiling(att.Data, prof.MaxEncodedChars) {
		return sizeRefusal(message, att, summary)
	}

	instruction := message
	if strings.TrimSpace(instruction) == "" {
		instruction = fmt.Sprintf("Please analyse this image: %s", att.Name)
	}
	return Built{
		Blocks: []content.Block{
			{Type: content.BlockText, Text: instruction},
			{Type: content.BlockImage, MimeType: att.MimeType, FileName: att.Name, Data: att.Data},
		},
		Summary: summary,
	}
}

func buildDocument(message string, att content.Attachment, prof profile.Profile, model string, summary string) Built {
	if !prof.SupportsDocuments {
		text := fmt.Sprintf(
			"%s\n\n[Note: File '%s' (%s) was uploaded, but model '%s' cannot process documents. "+
				"Please share the document content as text instead.]",
			message, att.Name, att.MimeType, model)
		return Built{
			Blocks:   []content.Block{{Type: content.BlockText, Text: strings.TrimSpace(text)}},
			Summary:  summary,
			Degraded: true,
			Reason:   ReasonUnsupportedModality,
		}
	}
	if !encode.FitsCeiling(att.Data, prof.MaxEncodedChars) {
		return sizeRefusal(message, att, summary)
	}

	instruction := message
	if strings.TrimSpace(instruction) == "" {
		instruction = fmt.Sprintf("Please analyse this document: %s", att.Name)
	}
	return Built{
		Blocks: []content.Block{
			{Type: content.BlockText, Text: instruction},
			{Type: content.BlockDocument, MimeType: att.MimeType, FileName: att.Name, Data: att.Data},
		},
		Summary: summary,
	}
}

func buildOpaque(message string, att content.Attachment, prof profile.Profile, summary string) Built {
	if !encode.FitsCeiling(att.Data, prof.MaxEncodedChars) {
		return sizeRefusal(message, att, summary)
	}

	text := fmt.Sprintf(
		"%s\n\nThe user attached a file named '%s' (MIME type: %s).\nFile content (base64):\n%s",
		message, att.Name, att.MimeType, encode.ToBase64(att.Data))
	return Built{
		Blocks:  []content.Block{{Type: content.BlockText, Text: strings.TrimSpace(text)}},
		Summary: summary,
	}
}

func sizeRefusal(message string, att content.Attachment, summary string) Built {
	text := fmt.Sprintf(
		"%s\n\nThe file '%s' is too large to send (%d bytes). Please try a smaller file.",
		message, att.Name, len(att.Data))
	return Built{
		Blocks:   []content.Block{{Type: content.BlockText, Text: strings.TrimSpace(text)}},
		Summary:  summary,
		Degraded: true,
		Reason:   ReasonSizeLimitExceeded,
	}
}

// decodeText interprets attachment bytes as UTF-8; byte sequences that are
// not valid UTF-8 fall back to a Latin-1 interpretation so decoding never
// fails.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// truncate limits text to max characters, appending a marker that names the
// original length. A non-positive max disables truncation.
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) +
		fmt.Sprintf("\n\n[... truncated: file was %d characters, showing the first %d ...]", len(runes), max)
}
