package chatlink

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/modelink/modelink/internal/chatlink/classify"
	"github.com/modelink/modelink/internal/chatlink/content"
	"github.com/modelink/modelink/internal/chatlink/driver"
	"github.com/modelink/modelink/internal/chatlink/payload"
)

// Result is the outcome of one Converse call.
type Result struct {
	Reply   string
	History content.History
	// Provider and Model record which backend produced the reply.
	Provider string
	Model    string
	// Degraded is set when the attachment was substituted with limitation
	// text before the call (unsupported modality or size ceiling).
	Degraded bool
}

// Converse runs one turn against the named provider: classify the
// attachment, build the payload, perform exactly one network call with the
// system prompt prepended, normalize the reply, and return a new history
// with the user and assistant turns appended.
//
// The input history is never mutated. On success the returned history is
// exactly two turns longer. On error the input history is returned unchanged
// so no mutation is observable to the caller. att may be nil.
func (r *Registry) Converse(ctx context.Context, providerID, message string, att *content.Attachment, history content.History) (*Result, error) {
	id := strings.TrimSpace(providerID)
	if id == "" {
		var err error
		if id, err = r.DefaultProvider(); err != nil {
			return nil, err
		}
	}

	adapter, prof, err := r.AdapterFor(id)
	if err != nil {
		return nil, err
	}

	selection := adapter.Selection(ctx)
	if selection.Reason == driver.SelectionCatalogFallback {
		// The preference list had no match; surface the arbitrary pick
		// instead of hiding it.
		r.log.Warn("model preference list had no catalog match",
			zap.String("provider", id),
			zap.String("model", selection.Model))
	}

	userBlocks := []content.Block{{Type: content.BlockText, Text: message}}
	canonical := message
	degraded := false
	if att != nil {
		modality := classify.Classify(att.Name, att.MimeType)
		built := payload.Build(message, *att, modality, prof, selection.Model)
		userBlocks = built.Blocks
		canonical = strings.TrimSpace(built.Summary + " " + message)
		degraded = built.Degraded
	}

	messages := make([]content.Message, 0, len(history)+2)
	messages = append(messages, content.TextMessage(content.RoleSystem, r.prompts.SystemPrompt(prof)))
	messages = append(messages, history.Messages()...)
	messages = append(messages, content.Message{Role: content.RoleUser, Blocks: userBlocks})

	start := time.Now()
	resp, err := adapter.Complete(ctx, &driver.Request{Model: selection.Model, Messages: messages})
	if err != nil {
		return nil, err
	}

	reply := strings.TrimSpace(resp.Reply)
	r.recordUsage(ctx, id, selection.Model, resp.Usage, time.Since(start))

	newHistory := history.Append(
		content.Turn{Role: content.RoleUser, Content: canonical},
		content.Turn{Role: content.RoleAssistant, Content: reply},
	)

	return &Result{
		Reply:    reply,
		History:  newHistory,
		Provider: id,
		Model:    selection.Model,
		Degraded: degraded,
	}, nil
}

func (r *Registry) recordUsage(ctx context.Context, provider, model string, usage *driver.Usage, duration time.Duration) {
	if r.recorder == nil {
		return
	}
	entry := UsageEntry{Provider: provider, Model: model, Duration: duration}
	if usage != nil {
		entry.PromptTokens = usage.PromptTokens
		entry.CompletionTokens = usage.CompletionTokens
		entry.TotalTokens = usage.TotalTokens
	}
	if err := r.recorder.Record(ctx, entry); err != nil {
		r.log.Warn("usage record failed",
			zap.String("provider", provider),
			zap.Error(err))
	}
}
