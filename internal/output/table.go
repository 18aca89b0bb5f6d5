// Package output renders CLI tables.
package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/modelink/modelink/internal/chatlink/profile"
	"github.com/modelink/modelink/internal/usage"
)

// ProviderRow is one line of the providers table.
type ProviderRow struct {
	Profile profile.Profile
	Enabled bool
	Model   string
}

// ProvidersTable renders the configured backends and their modality support.
func ProvidersTable(rows []ProviderRow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Provider", "Enabled", "Model", "Vision", "Documents", "Text Ceiling"})

	for _, r := range rows {
		t.AppendRow(table.Row{
			r.Profile.ID,
			yesNo(r.Enabled),
			r.Model,
			yesNo(r.Profile.SupportsVision),
			yesNo(r.Profile.SupportsDocuments),
			fmt.Sprintf("%d chars", r.Profile.MaxTextChars),
		})
	}
	return t.Render()
}

// ModelsTable renders a live model catalog with the resolved selection.
func ModelsTable(providerID string, models []string, selected string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Provider", "Model", "Selected"})

	for _, id := range models {
		marker := ""
		if id == selected {
			marker = "*"
		}
		t.AppendRow(table.Row{providerID, id, marker})
	}
	return t.Render()
}

// UsageTable renders the aggregated token ledger.
func UsageTable(rows []usage.Row) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Provider", "Model", "Calls", "Prompt", "Completion", "Total"})

	totals := usage.Row{}
	for _, r := range rows {
		t.AppendRow(table.Row{r.Provider, r.Model, r.Calls, r.PromptTokens, r.CompletionTokens, r.TotalTokens})
		totals.Calls += r.Calls
		totals.PromptTokens += r.PromptTokens
		totals.CompletionTokens += r.CompletionTokens
		totals.TotalTokens += r.TotalTokens
	}
	if len(rows) > 1 {
		t.AppendFooter(table.Row{"", "", totals.Calls, totals.PromptTokens, totals.CompletionTokens, totals.TotalTokens})
	}
	return t.Render()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
