package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	base := History{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "second"},
	}
	snapshot := base.Clone()

	grown := base.Append(
		Turn{Role: RoleUser, Content: "third"},
		Turn{Role: RoleAssistant, Content: "fourth"},
	)

	require.Equal(t, snapshot, base)
	require.Len(t, grown, 4)
	require.Equal(t, "third", grown[2].Content)

	// Appending to the original again must not overwrite the first append's
	// turns through a shared backing array.
	other := base.Append(Turn{Role: RoleUser, Content: "divergent"})
	require.Equal(t, "third", grown[2].Content)
	require.Equal(t, "divergent", other[2].Content)
}

func TestAppendOnEmptyHistory(t *testing.T) {
	var h History
	grown := h.Append(Turn{Role: RoleUser, Content: "hello"})
	require.Len(t, grown, 1)
	require.Empty(t, h)
}

func TestMessagesPreservesOrderAndRoles(t *testing.T) {
	h := History{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	}
	msgs := h.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, "q", msgs[0].Blocks[0].Text)
	require.Equal(t, RoleAssistant, msgs[1].Role)
	require.Equal(t, BlockText, msgs[1].Blocks[0].Type)
}

func TestFileSummary(t *testing.T) {
	require.Equal(t,
		"[Uploaded file: cat.png (image/png, 640x480, 12345 bytes)]",
		FileSummary("cat.png", "image/png", 12345, "640x480"))
	require.Equal(t,
		"[Uploaded file: blob.bin (application/octet-stream, 7 bytes)]",
		FileSummary("blob.bin", "application/octet-stream", 7, ""))
}
