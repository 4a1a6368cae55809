package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want EventType
	}{
		{name: "push", raw: "push", want: EventTypePush},
		{name: "pull request", raw: "pull_request", want: EventTypePullRequest},
		{name: "repository", raw: "repository", want: EventTypeRepository},
		{name: "mixed case trims and lowers", raw: "  Push ", want: EventTypePush},
		{name: "unknown falls back to other", raw: "star", want: EventTypeOther},
		{name: "empty falls back to other", raw: "", want: EventTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEventType(tt.raw))
		})
	}
}

func TestRecordWebhookEventRequest_Validate(t *testing.T) {
	valid := RecordWebhookEventRequest{
		EventType:  EventTypePush,
		DeliveryID: "d-123",
		Payload:    json.RawMessage(`{"ref":"refs/heads/main"}`),
	}
	require.NoError(t, valid.Validate())

	missingDelivery := valid
	missingDelivery.DeliveryID = "   "
	require.Error(t, missingDelivery.Validate())

	badType := valid
	badType.EventType = EventType("bogus")
	require.Error(t, badType.Validate())

	badPayload := valid
	badPayload.Payload = json.RawMessage(`{`)
	require.Error(t, badPayload.Validate())
}

func TestPushPayload_Decode(t *testing.T) {
	body := []byte(`{
		"ref": "refs/heads/main",
		"repository": {"full_name": "acme/shop", "html_url": "https://github.com/acme/shop"},
		"sender": {"login": "octocat"},
		"commits": [
			{"id": "abc123", "message": "fix checkout", "author": {"name": "Ada"}},
			{"id": "def456", "message": "add tests", "author": {"name": "Grace"}}
		]
	}`)

	var p PushPayload
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "acme/shop", p.Repository.FullName)
	assert.Equal(t, "octocat", p.Sender.Login)
	require.Len(t, p.Commits, 2)
	assert.Equal(t, "abc123", p.Commits[0].ID)
	assert.Equal(t, "Ada", p.Commits[0].Author.Name)
}
