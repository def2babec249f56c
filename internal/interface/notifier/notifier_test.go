package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cpaptracker-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/api/option"
)

func TestBuildMessage_Tiers(t *testing.T) {
	tests := []struct {
		days     int
		title    string
		body     string
		priority Priority
	}{
		{-3, "OVERDUE: Replace Air Filter", "Your Air Filter is overdue for replacement by 3 days", PriorityHigh},
		{0, "Replace Air Filter Today", "Time to replace your Air Filter", PriorityHigh},
		{1, "Replace Air Filter Soon", "Replace your Air Filter in 1 days", PriorityDefault},
		{7, "Replace Air Filter Soon", "Replace your Air Filter in 7 days", PriorityDefault},
		{8, "Upcoming: Replace Air Filter", "Replace your Air Filter in 8 days", PriorityDefault},
	}

	for _, tt := range tests {
		msg := BuildMessage("Air Filter", tt.days)
		assert.Equal(t, tt.title, msg.Title, "days %d", tt.days)
		assert.Equal(t, tt.body, msg.Body, "days %d", tt.days)
		assert.Equal(t, tt.priority, msg.Priority, "days %d", tt.days)
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(logger.NewFromZap(zap.New(core)))

	require.NoError(t, n.Notify(context.Background(), "Tubing", -1, 1000))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "OVERDUE: Replace Tubing", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 1000, fields["notificationID"])
	assert.Equal(t, "HIGH", fields["priority"])
}

func TestGmailNotifier_SendsRawMessage(t *testing.T) {
	var gotPath, gotRaw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body struct {
			Raw string `json:"raw"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotRaw = body.Raw
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	n, err := NewGmailNotifier(context.Background(), nil, "me", "patient@example.com", logger.NewNopLogger(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), "Mask Cushion", 0, 1001))

	assert.True(t, strings.HasSuffix(gotPath, "/users/me/messages/send"), gotPath)
	decoded, err := base64.URLEncoding.DecodeString(gotRaw)
	require.NoError(t, err)
	raw := string(decoded)
	assert.Contains(t, raw, "To: patient@example.com\r\n")
	assert.Contains(t, raw, "Subject: Replace Mask Cushion Today\r\n")
	assert.Contains(t, raw, "X-Reminder-ID: 1001\r\n")
	assert.Contains(t, raw, "X-Priority: 1\r\n")
	assert.Contains(t, raw, "Time to replace your Mask Cushion")
	assert.NotContains(t, raw, "From:")
}

// headerLines returns the header section of a raw message, one entry per line
func headerLines(t *testing.T, raw string) []string {
	head, _, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found, "no header/body separator")
	return strings.Split(head, "\r\n")
}

func TestBuildRaw_LineBreaksInPartName(t *testing.T) {
	n := &GmailNotifier{from: "me", to: "patient@example.com"}

	raw := n.buildRaw(BuildMessage("Cushion\r\nBcc: attacker@example.com", -2), 1000)

	lines := headerLines(t, raw)
	for _, line := range lines {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), "unexpected header line %q", line)
		assert.NotContains(t, line, "\n")
	}
	assert.Contains(t, lines, "Subject: OVERDUE: Replace Cushion  Bcc: attacker@example.com")
}

func TestBuildRaw_NonASCIIPartName(t *testing.T) {
	n := &GmailNotifier{from: "me", to: "patient@example.com"}
	title := "Replace Máscara nasal Today"

	raw := n.buildRaw(BuildMessage("Máscara nasal", 0), 1001)

	lines := headerLines(t, raw)
	for _, line := range lines {
		for i := 0; i < len(line); i++ {
			require.Less(t, line[i], byte(0x80), "8-bit byte in header %q", line)
		}
	}

	var subject string
	for _, line := range lines {
		if v, ok := strings.CutPrefix(line, "Subject: "); ok {
			subject = v
		}
	}
	assert.Equal(t, mime.QEncoding.Encode("utf-8", title), subject)

	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, title, decoded)
}

func TestGmailNotifier_SendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid to header"}}`))
	}))
	defer srv.Close()

	n, err := NewGmailNotifier(context.Background(), nil, "me", "patient@example.com", logger.NewNopLogger(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	err = n.Notify(context.Background(), "Tubing", 5, 1002)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder 1002")
}

func TestNewGmailNotifier_RequiresRecipient(t *testing.T) {
	_, err := NewGmailNotifier(context.Background(), nil, "me", "", logger.NewNopLogger())
	assert.Error(t, err)
}
