package sendgrid_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/sendgrid"
)

func TestSendEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		personalizations := body["personalizations"].([]interface{})
		first := personalizations[0].(map[string]interface{})
		assert.Equal(t, "[Auto-école] Rappel", first["subject"])

		w.Header().Set("X-Message-Id", "msg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := sendgrid.NewClient("sg-key", srv.URL, "Auto-école", "noreply@example.ch")
	id, err := client.SendEmail(context.Background(), "Léa", "lea@example.ch", "Rappel", "Bonjour")

	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
}

func TestSendEmail_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := sendgrid.NewClient("bad", srv.URL, "Auto-école", "noreply@example.ch")
	_, err := client.SendEmail(context.Background(), "Léa", "lea@example.ch", "Rappel", "Bonjour")

	assert.ErrorIs(t, err, sendgrid.ErrSendFailed)
}
