package studentservice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/studentservice"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
)

func TestGetContact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/students/student-1/contact", r.URL.Path)
		assert.Equal(t, "tenant-1", r.Header.Get("X-Tenant-ID"))
		_ = json.NewEncoder(w).Encode(studentservice.Contact{
			FirstName:        "Léa",
			Email:            "lea@example.ch",
			TelegramChatID:   42,
			PreferredChannel: "telegram",
			Locale:           "fr",
		})
	}))
	defer srv.Close()

	client := studentservice.NewClient(srv.URL, time.Second, logger.NewNop())
	contact, err := client.GetContact(context.Background(), "tenant-1", "student-1")

	require.NoError(t, err)
	assert.Equal(t, "student-1", contact.StudentID)
	assert.Equal(t, domain.ChannelTelegram, contact.PreferredChannel)
	assert.Equal(t, int64(42), contact.TelegramChatID)
}

func TestGetContact_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := studentservice.NewClient(srv.URL, time.Second, logger.NewNop())
	_, err := client.GetContact(context.Background(), "tenant-1", "missing")

	assert.ErrorIs(t, err, studentservice.ErrStudentNotFound)
}

func TestGetContact_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := studentservice.NewClient(srv.URL, time.Second, logger.NewNop())
	_, err := client.GetContact(context.Background(), "tenant-1", "student-1")

	assert.ErrorIs(t, err, studentservice.ErrInvalidResponse)
}
