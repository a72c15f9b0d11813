package lessonservice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/integrations/lessonservice"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
)

func testSlot() domain.SlotRequest {
	return domain.SlotRequest{
		TenantID:        "tenant-1",
		StudentID:       "student-1",
		InstructorID:    "instructor-1",
		Category:        "B",
		StartTime:       time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
	}
}

func TestCheckAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/availability/check", r.URL.Path)

		var payload lessonservice.SlotPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_ = json.NewEncoder(w).Encode(lessonservice.AvailabilityResponse{Available: payload.InstructorID == "instructor-1"})
	}))
	defer srv.Close()

	client := lessonservice.NewClient(srv.URL, time.Second, logger.NewNop())

	ok, err := client.CheckAvailability(context.Background(), testSlot())
	require.NoError(t, err)
	assert.True(t, ok)

	slot := testSlot()
	slot.InstructorID = "instructor-2"
	ok, err = client.CheckAvailability(context.Background(), slot)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateLesson_SendsIdempotencyKey(t *testing.T) {
	creditID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))

		var req lessonservice.CreateLessonRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, creditID, req.MakeupCreditID)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(lessonservice.Lesson{ID: "lesson-9", StartTime: req.StartTime, Status: "scheduled"})
	}))
	defer srv.Close()

	client := lessonservice.NewClient(srv.URL, time.Second, logger.NewNop())
	lesson, err := client.CreateLesson(context.Background(), testSlot(), creditID, "key-1")

	require.NoError(t, err)
	assert.Equal(t, "lesson-9", lesson.ID)
	assert.True(t, lesson.StartTime.Equal(testSlot().StartTime))
}

func TestCreateLesson_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := lessonservice.NewClient(srv.URL, time.Second, logger.NewNop())
	_, err := client.CreateLesson(context.Background(), testSlot(), uuid.New(), "key-1")

	assert.ErrorIs(t, err, lessonservice.ErrSlotTaken)
}

func TestCancelLesson(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/internal/lessons/missing/cancel" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := lessonservice.NewClient(srv.URL, time.Second, logger.NewNop())

	assert.NoError(t, client.CancelLesson(context.Background(), "tenant-1", "lesson-9", "compensation"))
	assert.ErrorIs(t, client.CancelLesson(context.Background(), "tenant-1", "missing", "x"), lessonservice.ErrLessonNotFound)
}
