package book_credit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	bookCredit "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/book_credit"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
)

type fakeUseCase struct {
	got  *bookCredit.Request
	resp *bookCredit.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *bookCredit.Request) (*bookCredit.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(t *testing.T, uc *fakeUseCase, creditID, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/credits/{creditId}/book", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/credits/"+creditID+"/book", strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(),
		domain.Actor{Kind: domain.ActorStudent, ID: "student-1"}, "tenant-1"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"instructorId":"instr-1","startTime":"2026-03-10T09:00:00Z","durationMinutes":60}`

func TestHandle_Created(t *testing.T) {
	creditID := uuid.New()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &bookCredit.Response{
		Lesson: &domain.Lesson{ID: "lesson-9", InstructorID: "instr-1", Category: "B", StartTime: start, DurationMinutes: 60, Status: "scheduled"},
		Credit: &domain.MakeupCredit{
			ID: creditID, TenantID: "tenant-1", StudentID: "student-1", Category: "B",
			Status: domain.CreditStatusBooked, ExpiresAt: start.AddDate(0, 1, 0), BookedFor: &start,
		},
	}}

	rec := serve(t, uc, creditID.String(), validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, creditID, uc.got.CreditID)
	assert.Equal(t, "tenant-1", uc.got.TenantID)
	assert.Equal(t, domain.ActorStudent, uc.got.Actor.Kind)
	assert.Equal(t, "instr-1", uc.got.InstructorID)

	var resp BookCreditResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "lesson-9", resp.Lesson.ID)
	assert.Equal(t, string(domain.CreditStatusBooked), resp.Credit.Status)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", bookCredit.ErrCreditNotFound, http.StatusNotFound},
		{"foreign credit", bookCredit.ErrAccessDenied, http.StatusForbidden},
		{"not available", bookCredit.ErrCreditNotAvailable, http.StatusUnprocessableEntity},
		{"lead time", bookCredit.ErrLeadTimeViolation, http.StatusUnprocessableEntity},
		{"slot taken", bookCredit.ErrSlotNotAvailable, http.StatusConflict},
		{"consumed", bookCredit.ErrCreditConsumed, http.StatusConflict},
		{"timeout", bookCredit.ErrAvailabilityTimeout, http.StatusServiceUnavailable},
		{"internal", bookCredit.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, uuid.NewString(), validBody)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_RejectsBadInput(t *testing.T) {
	t.Run("credit id", func(t *testing.T) {
		uc := &fakeUseCase{}
		rec := serve(t, uc, "not-a-uuid", validBody)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.got)
	})

	t.Run("validation", func(t *testing.T) {
		uc := &fakeUseCase{}
		rec := serve(t, uc, uuid.NewString(), `{"instructorId":"  ","startTime":"2026-03-10T09:00:00Z","durationMinutes":5}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.got)

		var resp handlers.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp.Fields, "instructorId")
		assert.Contains(t, resp.Fields, "durationMinutes")
	})

	t.Run("unknown field", func(t *testing.T) {
		uc := &fakeUseCase{}
		rec := serve(t, uc, uuid.NewString(), `{"instructorId":"i","startTime":"2026-03-10T09:00:00Z","durationMinutes":60,"price":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
