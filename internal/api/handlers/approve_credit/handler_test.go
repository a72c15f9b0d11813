package approve_credit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/middleware"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/service/ledger"
	validateCredit "github.com/dgervalla-ship-it/viamentor-sub004/internal/usecase/validate_credit"
	"github.com/dgervalla-ship-it/viamentor-sub004/pkg/logger"
)

type fakeGate struct {
	calls int
	err   error
}

func (f *fakeGate) Approve(_ context.Context, d validateCredit.Decision) (*validateCredit.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now().UTC()
	return &validateCredit.Result{
		Credit: &domain.MakeupCredit{
			ID: d.CreditID, TenantID: d.TenantID, Status: domain.CreditStatusAvailable,
			CreatedAt: now, ExpiresAt: now.AddDate(0, 0, 30), ValidatedBy: &d.AdminID,
		},
		Notified: true,
	}, nil
}

func call(gate *fakeGate, kind domain.ActorKind) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/credits/{creditId}/approve", NewHandler(gate, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/credits/"+uuid.NewString()+"/approve", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), domain.Actor{Kind: kind, ID: "u-1"}, "tenant-1"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_AdminApproves(t *testing.T) {
	gate := &fakeGate{}
	rec := call(gate, domain.ActorAdmin)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gate.calls)
	assert.Contains(t, rec.Body.String(), `"notified":true`)
}

func TestHandle_StudentIsForbidden(t *testing.T) {
	gate := &fakeGate{}
	rec := call(gate, domain.ActorStudent)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, gate.calls)
}

func TestHandle_SecondApprovalConflicts(t *testing.T) {
	gate := &fakeGate{err: fmt.Errorf("%w: %w", validateCredit.ErrNotPending, ledger.ErrInvalidTransition)}
	rec := call(gate, domain.ActorAdmin)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
