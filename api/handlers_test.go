package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/warp/careshift-engine/engine"
	"github.com/warp/careshift-engine/engine/store"
	"github.com/warp/careshift-engine/leave"
)

func testRouter(t *testing.T) (http.Handler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveContract(context.Background(), engine.Contract{
		ID:          "contract-1",
		EmployeeID:  "emp-1",
		WeeklyHours: decimal.NewFromInt(40),
		HourlyRate:  decimal.RequireFromString("12.50"),
	}))

	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewHandler(mem, engine.DefaultRuleSet(), leave.FrenchCalendar(), log)
	return NewRouter(h, []string{"*"}), mem
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func plainShiftRequest(id string) ShiftRequest {
	return ShiftRequest{
		ID:         id,
		ContractID: "contract-1",
		Date:       "2025-03-10",
		Start:      "09:00",
		End:        "17:00",
		Type:       "effective",
	}
}

// =============================================================================
// SHIFT ENDPOINTS
// =============================================================================

func TestPreviewShift(t *testing.T) {
	router, _ := testRouter(t)

	rec := do(t, router, http.MethodPost, "/api/shifts/preview", plainShiftRequest(""))
	require.Equal(t, http.StatusOK, rec.Code)

	eval := decode[ShiftEvaluationDTO](t, rec)
	require.Equal(t, 480, eval.DurationMinutes)
	require.NotNil(t, eval.Classification.EffectiveHours)
	require.InDelta(t, 8.0, *eval.Classification.EffectiveHours, 0.001)
	require.InDelta(t, 100.0, eval.Pay.BasePay, 0.001)
	require.False(t, eval.Compliance.HasErrors)
}

func TestPreviewShift_UnknownContract(t *testing.T) {
	router, _ := testRouter(t)
	req := plainShiftRequest("")
	req.ContractID = "missing"

	rec := do(t, router, http.MethodPost, "/api/shifts/preview", req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewShift_InvalidClock(t *testing.T) {
	router, _ := testRouter(t)
	req := plainShiftRequest("")
	req.Start = "25:00"

	rec := do(t, router, http.MethodPost, "/api/shifts/preview", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewShift_NightPresenceNullHours(t *testing.T) {
	// A non-requalified night presence surfaces null effective hours and
	// the forfeit allowance.
	router, _ := testRouter(t)
	req := plainShiftRequest("")
	req.Start, req.End = "20:00", "06:00"
	req.Type = "presence_night"
	req.NightInterventions = 2

	rec := do(t, router, http.MethodPost, "/api/shifts/preview", req)
	require.Equal(t, http.StatusOK, rec.Code)

	eval := decode[ShiftEvaluationDTO](t, rec)
	require.Nil(t, eval.Classification.EffectiveHours)
	require.InDelta(t, 31.25, eval.Pay.NightPresenceAllowance, 0.001)
}

func TestCreateShift(t *testing.T) {
	router, mem := testRouter(t)

	rec := do(t, router, http.MethodPost, "/api/shifts", plainShiftRequest("shift-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	dto := decode[ShiftDTO](t, rec)
	require.Equal(t, "shift-1", dto.ID)
	require.Equal(t, "planned", dto.Status)

	stored, err := mem.Shift(context.Background(), "shift-1")
	require.NoError(t, err)
	require.Equal(t, engine.StatusPlanned, stored.Status)
}

func TestCreateShift_RequiresID(t *testing.T) {
	router, _ := testRouter(t)
	rec := do(t, router, http.MethodPost, "/api/shifts", plainShiftRequest(""))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateShift_ViolationBlocks(t *testing.T) {
	router, mem := testRouter(t)

	rec := do(t, router, http.MethodPost, "/api/shifts", plainShiftRequest("shift-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	// An overlapping second shift is refused outright.
	overlapping := plainShiftRequest("shift-2")
	overlapping.Start, overlapping.End = "16:00", "20:00"
	rec = do(t, router, http.MethodPost, "/api/shifts", overlapping)
	require.Equal(t, http.StatusConflict, rec.Code)

	_, err := mem.Shift(context.Background(), "shift-2")
	require.ErrorIs(t, err, engine.ErrShiftNotFound)
}

func TestCreateShift_WarningNeedsAcknowledgment(t *testing.T) {
	router, _ := testRouter(t)

	// 7h effective without a break draws a warning.
	req := plainShiftRequest("shift-1")
	req.End = "16:00"
	req.Start = "09:00"
	rec := do(t, router, http.MethodPost, "/api/shifts", req)
	require.Equal(t, http.StatusConflict, rec.Code)

	req.AcknowledgeWarnings = true
	rec = do(t, router, http.MethodPost, "/api/shifts", req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetShift(t *testing.T) {
	router, _ := testRouter(t)
	do(t, router, http.MethodPost, "/api/shifts", plainShiftRequest("shift-1"))

	rec := do(t, router, http.MethodGet, "/api/shifts/shift-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[ShiftDTO](t, rec)
	require.Equal(t, "2025-03-10", dto.Date)
	require.InDelta(t, 100.0, dto.Evaluation.Pay.Total, 0.001)

	rec = do(t, router, http.MethodGet, "/api/shifts/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListShifts(t *testing.T) {
	router, _ := testRouter(t)
	do(t, router, http.MethodPost, "/api/shifts", plainShiftRequest("shift-1"))

	rec := do(t, router, http.MethodGet,
		"/api/shifts?employee_id=emp-1&from=2025-03-01&to=2025-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]ShiftDTO](t, rec), 1)

	rec = do(t, router, http.MethodGet, "/api/shifts?from=2025-03-01&to=2025-03-31", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateShift_Guard(t *testing.T) {
	router, _ := testRouter(t)

	req := ShiftRequest{
		ID:         "guard-1",
		ContractID: "contract-1",
		Date:       "2025-03-10",
		Start:      "08:00",
		End:        "08:00",
		Type:       "guard_24h",
		Segments: []SegmentRequest{
			{Start: "08:00", Type: "effective", BreakMinutes: 30},
			{Start: "14:00", Type: "presence_day"},
			{Start: "20:00", Type: "presence_night"},
		},
		AcknowledgeWarnings: true,
	}
	rec := do(t, router, http.MethodPost, "/api/shifts", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	dto := decode[ShiftDTO](t, rec)
	require.Len(t, dto.Evaluation.Classification.Segments, 3)
	require.Equal(t, "14:00", dto.Evaluation.Classification.Segments[0].End)
}

func TestCreateShift_GuardTooFewSegments(t *testing.T) {
	router, _ := testRouter(t)

	req := plainShiftRequest("guard-1")
	req.Start, req.End = "08:00", "08:00"
	req.Type = "guard_24h"
	req.Segments = []SegmentRequest{{Start: "08:00", Type: "effective"}}

	rec := do(t, router, http.MethodPost, "/api/shifts", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// CONTRACT ENDPOINTS
// =============================================================================

func TestContracts(t *testing.T) {
	router, _ := testRouter(t)

	rec := do(t, router, http.MethodPost, "/api/contracts", ContractRequest{
		ID: "contract-2", EmployeeID: "emp-2", WeeklyHours: 35, HourlyRate: 14,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/contracts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]ContractDTO](t, rec), 2)

	rec = do(t, router, http.MethodPost, "/api/contracts", ContractRequest{ID: "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ABSENCE AND LEAVE ENDPOINTS
// =============================================================================

func createAbsence(t *testing.T, router http.Handler, id, kind, start, end string) AbsenceDTO {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/absences", AbsenceRequest{
		ID: id, EmployeeID: "emp-1", Kind: kind, Start: start, End: end,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[AbsenceDTO](t, rec)
}

func TestAbsenceLifecycle(t *testing.T) {
	router, _ := testRouter(t)

	// A birth grants 3 days; the request is created pending.
	dto := createAbsence(t, router, "abs-1", "birth", "2025-03-17", "2025-03-19")
	require.Equal(t, "pending", dto.Status)
	require.Equal(t, 3, dto.BusinessDays)

	rec := do(t, router, http.MethodPost,
		"/api/absences/abs-1/approve?employee_id=emp-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "approved", decode[AbsenceDTO](t, rec).Status)

	// A second approve hits the pending guard.
	rec = do(t, router, http.MethodPost,
		"/api/absences/abs-1/approve?employee_id=emp-1", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAbsenceReject(t *testing.T) {
	router, _ := testRouter(t)
	createAbsence(t, router, "abs-1", "sick", "2025-03-17", "2025-03-18")

	rec := do(t, router, http.MethodPost,
		"/api/absences/abs-1/reject?employee_id=emp-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "rejected", decode[AbsenceDTO](t, rec).Status)
}

func TestAbsence_EndBeforeStart(t *testing.T) {
	router, _ := testRouter(t)
	rec := do(t, router, http.MethodPost, "/api/absences", AbsenceRequest{
		ID: "abs-1", EmployeeID: "emp-1", Kind: "sick",
		Start: "2025-03-18", End: "2025-03-17",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAbsence_FamilyEventOverGrantBlocked(t *testing.T) {
	router, _ := testRouter(t)
	createAbsence(t, router, "abs-1", "birth", "2025-03-17", "2025-03-21")

	rec := do(t, router, http.MethodPost,
		"/api/absences/abs-1/approve?employee_id=emp-1", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetLeaveBalance(t *testing.T) {
	router, _ := testRouter(t)

	rec := do(t, router, http.MethodGet, fmt.Sprintf(
		"/api/leave/balance?contract_id=%s&date=%s&contract_start=%s",
		"contract-1", "2025-03-10", "2023-01-01"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[LeaveBalanceDTO](t, rec)
	require.Equal(t, "2024-06-01", dto.YearStart)
	require.Equal(t, "2025-05-31", dto.YearEnd)
	require.InDelta(t, 22.5, dto.Acquired, 0.001)
	require.InDelta(t, 22.5, dto.Remaining, 0.001)

	rec = do(t, router, http.MethodGet, "/api/leave/balance", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFamilyEvents(t *testing.T) {
	router, _ := testRouter(t)
	rec := do(t, router, http.MethodGet, "/api/leave/family-events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	grants := decode[map[string]int](t, rec)
	require.Equal(t, 4, grants["marriage"])
	require.Equal(t, 3, grants["birth"])
}

// =============================================================================
// RULES AND HEALTH
// =============================================================================

func TestGetRules(t *testing.T) {
	router, _ := testRouter(t)
	rec := do(t, router, http.MethodGet, "/api/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rules := decode[map[string]any](t, rec)
	require.Equal(t, "21:00-06:00", rules["night_window"])
	require.InDelta(t, 0.2, rules["night_rate"].(float64), 0.001)
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t)
	rec := do(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
