/*
handlers.go - HTTP handlers wrapping the shift engine

PURPOSE:
  Thin I/O shell around the engine: decode the request, fetch the worker's
  context (sibling shifts, absences, contract) from the store, run the
  pure computations, serialize the result. The engine is re-invoked here
  server-side so its verdicts are authoritative regardless of what the
  scheduling UI showed.

ENDPOINTS:
  Shifts:
    POST /api/shifts/preview   Evaluate a candidate without persisting
    POST /api/shifts           Validate and persist (persistence gate:
                               no violations, warnings acknowledged)
    GET  /api/shifts/{id}      One shift with its evaluation
    GET  /api/shifts           ?employee_id=&from=&to=

  Contracts:
    GET/POST /api/contracts

  Absences:
    GET/POST /api/absences     POST always creates pending
    POST /api/absences/{id}/approve
    POST /api/absences/{id}/reject

  Leave:
    GET /api/leave/balance     ?contract_id=&date=
    GET /api/leave/family-events

  Rules:
    GET /api/rules             The active rule set thresholds

ERROR HANDLING:
  400 invalid input (engine boundary errors), 404 missing records,
  409 persistence gate refusals, 500 storage failures.
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/warp/careshift-engine/engine"
	"github.com/warp/careshift-engine/leave"
)

// validationWindowDays bounds the sibling-shift fetch around a candidate.
// Wide enough for weekly checks on either side of the shift date.
const validationWindowDays = 14

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    engine.AdminStore
	Rules    engine.RuleSet
	Calendar engine.HolidayCalendar
	Leave    leave.Calculator
	Log      *logrus.Logger
}

// NewHandler wires a handler over the given store and rule set.
func NewHandler(store engine.AdminStore, rules engine.RuleSet, calendar engine.HolidayCalendar, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if calendar == nil {
		calendar = engine.NoHolidays{}
	}
	return &Handler{
		Store:    store,
		Rules:    rules,
		Calendar: calendar,
		Leave:    leave.NewCalculator(),
		Log:      log,
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.Log.WithError(err).Error("encoding response")
		}
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case engine.IsClientError(err):
		status = http.StatusBadRequest
	case engine.IsNotFound(err):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.Log.WithError(err).Error("request failed")
	}
	h.respond(w, status, map[string]string{"error": err.Error()})
}

// =============================================================================
// DECODING
// =============================================================================

func shiftFromRequest(req ShiftRequest, employeeID string) (engine.Shift, error) {
	var (
		s   engine.Shift
		err error
	)
	s.ID = req.ID
	s.ContractID = req.ContractID
	s.EmployeeID = employeeID
	if s.Date, err = engine.ParseDate(req.Date); err != nil {
		return s, err
	}
	if s.Start, err = engine.ParseClock(req.Start); err != nil {
		return s, err
	}
	if s.End, err = engine.ParseClock(req.End); err != nil {
		return s, err
	}
	if s.Type, err = engine.ParseShiftType(req.Type); err != nil {
		return s, err
	}
	s.BreakMinutes = req.BreakMinutes
	s.HasNightAction = req.HasNightAction
	s.NightInterventions = req.NightInterventions
	s.Status = engine.StatusPlanned
	if req.Status != "" {
		s.Status = engine.ShiftStatus(req.Status)
	}
	for _, sr := range req.Segments {
		start, err := engine.ParseClock(sr.Start)
		if err != nil {
			return s, err
		}
		t, err := engine.ParseShiftType(sr.Type)
		if err != nil {
			return s, err
		}
		s.Segments = append(s.Segments, engine.GuardSegment{
			Start: start, Type: t, BreakMinutes: sr.BreakMinutes,
		})
	}
	return s, s.CheckWellFormed()
}

// =============================================================================
// SHIFT EVALUATION - The core flow
// =============================================================================

// evaluate assembles the worker context and runs the full engine pass:
// classification, compliance, pay.
func (h *Handler) evaluate(r *http.Request, s engine.Shift, contract engine.Contract) (ShiftEvaluationDTO, engine.ComplianceResult, error) {
	ctx := r.Context()

	from := s.Date.AddDays(-validationWindowDays)
	to := s.Date.AddDays(validationWindowDays)
	siblings, err := h.Store.ShiftsInRange(ctx, s.EmployeeID, from, to)
	if err != nil {
		return ShiftEvaluationDTO{}, engine.ComplianceResult{}, err
	}
	absences, err := h.Store.Absences(ctx, s.EmployeeID)
	if err != nil {
		return ShiftEvaluationDTO{}, engine.ComplianceResult{}, err
	}

	cls := engine.Classify(s, h.Rules)
	compliance := engine.Validate(s, contract, siblings, absences, h.Rules)
	week := engine.WeekContextFor(s, siblings, h.Rules)
	pay := engine.ComputePay(s, cls, contract, week, h.Calendar, h.Rules)

	dto := ShiftEvaluationDTO{
		DurationMinutes:     s.WorkedMinutes(),
		NightOverlapMinutes: engine.NightOverlap(s.Start, s.End, h.Rules.NightWindow),
		Classification:      classificationDTO(cls),
		Compliance:          complianceDTO(compliance),
		Pay:                 payDTO(pay),
	}
	return dto, compliance, nil
}

// PreviewShift evaluates a candidate without persisting anything.
func (h *Handler) PreviewShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	contract, err := h.Store.Contract(r.Context(), req.ContractID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	s, err := shiftFromRequest(req, contract.EmployeeID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	evaluation, _, err := h.evaluate(r, s, contract)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, evaluation)
}

// CreateShift validates a candidate and persists it when the gate passes:
// no violations, and warnings explicitly acknowledged.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.ID == "" {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "shift id is required"})
		return
	}
	contract, err := h.Store.Contract(r.Context(), req.ContractID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	s, err := shiftFromRequest(req, contract.EmployeeID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	evaluation, compliance, err := h.evaluate(r, s, contract)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if compliance.HasErrors() {
		h.respond(w, http.StatusConflict, map[string]any{
			"error":      "shift has blocking violations",
			"evaluation": evaluation,
		})
		return
	}
	if compliance.HasWarnings() && !req.AcknowledgeWarnings {
		h.respond(w, http.StatusConflict, map[string]any{
			"error":      "shift has warnings requiring acknowledgment",
			"evaluation": evaluation,
		})
		return
	}

	if err := h.Store.SaveShift(r.Context(), s); err != nil {
		h.respondError(w, err)
		return
	}
	h.Log.WithFields(logrus.Fields{
		"shift_id": s.ID, "employee_id": s.EmployeeID, "type": s.Type.String(),
	}).Info("shift created")

	h.respond(w, http.StatusCreated, h.shiftDTO(s, evaluation))
}

// GetShift returns one shift with a fresh evaluation.
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Shift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	contract, err := h.Store.Contract(r.Context(), s.ContractID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	evaluation, _, err := h.evaluate(r, s, contract)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, h.shiftDTO(s, evaluation))
}

// ListShifts returns an employee's shifts in a date range.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "employee_id is required"})
		return
	}
	from, err := engine.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	to, err := engine.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	shifts, err := h.Store.ShiftsInRange(r.Context(), employeeID, from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}

	out := make([]ShiftDTO, 0, len(shifts))
	for _, s := range shifts {
		contract, err := h.Store.Contract(r.Context(), s.ContractID)
		if err != nil {
			h.respondError(w, err)
			return
		}
		evaluation, _, err := h.evaluate(r, s, contract)
		if err != nil {
			h.respondError(w, err)
			return
		}
		out = append(out, h.shiftDTO(s, evaluation))
	}
	h.respond(w, http.StatusOK, out)
}

func (h *Handler) shiftDTO(s engine.Shift, evaluation ShiftEvaluationDTO) ShiftDTO {
	return ShiftDTO{
		ID:                 s.ID,
		ContractID:         s.ContractID,
		EmployeeID:         s.EmployeeID,
		Date:               s.Date.String(),
		Start:              s.Start.String(),
		End:                s.End.String(),
		BreakMinutes:       s.BreakMinutes,
		Type:               s.Type.String(),
		HasNightAction:     s.HasNightAction,
		NightInterventions: s.NightInterventions,
		Segments:           segmentRequests(s.Segments),
		Status:             string(s.Status),
		Evaluation:         evaluation,
	}
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req ContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.ID == "" || req.EmployeeID == "" {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "id and employee_id are required"})
		return
	}
	c := engine.Contract{
		ID:          req.ID,
		EmployeeID:  req.EmployeeID,
		WeeklyHours: decimal.NewFromFloat(req.WeeklyHours),
		HourlyRate:  decimal.NewFromFloat(req.HourlyRate),
	}
	if err := h.Store.SaveContract(r.Context(), c); err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, contractDTO(c))
}

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Store.ListContracts(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]ContractDTO, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, contractDTO(c))
	}
	h.respond(w, http.StatusOK, out)
}

func contractDTO(c engine.Contract) ContractDTO {
	return ContractDTO{
		ID:          c.ID,
		EmployeeID:  c.EmployeeID,
		WeeklyHours: f64(c.WeeklyHours),
		HourlyRate:  f64(c.HourlyRate),
	}
}

// =============================================================================
// ABSENCE HANDLERS
// =============================================================================

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var req AbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	a := engine.Absence{
		ID:         req.ID,
		EmployeeID: req.EmployeeID,
		Kind:       req.Kind,
		Status:     engine.AbsencePending,
	}
	var err error
	if a.Start, err = engine.ParseDate(req.Start); err != nil {
		h.respondError(w, err)
		return
	}
	if a.End, err = engine.ParseDate(req.End); err != nil {
		h.respondError(w, err)
		return
	}
	if a.End.Before(a.Start) {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "end before start"})
		return
	}
	if err := h.Store.SaveAbsence(r.Context(), a); err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, absenceDTO(a, h.Calendar))
}

func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "employee_id is required"})
		return
	}
	absences, err := h.Store.Absences(r.Context(), employeeID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]AbsenceDTO, 0, len(absences))
	for _, a := range absences {
		out = append(out, absenceDTO(a, h.Calendar))
	}
	h.respond(w, http.StatusOK, out)
}

func (h *Handler) absenceByID(r *http.Request) (engine.Absence, error) {
	id := chi.URLParam(r, "id")
	employeeID := r.URL.Query().Get("employee_id")
	absences, err := h.Store.Absences(r.Context(), employeeID)
	if err != nil {
		return engine.Absence{}, err
	}
	for _, a := range absences {
		if a.ID == id {
			return a, nil
		}
	}
	return engine.Absence{}, fmt.Errorf("absence %s: %w", id, engine.ErrAbsenceNotFound)
}

func (h *Handler) requestService() *leave.RequestService {
	return &leave.RequestService{Store: h.Store, Calculator: h.Leave, Calendar: h.Calendar}
}

func (h *Handler) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	a, err := h.absenceByID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	contractStart, err := engine.ParseDate(r.URL.Query().Get("contract_start"))
	if err != nil {
		// Without a contract start the whole leave year counts.
		contractStart = engine.Date{}
	}
	a, err = h.requestService().Approve(r.Context(), a, contractStart, engine.Today(), decimal.Zero)
	if err != nil {
		h.respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	h.respond(w, http.StatusOK, absenceDTO(a, h.Calendar))
}

func (h *Handler) RejectAbsence(w http.ResponseWriter, r *http.Request) {
	a, err := h.absenceByID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	a, err = h.requestService().Reject(r.Context(), a)
	if err != nil {
		h.respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	h.respond(w, http.StatusOK, absenceDTO(a, h.Calendar))
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// GetLeaveBalance returns the leave-year balance for a contract, as of the
// given date (today by default).
func (h *Handler) GetLeaveBalance(w http.ResponseWriter, r *http.Request) {
	contractID := r.URL.Query().Get("contract_id")
	if contractID == "" {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "contract_id is required"})
		return
	}
	contract, err := h.Store.Contract(r.Context(), contractID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	asOf := engine.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		if asOf, err = engine.ParseDate(raw); err != nil {
			h.respondError(w, err)
			return
		}
	}
	contractStart := engine.Date{}
	if raw := r.URL.Query().Get("contract_start"); raw != "" {
		if contractStart, err = engine.ParseDate(raw); err != nil {
			h.respondError(w, err)
			return
		}
	}

	year := h.Leave.LeaveYearFor(asOf)
	svc := h.requestService()
	taken, err := svc.TakenInYear(r.Context(), contract.EmployeeID, year)
	if err != nil {
		h.respondError(w, err)
		return
	}
	balance := h.Leave.BalanceFor(year, contractStart, asOf, taken, decimal.Zero)
	h.respond(w, http.StatusOK, leaveBalanceDTO(balance))
}

// ListFamilyEvents returns the fixed statutory grants per event kind.
func (h *Handler) ListFamilyEvents(w http.ResponseWriter, r *http.Request) {
	kinds := []leave.EventKind{
		leave.EventMarriage, leave.EventCivilUnion, leave.EventChildMarriage,
		leave.EventBirth, leave.EventAdoption, leave.EventChildDeath,
		leave.EventSpouseDeath, leave.EventParentDeath, leave.EventSiblingDeath,
		leave.EventParentInLawDeath, leave.EventChildDisabilityNotice,
	}
	out := make(map[string]int, len(kinds))
	for _, k := range kinds {
		out[string(k)] = leave.FamilyEventDays(k)
	}
	h.respond(w, http.StatusOK, out)
}

// =============================================================================
// RULES HANDLER
// =============================================================================

// GetRules exposes the active rule-set thresholds for display.
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	rules := h.Rules
	h.respond(w, http.StatusOK, map[string]any{
		"night_window":                  fmt.Sprintf("%s-%s", rules.NightWindow.Start, rules.NightWindow.End),
		"night_rate":                    f64(rules.NightRate),
		"presence_day_coeff":            f64(rules.PresenceDayCoeff),
		"presence_night_allowance_rate": f64(rules.PresenceNightAllowanceRate),
		"requalify_threshold":           rules.RequalifyThreshold,
		"overtime_rate":                 f64(rules.OvertimeRate),
		"sunday_rate":                   f64(rules.SundayRate),
		"holiday_rate":                  f64(rules.HolidayRate),
		"daily_soft_hours":              f64(rules.DailySoftHours),
		"daily_max_hours":               f64(rules.DailyMaxHours),
		"weekly_soft_hours":             f64(rules.WeeklySoftHours),
		"weekly_max_hours":              f64(rules.WeeklyMaxHours),
		"daily_rest_minutes":            rules.DailyRestMinutes,
		"weekly_rest_minutes":           rules.WeeklyRestMinutes,
		"break_after_minutes":           rules.BreakAfterMinutes,
		"min_break_minutes":             rules.MinBreakMinutes,
		"guard_effective_cap_hours":     f64(rules.GuardEffectiveCapHours),
	})
}

// Healthz is a liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
