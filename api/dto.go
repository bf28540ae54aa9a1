/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures decoupling the engine's domain model from the wire. All
  times are "HH:MM" strings, dates "YYYY-MM-DD", money rounded to 2
  decimals for display only - internal values stay exact decimals.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/careshift-engine/engine"
	"github.com/warp/careshift-engine/leave"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SegmentRequest is one guard segment on the wire.
type SegmentRequest struct {
	Start        string `json:"start"`
	Type         string `json:"type"`
	BreakMinutes int    `json:"break_minutes,omitempty"`
}

// ShiftRequest is a candidate shift for preview or creation.
type ShiftRequest struct {
	ID                 string           `json:"id,omitempty"`
	ContractID         string           `json:"contract_id"`
	Date               string           `json:"date"`
	Start              string           `json:"start"`
	End                string           `json:"end"`
	BreakMinutes       int              `json:"break_minutes,omitempty"`
	Type               string           `json:"type"`
	HasNightAction     bool             `json:"has_night_action,omitempty"`
	NightInterventions int              `json:"night_interventions,omitempty"`
	Segments           []SegmentRequest `json:"segments,omitempty"`
	Status             string           `json:"status,omitempty"`

	// AcknowledgeWarnings must be true to persist a shift with warnings.
	AcknowledgeWarnings bool `json:"acknowledge_warnings,omitempty"`
}

// ContractRequest creates or updates a contract.
type ContractRequest struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	WeeklyHours float64 `json:"weekly_hours"`
	HourlyRate  float64 `json:"hourly_rate"`
}

// AbsenceRequest creates an absence request (always pending).
type AbsenceRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// IssueDTO is one Violation or Warning.
type IssueDTO struct {
	Kind      string  `json:"kind"`
	Message   string  `json:"message"`
	Metric    string  `json:"metric,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Observed  float64 `json:"observed,omitempty"`
}

// ComplianceDTO is the aggregated verdict.
type ComplianceDTO struct {
	Violations  []IssueDTO `json:"violations"`
	Warnings    []IssueDTO `json:"warnings"`
	HasErrors   bool       `json:"has_errors"`
	HasWarnings bool       `json:"has_warnings"`
}

// SegmentDTO is a guard segment with its computed span and weighting.
type SegmentDTO struct {
	Start          string  `json:"start"`
	End            string  `json:"end"`
	Type           string  `json:"type"`
	BreakMinutes   int     `json:"break_minutes,omitempty"`
	Minutes        int     `json:"minutes"`
	EffectiveHours float64 `json:"effective_hours"`
}

// ClassificationDTO is the derived classification of one shift.
type ClassificationDTO struct {
	EffectiveHours *float64     `json:"effective_hours"` // null for non-requalified night presence
	IsRequalified  bool         `json:"is_requalified"`
	Segments       []SegmentDTO `json:"segments,omitempty"`
}

// PayDTO is the pay breakdown, display-rounded to 2 decimals.
type PayDTO struct {
	BasePay                float64 `json:"base_pay"`
	NightMajoration        float64 `json:"night_majoration"`
	SundayMajoration       float64 `json:"sunday_majoration"`
	HolidayMajoration      float64 `json:"holiday_majoration"`
	OvertimeMajoration     float64 `json:"overtime_majoration"`
	PresenceResponsiblePay float64 `json:"presence_responsible_pay"`
	NightPresenceAllowance float64 `json:"night_presence_allowance"`
	Total                  float64 `json:"total"`
}

// ShiftEvaluationDTO is the full engine output for one candidate shift:
// time decomposition, compliance verdict and pay breakdown.
type ShiftEvaluationDTO struct {
	DurationMinutes     int               `json:"duration_minutes"`
	NightOverlapMinutes int               `json:"night_overlap_minutes"`
	Classification      ClassificationDTO `json:"classification"`
	Compliance          ComplianceDTO     `json:"compliance"`
	Pay                 PayDTO            `json:"pay"`
}

// ShiftDTO is a persisted shift with its evaluation.
type ShiftDTO struct {
	ID                 string           `json:"id"`
	ContractID         string           `json:"contract_id"`
	EmployeeID         string           `json:"employee_id"`
	Date               string           `json:"date"`
	Start              string           `json:"start"`
	End                string           `json:"end"`
	BreakMinutes       int              `json:"break_minutes"`
	Type               string           `json:"type"`
	HasNightAction     bool             `json:"has_night_action"`
	NightInterventions int              `json:"night_interventions"`
	Segments           []SegmentRequest `json:"segments,omitempty"`
	Status             string           `json:"status"`

	Evaluation ShiftEvaluationDTO `json:"evaluation"`
}

// ContractDTO mirrors a contract.
type ContractDTO struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	WeeklyHours float64 `json:"weekly_hours"`
	HourlyRate  float64 `json:"hourly_rate"`
}

// AbsenceDTO mirrors an absence with its business-day length.
type AbsenceDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	Kind         string `json:"kind"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Status       string `json:"status"`
	BusinessDays int    `json:"business_days"`
}

// LeaveBalanceDTO is the paid-leave position for one leave year.
type LeaveBalanceDTO struct {
	YearStart  string  `json:"year_start"`
	YearEnd    string  `json:"year_end"`
	Acquired   float64 `json:"acquired_days"`
	Taken      float64 `json:"taken_days"`
	Adjustment float64 `json:"adjustment_days"`
	Remaining  float64 `json:"remaining_days"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func f64(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func issueDTO(i engine.Issue) IssueDTO {
	return IssueDTO{
		Kind:      string(i.Kind),
		Message:   i.Message,
		Metric:    i.Metric,
		Threshold: f64(i.Threshold),
		Observed:  f64(i.Observed),
	}
}

func complianceDTO(r engine.ComplianceResult) ComplianceDTO {
	dto := ComplianceDTO{
		Violations:  make([]IssueDTO, 0, len(r.Violations)),
		Warnings:    make([]IssueDTO, 0, len(r.Warnings)),
		HasErrors:   r.HasErrors(),
		HasWarnings: r.HasWarnings(),
	}
	for _, v := range r.Violations {
		dto.Violations = append(dto.Violations, issueDTO(v))
	}
	for _, w := range r.Warnings {
		dto.Warnings = append(dto.Warnings, issueDTO(w))
	}
	return dto
}

func classificationDTO(cls engine.Classification) ClassificationDTO {
	dto := ClassificationDTO{IsRequalified: cls.IsRequalified}
	if cls.Counted {
		v := f64(cls.EffectiveHours)
		dto.EffectiveHours = &v
	}
	if cls.Guard != nil {
		for _, seg := range cls.Guard.Segments {
			dto.Segments = append(dto.Segments, SegmentDTO{
				Start:          seg.Start.String(),
				End:            seg.End.String(),
				Type:           seg.Type.String(),
				BreakMinutes:   seg.BreakMinutes,
				Minutes:        seg.Minutes,
				EffectiveHours: f64(seg.EffectiveHours),
			})
		}
	}
	return dto
}

func payDTO(p engine.ComputedPay) PayDTO {
	return PayDTO{
		BasePay:                f64(p.BasePay),
		NightMajoration:        f64(p.NightMajoration),
		SundayMajoration:       f64(p.SundayMajoration),
		HolidayMajoration:      f64(p.HolidayMajoration),
		OvertimeMajoration:     f64(p.OvertimeMajoration),
		PresenceResponsiblePay: f64(p.PresenceResponsiblePay),
		NightPresenceAllowance: f64(p.NightPresenceAllowance),
		Total:                  f64(p.Total),
	}
}

func segmentRequests(segs []engine.GuardSegment) []SegmentRequest {
	if len(segs) == 0 {
		return nil
	}
	out := make([]SegmentRequest, len(segs))
	for i, seg := range segs {
		out[i] = SegmentRequest{Start: seg.Start.String(), Type: seg.Type.String(), BreakMinutes: seg.BreakMinutes}
	}
	return out
}

func absenceDTO(a engine.Absence, calendar engine.HolidayCalendar) AbsenceDTO {
	return AbsenceDTO{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		Kind:         a.Kind,
		Start:        a.Start.String(),
		End:          a.End.String(),
		Status:       string(a.Status),
		BusinessDays: leave.CountBusinessDays(a.Start, a.End, calendar),
	}
}

func leaveBalanceDTO(b leave.Balance) LeaveBalanceDTO {
	return LeaveBalanceDTO{
		YearStart:  b.Year.Start.String(),
		YearEnd:    b.Year.End.String(),
		Acquired:   f64(b.Acquired),
		Taken:      f64(b.Taken),
		Adjustment: f64(b.Adjustment),
		Remaining:  f64(b.Remaining),
	}
}
