package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/domain"
	"github.com/aussiebroadwan/verity/internal/kyc/risk"
)

// Report is the exportable summary of a decided session. It is built only
// from stored data, so exporting the same session twice gives the same
// bytes.
type Report struct {
	SessionID       string                `json:"sessionId"`
	OrganizationID  string                `json:"organizationId"`
	Status          domain.SessionStatus  `json:"status"`
	DecidedBy       string                `json:"decidedBy"`
	DecidedAt       time.Time             `json:"decidedAt"`
	Notes           string                `json:"notes,omitempty"`
	Personal        ReportPersonal        `json:"personal"`
	DocumentType    domain.DocumentType   `json:"documentType,omitempty"`
	GPSSkipped      bool                  `json:"gpsSkipped"`
	Risk            domain.RiskAssessment `json:"risk"`
	Reasons         []string              `json:"reasons"`
	Recommendations []string              `json:"recommendations"`
}

type ReportPersonal struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// BuildReport returns the report for a decided session of orgID.
func (s *SessionService) BuildReport(ctx context.Context, orgID, id string) (Report, error) {
	sess, err := s.GetForOrganization(ctx, orgID, id)
	if err != nil {
		return Report{}, err
	}
	if sess.CurrentStep != domain.StepResult || sess.Decision == nil || sess.RiskAssessment == nil {
		return Report{}, ErrReportNotReady
	}
	return reportFor(&sess), nil
}

// ExportReport renders the plain text report.
func (s *SessionService) ExportReport(ctx context.Context, orgID, id string) ([]byte, error) {
	r, err := s.BuildReport(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return []byte(r.Text()), nil
}

func reportFor(sess *domain.Session) Report {
	r := Report{
		SessionID:      sess.ID,
		OrganizationID: sess.OrganizationID,
		Status:         sess.Status,
		DecidedBy:      sess.Decision.DecidedBy,
		DecidedAt:      sess.Decision.DecidedAt,
		Notes:          sess.Decision.Notes,
		GPSSkipped:     sess.GPS != nil && sess.GPS.Skipped,
		Risk:           *sess.RiskAssessment,
		Reasons:        sess.Decision.Reasons,
	}
	if u := sess.UserInfo; u != nil {
		r.Personal = ReportPersonal{
			Name:        u.FullName,
			DateOfBirth: u.DateOfBirth,
			Phone:       u.Phone,
			Address:     u.Address,
		}
	}
	if sess.Document != nil {
		r.DocumentType = sess.Document.Type
	}
	if len(r.Reasons) == 0 {
		r.Reasons = risk.Reasons(sess.RiskAssessment, sess.Status, r.GPSSkipped)
	}
	r.Recommendations = risk.Recommendations(sess.RiskAssessment.RiskLevel)
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	return r
}

// Text renders r in the downloadable plain text layout.
func (r Report) Text() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	orNA := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "N/A"
		}
		return v
	}

	line("VERITY KYC VERIFICATION REPORT")
	line("Decided: %s", r.DecidedAt.UTC().Format(time.RFC3339))
	line("Session ID: %s", r.SessionID)
	line("Organization ID: %s", r.OrganizationID)
	line("")
	line("STATUS: %s", strings.ToUpper(string(r.Status)))
	line("")
	line("PERSONAL INFORMATION:")
	line("Name: %s", orNA(r.Personal.Name))
	line("DOB: %s", orNA(r.Personal.DateOfBirth))
	line("Phone: %s", orNA(r.Personal.Phone))
	line("Address: %s", orNA(r.Personal.Address))
	line("")
	line("VERIFICATION SCORES:")
	line("Document Authenticity: %.1f%%", r.Risk.DocumentAuthenticity)
	line("Face Match: %.1f%%", r.Risk.FaceMatchScore)
	line("Liveness Detection: %.1f%%", r.Risk.LivenessScore)
	if r.GPSSkipped {
		line("GPS Match: skipped")
	} else {
		line("GPS Match: %.1f%%", r.Risk.GPSMatch)
	}
	line("Phone Verification: %.1f%%", r.Risk.PhoneVerification)
	line("Device & Network: %.1f%%", r.Risk.DeviceNetworkScore)
	line("Overall Risk Score: %.1f%%", r.Risk.SystemRiskScore)
	line("Risk Level: %s", strings.ToUpper(string(r.Risk.RiskLevel)))
	line("")
	line("DECISION REASONS:")
	for _, reason := range r.Reasons {
		line("- %s", reason)
	}
	line("")
	line("RECOMMENDATIONS:")
	if len(r.Recommendations) == 0 {
		line("None")
	}
	for _, rec := range r.Recommendations {
		line("- %s", rec)
	}
	return b.String()
}
