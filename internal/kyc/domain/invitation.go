package domain

import (
	"strings"
	"time"
)

// Invitation is a shareable link an organization hands to customers. Each
// successful session start consumes one use.
type Invitation struct {
	ID                string
	OrganizationID    string
	Code              string
	Name              string
	UsageLimit        *int // nil means unlimited
	UsageCount        int
	IsActive          bool
	ExpiresAt         time.Time
	Branding          *Branding
	RequiredDocuments []DocumentType
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	RevokedAt         *time.Time
}

type Branding struct {
	CompanyName  string `json:"companyName,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
}

// Consumable reports whether another session may be started from the
// invitation at now.
func (i *Invitation) Consumable(now time.Time) bool {
	if !i.IsActive || !now.Before(i.ExpiresAt) {
		return false
	}
	return i.UsageLimit == nil || i.UsageCount < *i.UsageLimit
}

// ShareURL is the customer facing link for the invitation.
func (i *Invitation) ShareURL(publicBaseURL string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/kyc/invite/" + i.Code
}
