package service

import "slices"

// Policy answers per-organization questions the flow cannot decide alone.
type Policy interface {
	RequireGPS(orgID string) bool
}

// StaticPolicy applies one default with an allow list of organizations for
// which the location check is optional.
type StaticPolicy struct {
	GPSRequired     bool
	GPSOptionalOrgs []string
}

func (p StaticPolicy) RequireGPS(orgID string) bool {
	if !p.GPSRequired {
		return false
	}
	return !slices.Contains(p.GPSOptionalOrgs, orgID)
}
