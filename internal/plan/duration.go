package plan

import (
	"strings"

	"fitmarket/internal/domain"
)

const (
	FreeTierDays     = 30
	DefaultDays      = 30
	ProfessionalDays = 90
	AnnualDays       = 365
)

// DurationDays resolves how long a plan runs. Explicit fields on p win; the
// name convention is only a fallback for catalog entries that predate them.
func DurationDays(p *domain.Plan, name string) int {
	if p != nil {
		if p.DurationDays > 0 {
			return p.DurationDays
		}
		if p.DurationMonths > 0 {
			if p.DurationMonths%12 == 0 {
				return p.DurationMonths / 12 * AnnualDays
			}
			return p.DurationMonths * 30
		}
		if name == "" {
			name = p.Name
		}
	}

	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "anual"), strings.Contains(n, "annual"):
		return AnnualDays
	case strings.Contains(n, "profesional"), strings.Contains(n, "professional"):
		return ProfessionalDays
	default:
		return DefaultDays
	}
}
