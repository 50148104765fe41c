// Package plan defines the subscription tiers and the API entitlements
// attached to them.
package plan

import "time"

// Plan is a subscription tier name as stored on the tenant record.
type Plan string

const (
	Starter  Plan = "starter"
	Pro      Plan = "pro"
	Business Plan = "business"
)

// Limits describes what a plan entitles a tenant's API keys to.
type Limits struct {
	APIAccess  bool
	RateLimit  int
	RateWindow time.Duration
}

var planLimits = map[Plan]Limits{
	// Starter storefronts order through the dashboard only.
	Starter:  {APIAccess: false},
	Pro:      {APIAccess: true, RateLimit: 60, RateWindow: time.Minute},
	Business: {APIAccess: true, RateLimit: 300, RateWindow: time.Minute},
}

// Valid reports whether p is a known tier.
func Valid(p Plan) bool {
	_, ok := planLimits[p]
	return ok
}

// LimitsFor returns the entitlements for a plan. Unknown plans get no API
// access, so a corrupt or lapsed plan value fails closed.
func LimitsFor(p Plan) Limits {
	l, ok := planLimits[p]
	if !ok {
		return Limits{}
	}
	return l
}
