package models

// Scopes are the named capabilities a key can be granted. An operation
// declares one required scope; authorization holds iff the key's grant set
// contains it.
const (
	ScopeProductsRead      = "products:read"
	ScopeProductsWrite     = "products:write"
	ScopeOrdersRead        = "orders:read"
	ScopeOrdersWrite       = "orders:write"
	ScopeCustomersRead     = "customers:read"
	ScopeCustomersWrite    = "customers:write"
	ScopeAppointmentsRead  = "appointments:read"
	ScopeAppointmentsWrite = "appointments:write"
	ScopeAuditRead         = "audit:read"
	ScopeAdmin             = "admin"
)

var knownScopes = map[string]bool{
	ScopeProductsRead:      true,
	ScopeProductsWrite:     true,
	ScopeOrdersRead:        true,
	ScopeOrdersWrite:       true,
	ScopeCustomersRead:     true,
	ScopeCustomersWrite:    true,
	ScopeAppointmentsRead:  true,
	ScopeAppointmentsWrite: true,
	ScopeAuditRead:         true,
	ScopeAdmin:             true,
}

// ValidScope reports whether s is one of the known capability names.
func ValidScope(s string) bool {
	return knownScopes[s]
}

// HasScope reports whether the granted set contains the required scope.
func HasScope(granted []string, required string) bool {
	for _, s := range granted {
		if s == required {
			return true
		}
	}
	return false
}
