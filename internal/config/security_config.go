// config/security_config.go
package config

import "homecrm-backend/internal/domain"

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// RoutePolicy is what a route demands of the caller. Empty Roles or
// Divisions impose no constraint.
type RoutePolicy struct {
	Level     SecurityLevel
	Roles     []domain.Role
	Divisions []domain.Division
}

var (
	managers      = []domain.Role{domain.RoleOwner, domain.RoleAdmin}
	salesStaff    = []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleSales, domain.RoleBDC}
	projectStaff  = []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleSales, domain.RoleInstaller}
	radianceStaff = []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleSales}
	radianceField = []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleSales, domain.RoleInstaller}
	radiance      = []domain.Division{domain.DivisionRadiance}
	renovations   = []domain.Division{domain.DivisionRenovations}
)

// EndpointSecurityConfig maps route names to their requirements.
var EndpointSecurityConfig = map[string]RoutePolicy{
	// Auth - Public
	"auth.login":     {Level: SecurityPublic},
	"auth.bootstrap": {Level: SecurityPublic},

	// Auth - Access Protected
	"auth.me": {Level: SecurityAccess},

	// Users - Owner/Admin
	"users.list":   {Level: SecurityAccess, Roles: managers},
	"users.create": {Level: SecurityAccess, Roles: managers},
	"users.get":    {Level: SecurityAccess, Roles: managers},
	"users.update": {Level: SecurityAccess, Roles: managers},
	"users.delete": {Level: SecurityAccess, Roles: managers},

	// Contacts - any authenticated principal; visibility is scoped per record
	"contacts.list":   {Level: SecurityAccess},
	"contacts.get":    {Level: SecurityAccess},
	"contacts.create": {Level: SecurityAccess},
	"contacts.update": {Level: SecurityAccess},
	"contacts.delete": {Level: SecurityAccess, Roles: managers},

	// Projects - Renovations division
	"projects.list":     {Level: SecurityAccess, Divisions: renovations},
	"projects.get":      {Level: SecurityAccess, Divisions: renovations},
	"projects.create":   {Level: SecurityAccess, Roles: salesStaff, Divisions: renovations},
	"projects.update":   {Level: SecurityAccess, Roles: projectStaff, Divisions: renovations},
	"projects.add_note": {Level: SecurityAccess, Roles: projectStaff, Divisions: renovations},

	// Subscriptions - Radiance division
	"subscriptions.list":          {Level: SecurityAccess, Divisions: radiance},
	"subscriptions.get":           {Level: SecurityAccess, Divisions: radiance},
	"subscriptions.create":        {Level: SecurityAccess, Roles: radianceStaff, Divisions: radiance},
	"subscriptions.update":        {Level: SecurityAccess, Roles: radianceStaff, Divisions: radiance},
	"subscriptions.record_repair": {Level: SecurityAccess, Roles: radianceField, Divisions: radiance},
	"subscriptions.add_service":   {Level: SecurityAccess, Roles: radianceField, Divisions: radiance},
}

// GetRoutePolicy returns the policy for a route name
func GetRoutePolicy(route string) RoutePolicy {
	if policy, exists := EndpointSecurityConfig[route]; exists {
		return policy
	}
	// Unknown routes get the strictest policy
	return RoutePolicy{Level: SecurityAccess, Roles: managers}
}
