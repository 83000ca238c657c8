package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
	RoleOwner = "OWNER"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies maps roles to resource/action grants. Roles inherit downwards:
// OWNER > ADMIN > USER.
var policies = [][]string{
	{RoleUser, "leave", "read"},
	{RoleUser, "leave", "create"},
	{RoleUser, "leave", "cancel"},
	{RoleUser, "toil", "read"},
	{RoleUser, "toil", "create"},
	{RoleUser, "balance", "read"},

	{RoleAdmin, "leave", "approve"},
	{RoleAdmin, "toil", "approve"},
	{RoleAdmin, "user", "manage"},
	{RoleAdmin, "balance", "adjust"},
}

var groupings = [][]string{
	{RoleAdmin, RoleUser},
	{RoleOwner, RoleAdmin},
}

type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

// NewService builds an enforcer over the static role policy table. Policies
// are fixed at startup; there is no per-tenant reload in this system.
func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(role, resource, action)
}
