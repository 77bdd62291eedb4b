package employee

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned by ParseRole for names outside {admin, ops}.
var ErrUnknownRole = errors.New("unknown role")

// Role is the operator running the wizard. It is a closed set; every
// role-dependent decision reads the role's profile instead of comparing names.
type Role int

const (
	RoleAdmin Role = iota
	RoleOps
)

// Roles lists every role in declaration order.
var Roles = []Role{RoleAdmin, RoleOps}

type profile struct {
	name        string
	draftKey    string
	initialStep Step
	hasStep1    bool // Step1 is constructed, Next/Back exist
	basicInfo   bool // submission writes the basic-info record first
	identity    bool // details payload carries email + employee id
}

var profiles = [...]profile{
	RoleAdmin: {
		name:        "admin",
		draftKey:    "draft_admin",
		initialStep: Step1,
		hasStep1:    true,
		basicInfo:   true,
		identity:    true,
	},
	RoleOps: {
		name:        "ops",
		draftKey:    "draft_ops",
		initialStep: Step2,
	},
}

func (r Role) profile() profile {
	if r < 0 || int(r) >= len(profiles) {
		panic(fmt.Sprintf("employee: invalid role %d", int(r)))
	}
	return profiles[r]
}

// ParseRole maps "admin" or "ops" (case-insensitive) onto a Role.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Roles {
		if r.profile().name == name {
			return r, nil
		}
	}
	return RoleAdmin, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) String() string { return r.profile().name }

// DraftKey is the storage key for this role's draft. Distinct roles never
// share a key.
func (r Role) DraftKey() string { return r.profile().draftKey }

// InitialStep is the step a fresh draft starts on.
func (r Role) InitialStep() Step { return r.profile().initialStep }

// HasStep1 reports whether the role fills in basic info.
func (r Role) HasStep1() bool { return r.profile().hasStep1 }

// SubmitsBasicInfo reports whether submission writes a basic-info record.
func (r Role) SubmitsBasicInfo() bool { return r.profile().basicInfo }

// AttachesIdentity reports whether the details payload carries email and
// employee id.
func (r Role) AttachesIdentity() bool { return r.profile().identity }

// Other returns the role the "switch role" action moves to.
func (r Role) Other() Role {
	if r == RoleAdmin {
		return RoleOps
	}
	return RoleAdmin
}

// AllowsStep reports whether s can be shown to this role.
func (r Role) AllowsStep(s Step) bool {
	switch s {
	case Step1:
		return r.HasStep1()
	case Step2:
		return true
	default:
		return false
	}
}
