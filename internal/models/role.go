package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

// Role is a member of the closed set of roles a user can hold.
type Role uint8

const (
	RoleEmployee Role = iota + 1
	RoleAdmin
)

// Capability is something a request may be authorized to do.
type Capability uint8

const (
	CapabilityLogTime Capability = iota + 1
	CapabilityAdminister
)

func AllRoles() []Role {
	return []Role{RoleEmployee, RoleAdmin}
}

func (role Role) String() string {
	switch role {
	case RoleEmployee:
		return "EMPLOYEE"
	case RoleAdmin:
		return "ADMIN"
	default:
		return fmt.Sprintf("Role(%d)", uint8(role))
	}
}

func ParseRole(raw string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "EMPLOYEE":
		return RoleEmployee, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// grants keeps roles independent: only EMPLOYEE logs time and only ADMIN
// administers, so an administrator who also logs time holds both roles.
func (role Role) grants(capability Capability) bool {
	switch role {
	case RoleEmployee:
		return capability == CapabilityLogTime
	case RoleAdmin:
		return capability == CapabilityAdminister
	default:
		return false
	}
}

func (role Role) bit() RoleSet {
	switch role {
	case RoleEmployee, RoleAdmin:
		return RoleSet(1) << (role - 1)
	default:
		return 0
	}
}

// RoleSet is a bit set over Role. The zero value holds no roles.
type RoleSet uint8

func NewRoleSet(roles ...Role) RoleSet {
	var set RoleSet
	for _, role := range roles {
		set = set.With(role)
	}
	return set
}

// ParseRoleSet parses role names; duplicates collapse, unknown names fail.
func ParseRoleSet(names []string) (RoleSet, error) {
	var set RoleSet
	for _, name := range names {
		role, err := ParseRole(name)
		if err != nil {
			return 0, err
		}
		set = set.With(role)
	}
	return set, nil
}

func (set RoleSet) With(role Role) RoleSet {
	return set | role.bit()
}

func (set RoleSet) Has(role Role) bool {
	bit := role.bit()
	return bit != 0 && set&bit == bit
}

func (set RoleSet) IsEmpty() bool {
	return len(set.Roles()) == 0
}

func (set RoleSet) Can(capability Capability) bool {
	for _, role := range set.Roles() {
		if role.grants(capability) {
			return true
		}
	}
	return false
}

func (set RoleSet) Roles() []Role {
	roles := make([]Role, 0, 2)
	for _, role := range AllRoles() {
		if set.Has(role) {
			roles = append(roles, role)
		}
	}
	return roles
}

func (set RoleSet) Strings() []string {
	roles := set.Roles()
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}
	return names
}

func (set RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(set.Strings())
}

func (set *RoleSet) UnmarshalJSON(data []byte) error {
	names := make([]string, 0)
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseRoleSet(names)
	if err != nil {
		return err
	}
	*set = parsed
	return nil
}

// Value stores the set as a JSON array of role names.
func (set RoleSet) Value() (driver.Value, error) {
	serialized, err := json.Marshal(set.Strings())
	if err != nil {
		return nil, err
	}
	return string(serialized), nil
}

func (set *RoleSet) Scan(value any) error {
	var raw []byte
	switch typed := value.(type) {
	case nil:
		*set = 0
		return nil
	case string:
		raw = []byte(typed)
	case []byte:
		raw = typed
	default:
		return fmt.Errorf("scan role set: unsupported type %T", value)
	}
	return set.UnmarshalJSON(raw)
}
