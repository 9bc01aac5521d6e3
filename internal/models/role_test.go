package models

import (
	"errors"
	"reflect"
	"testing"
)

func TestRoleSetCapabilities(t *testing.T) {
	tests := []struct {
		name       string
		roles      RoleSet
		logTime    bool
		administer bool
	}{
		{"employee", NewRoleSet(RoleEmployee), true, false},
		{"admin only", NewRoleSet(RoleAdmin), false, true},
		{"admin and employee", NewRoleSet(RoleAdmin, RoleEmployee), true, true},
		{"empty", RoleSet(0), false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.roles.Can(CapabilityLogTime); got != tc.logTime {
				t.Fatalf("Can(LogTime) = %v, want %v", got, tc.logTime)
			}
			if got := tc.roles.Can(CapabilityAdminister); got != tc.administer {
				t.Fatalf("Can(Administer) = %v, want %v", got, tc.administer)
			}
		})
	}
}

func TestParseRoleSet(t *testing.T) {
	roles, err := ParseRoleSet([]string{"admin", " EMPLOYEE ", "ADMIN"})
	if err != nil {
		t.Fatalf("parse roles: %v", err)
	}
	if want := []string{"EMPLOYEE", "ADMIN"}; !reflect.DeepEqual(roles.Strings(), want) {
		t.Fatalf("Strings() = %v, want %v", roles.Strings(), want)
	}
	if _, err := ParseRoleSet([]string{"OWNER"}); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestRoleSetStoresAsJSONArray(t *testing.T) {
	stored, err := NewRoleSet(RoleAdmin, RoleEmployee).Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if stored != `["EMPLOYEE","ADMIN"]` {
		t.Fatalf("unexpected stored value %v", stored)
	}

	var scanned RoleSet
	if err := scanned.Scan([]byte(`["ADMIN"]`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scanned != NewRoleSet(RoleAdmin) {
		t.Fatalf("unexpected scanned roles %v", scanned.Strings())
	}
	if err := scanned.Scan(42); err == nil {
		t.Fatal("expected unsupported scan type to fail")
	}
}
