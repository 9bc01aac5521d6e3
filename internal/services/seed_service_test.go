package services

import (
	"testing"
)

const seedFixture = `
users:
  - email: admin@example.com
    name: Admin
    fmno: "1001"
    roles: [ADMIN, EMPLOYEE]
  - email: worker@example.com
    fmno: "1002"
charge_codes:
  - code: alpha
    description: Alpha work
  - code: legacy
    description: Retired
    active: false
`

func TestSeedApplyIsIdempotent(t *testing.T) {
	seed, err := ParseSeedFile([]byte(seedFixture))
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	users := &stubUserRepo{}
	codes := &stubChargeCodeRepo{}
	service := NewSeedService(NewUserAdminService(users, nil), NewChargeCodeService(codes, nil))

	result, err := service.Apply("seed", seed)
	if err != nil {
		t.Fatalf("apply seed: %v", err)
	}
	if result.UsersCreated != 2 || result.ChargeCodesCreated != 2 || result.Skipped != 0 {
		t.Fatalf("unexpected first result %+v", result)
	}
	if result.TemporaryPasswords["worker@example.com"] == "" {
		t.Fatal("expected temporary password for seeded user")
	}
	if codes.codes[1].Code != "LEGACY" || codes.codes[1].IsActive {
		t.Fatalf("expected inactive LEGACY code, got %+v", codes.codes[1])
	}

	again, err := service.Apply("seed", seed)
	if err != nil {
		t.Fatalf("re-apply seed: %v", err)
	}
	if again.UsersCreated != 0 || again.ChargeCodesCreated != 0 || again.Skipped != 4 {
		t.Fatalf("unexpected second result %+v", again)
	}
}

func TestParseSeedFileRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseSeedFile([]byte("users: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
