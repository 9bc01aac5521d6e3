package services

import (
	"errors"
	"fmt"
	"log"

	"gopkg.in/yaml.v3"
)

// SeedFile lists users and charge codes to create when missing.
type SeedFile struct {
	Users []struct {
		Email string   `yaml:"email"`
		Name  string   `yaml:"name"`
		FMNO  string   `yaml:"fmno"`
		Roles []string `yaml:"roles"`
	} `yaml:"users"`
	ChargeCodes []struct {
		Code        string `yaml:"code"`
		Description string `yaml:"description"`
		Active      *bool  `yaml:"active"`
	} `yaml:"charge_codes"`
}

type SeedResult struct {
	UsersCreated       int
	ChargeCodesCreated int
	Skipped            int
	// TemporaryPasswords maps new user emails to their one-time passwords.
	TemporaryPasswords map[string]string
}

func ParseSeedFile(data []byte) (SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}

type SeedService struct {
	users *UserAdminService
	codes *ChargeCodeService
}

func NewSeedService(users *UserAdminService, codes *ChargeCodeService) *SeedService {
	return &SeedService{users: users, codes: codes}
}

// Apply creates every record of seed that does not exist yet. Running it twice is harmless.
func (service *SeedService) Apply(actorID string, seed SeedFile) (SeedResult, error) {
	result := SeedResult{TemporaryPasswords: make(map[string]string)}

	for _, user := range seed.Users {
		created, err := service.users.Create(actorID, UserInput{
			Email: user.Email,
			Name:  user.Name,
			FMNO:  user.FMNO,
			Roles: user.Roles,
		})
		if errors.Is(err, ErrUserAlreadyExists) {
			log.Printf("seed: user %s already exists, skipping", user.Email)
			result.Skipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("seed user %s: %w", user.Email, err)
		}
		result.UsersCreated++
		result.TemporaryPasswords[created.User.Email] = created.TemporaryPassword
	}

	for _, code := range seed.ChargeCodes {
		_, err := service.codes.Create(actorID, ChargeCodeInput{
			Code:        code.Code,
			Description: code.Description,
			IsActive:    code.Active,
		})
		if errors.Is(err, ErrChargeCodeExists) {
			log.Printf("seed: charge code %s already exists, skipping", NormalizeChargeCode(code.Code))
			result.Skipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("seed charge code %s: %w", code.Code, err)
		}
		result.ChargeCodesCreated++
	}
	return result, nil
}
