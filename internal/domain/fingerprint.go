package domain

import (
	"strings"

	"github.com/totegamma/familyone"
)

// Identity is the subset of member fields that decides whether two records are the same person.
type Identity struct {
	FirstName  string
	LastName   string
	Patronymic string
	BirthDate  string
	Role       familyone.Role
}

func (m FamilyMember) Identity() Identity {
	return Identity{
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Patronymic: m.Patronymic,
		BirthDate:  m.BirthDate,
		Role:       m.Role,
	}
}

func (r BackupMemberRecord) Identity() Identity {
	return Identity{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Patronymic: r.Patronymic,
		BirthDate:  r.BirthDate,
		Role:       r.Role,
	}
}

// Fingerprint is last|first|patronymic|birthdate|role with names trimmed and lowercased
// and the birth date in DD.MM.YYYY.
func Fingerprint(id Identity) string {
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(id.LastName)),
		strings.ToLower(strings.TrimSpace(id.FirstName)),
		strings.ToLower(strings.TrimSpace(id.Patronymic)),
		familyone.NormalizeDate(id.BirthDate),
		string(id.Role),
	}, "|")
}
