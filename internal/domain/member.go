package domain

import (
	"time"

	"github.com/totegamma/familyone"
)

// FamilyMember is a person in the local family tree.
type FamilyMember struct {
	ID          int64            `json:"id,omitempty"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Patronymic  string           `json:"patronymic,omitempty"`
	Gender      familyone.Gender `json:"gender"`
	BirthDate   string           `json:"birthDate"`
	PhoneNumber string           `json:"phoneNumber,omitempty"`
	Role        familyone.Role   `json:"role"`
	PhotoURI    string           `json:"photoUri,omitempty"`
	MaidenName  string           `json:"maidenName,omitempty"`
	FatherID    *int64           `json:"fatherId"`
	MotherID    *int64           `json:"motherId"`
	WeddingDate string           `json:"weddingDate,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// MemberPhoto is an image attached to a member.
type MemberPhoto struct {
	ID             int64  `json:"id,omitempty"`
	MemberID       int64  `json:"memberId"`
	PhotoURI       string `json:"photoUri"`
	DateAdded      int64  `json:"dateAdded"` // unix millis
	Description    string `json:"description,omitempty"`
	IsProfilePhoto bool   `json:"isProfilePhoto"`
	PerceptualHash string `json:"perceptualHash,omitempty"`
	ContentHash    string `json:"contentHash,omitempty"`
}

// NormalizeMemberDates brings birth and wedding dates into display form.
func NormalizeMemberDates(m FamilyMember) FamilyMember {
	m.BirthDate = familyone.NormalizeDate(m.BirthDate)
	m.WeddingDate = familyone.NormalizeDate(m.WeddingDate)
	return m
}

// SameParent compares two optional parent references.
func SameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
