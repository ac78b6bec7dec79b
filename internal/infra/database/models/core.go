package models

import (
	"time"
)

type Member struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName   string    `json:"firstName" gorm:"type:text;not null"`
	LastName    string    `json:"lastName" gorm:"type:text;not null;index"`
	Patronymic  string    `json:"patronymic" gorm:"type:text"`
	Gender      string    `json:"gender" gorm:"type:text;not null;default:'MALE'"`
	BirthDate   string    `json:"birthDate" gorm:"type:text"`
	PhoneNumber string    `json:"phoneNumber" gorm:"type:text"`
	Role        string    `json:"role" gorm:"type:text;not null;default:'OTHER'"`
	PhotoURI    string    `json:"photoUri" gorm:"type:text"`
	MaidenName  string    `json:"maidenName" gorm:"type:text"`
	FatherID    *int64    `json:"fatherId" gorm:"index"`
	MotherID    *int64    `json:"motherId" gorm:"index"`
	WeddingDate string    `json:"weddingDate" gorm:"type:text"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate       time.Time `json:"mdate" gorm:"autoUpdateTime"`
}

type MemberPhoto struct {
	ID             int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	MemberID       int64  `json:"memberId" gorm:"not null;index"`
	Member         Member `json:"-" gorm:"foreignKey:MemberID;references:ID;constraint:OnDelete:CASCADE;"`
	PhotoURI       string `json:"photoUri" gorm:"type:text;not null"`
	DateAdded      int64  `json:"dateAdded" gorm:"not null;index"`
	Description    string `json:"description" gorm:"type:text"`
	IsProfilePhoto bool   `json:"isProfilePhoto" gorm:"type:boolean;not null;default:false"`
	PerceptualHash string `json:"perceptualHash" gorm:"type:text"`
	ContentHash    string `json:"contentHash" gorm:"type:text;index"`
}

type BackupAudit struct {
	ID      int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Action  string    `json:"action" gorm:"type:text;not null;index"`
	Details string    `json:"details" gorm:"type:text"`
	CDate   time.Time `json:"cdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp();index"`
}
