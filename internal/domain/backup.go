package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/totegamma/familyone"
)

const (
	// CurrentSchemaVersion is written into every new archive.
	CurrentSchemaVersion = 1
	// MinSupportedSchemaVersion is the oldest archive schema Restore accepts.
	MinSupportedSchemaVersion = 1
)

// Archive entry names.
const (
	ManifestEntry     = "manifest.json"
	MembersEntry      = "members.json"
	MemberPhotosEntry = "member_photos.json"
	AssetsDir         = "assets/"
)

// AssetExtensions are tried in order when looking up an asset. New archives only use the first.
var AssetExtensions = []string{".jpg", ".jpeg", ".png"}

// AssetEntryName returns the entry name used when writing the asset with the given address.
func AssetEntryName(address string) string {
	return AssetsDir + address + AssetExtensions[0]
}

const memberKeyPrefix = "member_"

// MemberKey is the archive-local key of a member id.
func MemberKey(id int64) string {
	return memberKeyPrefix + strconv.FormatInt(id, 10)
}

// ParseMemberKey is the inverse of MemberKey.
func ParseMemberKey(key string) (int64, bool) {
	if !strings.HasPrefix(key, memberKeyPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(key[len(memberKeyPrefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// BackupMemberRecord is a store-independent projection of FamilyMember.
type BackupMemberRecord struct {
	BackupMemberKey     string           `json:"backupMemberKey"`
	FirstName           string           `json:"firstName"`
	LastName            string           `json:"lastName"`
	Patronymic          string           `json:"patronymic"`
	Gender              familyone.Gender `json:"gender"`
	BirthDate           string           `json:"birthDate"`
	Role                familyone.Role   `json:"role"`
	PhoneNumber         string           `json:"phoneNumber"`
	MaidenName          string           `json:"maidenName"`
	WeddingDate         string           `json:"weddingDate"`
	FatherBackupKey     *string          `json:"fatherBackupKey"`
	MotherBackupKey     *string          `json:"motherBackupKey"`
	ProfilePhotoAssetID *string          `json:"profilePhotoAssetId"`
}

type BackupPhotoRecord struct {
	BackupMemberKey string `json:"backupMemberKey"`
	PhotoAssetID    string `json:"photoAssetId"`
	DateAdded       int64  `json:"dateAdded"`
	Description     string `json:"description"`
	IsProfilePhoto  bool   `json:"isProfilePhoto"`
}

type ManifestCounts struct {
	Members      int `json:"members"`
	MemberPhotos int `json:"memberPhotos"`
	Assets       int `json:"assets"`
}

// Manifest describes one archive. SchemaVersion is a pointer so a missing value can be told apart from 0.
type Manifest struct {
	SchemaVersion  *int           `json:"schemaVersion"`
	CreatedAtUTC   string         `json:"createdAtUtc"`
	AppVersion     string         `json:"appVersion"`
	Compression    string         `json:"compression"`
	Counts         ManifestCounts `json:"counts"`
	ChecksumSHA256 string         `json:"checksumSha256"`
}

// ArchiveBuildResult is returned by a successful build.
type ArchiveBuildResult struct {
	File              []byte    `json:"-"`
	SchemaVersion     int       `json:"schemaVersion"`
	CreatedAt         time.Time `json:"createdAtUtc"`
	MembersCount      int       `json:"membersCount"`
	MemberPhotosCount int       `json:"memberPhotosCount"`
	AssetsCount       int       `json:"assetsCount"`
	SizeBytes         int64     `json:"sizeBytes"`
	ChecksumSHA256    string    `json:"checksumSha256"`
}

type RestoreReport struct {
	MembersInserted         int `json:"membersInserted"`
	MembersMatched          int `json:"membersMatched"`
	RelationsUpdated        int `json:"relationsUpdated"`
	PhotosAdded             int `json:"photosAdded"`
	PhotosSkippedDuplicates int `json:"photosSkippedDuplicates"`
	ProfilePhotosSet        int `json:"profilePhotosSet"`
	Errors                  int `json:"errors"`
}

// ImportReport summarizes a JSON member import.
type ImportReport struct {
	Inserted         int `json:"inserted"`
	Skipped          int `json:"skipped"`
	RelationsUpdated int `json:"relationsUpdated"`
}
