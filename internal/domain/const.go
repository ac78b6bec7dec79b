package domain

type AuditAction string

const (
	AuditLocalExport        AuditAction = "local_export"
	AuditLocalImportMerge   AuditAction = "local_import_merge"
	AuditLocalImportReplace AuditAction = "local_import_replace"
	AuditBackupUpload       AuditAction = "backup_upload"
	AuditBackupDownload     AuditAction = "backup_download"
	AuditBackupRestore      AuditAction = "backup_restore"
	AuditBackupDelete       AuditAction = "backup_delete"
	AuditFaceSync           AuditAction = "face_sync"
)

type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

type PhotoAddResult string

const (
	PhotoSaved     PhotoAddResult = "saved"
	PhotoDuplicate PhotoAddResult = "duplicate"
)

// AuditChannel is the pub/sub channel audit records are published on.
const AuditChannel = "familyone.audit"
