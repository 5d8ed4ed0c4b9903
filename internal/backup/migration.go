package backup

import "fmt"

// supportedBackupVersions lists the source_version strings this build
// knows how to migrate forward. Kept as a slice (not a single constant)
// so a second supported version can be added without reshaping the API.
var supportedBackupVersions = []string{"1.0"}

// MigrationManager upgrades older backup payloads to the current shape.
type MigrationManager struct{}

// NewMigrationManager constructs a MigrationManager.
func NewMigrationManager() *MigrationManager {
	return &MigrationManager{}
}

// SupportedVersions returns every source_version this build can migrate.
func (mm *MigrationManager) SupportedVersions() []string {
	return append([]string(nil), supportedBackupVersions...)
}

// NeedsMigration reports whether data's SourceVersion differs from the
// current version ("1.0").
func (mm *MigrationManager) NeedsMigration(data Data) bool {
	return data.Metadata.SourceVersion != "1.0"
}

// MigrateBackup upgrades data to the current version if its
// SourceVersion is a supported older one. There is currently only one
// supported version, so this is an identity migration that validates
// support; a second supported source version would add a conversion
// step here.
func (mm *MigrationManager) MigrateBackup(data Data) (Data, error) {
	if !mm.NeedsMigration(data) {
		return data, nil
	}
	if !mm.isSupported(data.Metadata.SourceVersion) {
		return Data{}, fmt.Errorf("backup: unsupported backup version %q", data.Metadata.SourceVersion)
	}
	data.Metadata.SourceVersion = "1.0"
	return data, nil
}

func (mm *MigrationManager) isSupported(version string) bool {
	for _, v := range supportedBackupVersions {
		if v == version {
			return true
		}
	}
	return false
}
