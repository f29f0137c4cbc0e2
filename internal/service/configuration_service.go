package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ptrp-app/therapy-core/internal/model"
)

// PackageExtension is the file extension of cross-instance sync packages.
const PackageExtension = ".ptrp"

// ConfigurationPackage is the decoded content of an imported sync package.
// The payload stays opaque; the signature scheme is not implemented yet.
type ConfigurationPackage struct {
	PackageType string
	UserRole    model.EducatorRole
	UserName    string
	ExportDate  time.Time
	Payload     json.RawMessage
}

// ConfigurationService handles first-run detection, package import and
// local profile bootstrap.
type ConfigurationService struct {
	db        *gorm.DB
	educators *EducatorService
	log       zerolog.Logger
}

func NewConfigurationService(db *gorm.DB, educators *EducatorService, log zerolog.Logger) *ConfigurationService {
	return &ConfigurationService{db: db, educators: educators, log: log}
}

// IsConfigured reports whether the store is reachable and a local user
// profile exists. Any failure counts as "not configured".
func (s *ConfigurationService) IsConfigured(ctx context.Context) bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return false
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.ProfessionalEducator{}).
		Where("is_current_user = ?", true).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// ValidatePackage checks that the file exists and carries the package
// extension. The HMAC signature check is not implemented yet; until then
// a well-named existing file passes.
func (s *ConfigurationService) ValidatePackage(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if !strings.EqualFold(filepath.Ext(path), PackageExtension) {
		return false, nil
	}
	return true, nil
}

// ImportConfiguration reads a sync package. The package type is derived
// from the file name prefix: "admin…" configures a coordinator profile,
// "appointments…" an educator profile.
func (s *ConfigurationService) ImportConfiguration(path string) (*ConfigurationPackage, error) {
	ok, err := s.ValidatePackage(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("invalid configuration package: %s", path)
	}

	name := strings.ToLower(filepath.Base(path))
	var pkg ConfigurationPackage
	switch {
	case strings.HasPrefix(name, "admin"):
		pkg.PackageType = "admin"
		pkg.UserRole = model.EducatorRoleCoordinator
		pkg.UserName = "Lead Coordinator"
	case strings.HasPrefix(name, "appointments"):
		pkg.PackageType = "appointments"
		pkg.UserRole = model.EducatorRoleEducator
		pkg.UserName = "Professional Educator"
	default:
		return nil, fmt.Errorf("invalid package name %q: must start with 'admin' or 'appointments'", filepath.Base(path))
	}
	pkg.ExportDate = time.Now().UTC()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// Payload decoding waits on the signature scheme; keep the raw bytes
	// if they happen to be JSON, otherwise drop them.
	if json.Valid(raw) {
		pkg.Payload = raw
	}

	s.log.Info().Str("package_type", pkg.PackageType).Str("path", path).Msg("configuration package imported")
	return &pkg, nil
}

// InitializeDatabase migrates the schema and records the imported package.
func (s *ConfigurationService) InitializeDatabase(ctx context.Context, pkg *ConfigurationPackage) error {
	db := s.db.WithContext(ctx)

	if err := model.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	record := model.ConfigurationRecord{
		ID:          uuid.New(),
		PackageType: pkg.PackageType,
		UserRole:    string(pkg.UserRole),
		UserName:    pkg.UserName,
		ExportDate:  pkg.ExportDate,
		Payload:     datatypes.JSON(pkg.Payload),
		ImportedAt:  time.Now().UTC(),
	}
	if err := db.Create(&record).Error; err != nil {
		return fmt.Errorf("record configuration import: %w", err)
	}

	s.log.Info().Str("package_type", pkg.PackageType).Msg("database initialized")
	return nil
}

// SetupUserProfile stores the educator as the local profile. Any educator
// previously marked as the current user loses the flag first, keeping the
// single-profile invariant.
func (s *ConfigurationService) SetupUserProfile(ctx context.Context, educator *model.ProfessionalEducator) error {
	current, err := s.educators.FindCurrentUser(ctx)
	if err != nil {
		return err
	}
	if current != nil && current.ID != educator.ID {
		current.IsCurrentUser = false
		if err := s.educators.Update(ctx, current); err != nil {
			return err
		}
	}

	educator.IsCurrentUser = true
	if educator.Role == "" {
		educator.Role = model.EducatorRoleEducator
	}

	exists := false
	if educator.ID != uuid.Nil {
		exists, err = s.educators.Exists(ctx, educator.ID)
		if err != nil {
			return err
		}
	}
	if exists {
		err = s.educators.Update(ctx, educator)
	} else {
		err = s.educators.Add(ctx, educator)
	}
	if err != nil {
		return err
	}

	s.log.Info().Stringer("educator_id", educator.ID).Msg("local user profile configured")
	return nil
}
