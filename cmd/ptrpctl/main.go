package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ptrp-app/therapy-core/internal/config"
	"github.com/ptrp-app/therapy-core/internal/db"
	"github.com/ptrp-app/therapy-core/internal/model"
	"github.com/ptrp-app/therapy-core/internal/repository"
	"github.com/ptrp-app/therapy-core/internal/service"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:          "ptrpctl",
		Short:        "Local administration for the therapy program store",
		SilenceUsage: true,
	}
	root.AddCommand(initDBCmd(log), statusCmd(log), setupProfileCmd(log), importCmd(log))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func openStore(log zerolog.Logger) (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug().Str("driver", cfg.Driver).Msg("store opened")
	return gormDB, nil
}

func initDBCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Open the store and migrate the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openStore(log)
			if err != nil {
				return err
			}
			if err := model.AutoMigrate(gormDB); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			log.Info().Msg("schema migrated")
			return nil
		},
	}
}

func statusCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report configuration state and entity counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openStore(log)
			if err != nil {
				return err
			}

			educatorRepo := repository.NewGormEducatorRepository(gormDB)
			educatorSvc := service.NewEducatorService(educatorRepo, log)
			configSvc := service.NewConfigurationService(gormDB, educatorSvc, log)

			ctx := cmd.Context()
			fmt.Printf("configured: %v\n", configSvc.IsConfigured(ctx))

			for _, row := range []struct {
				name  string
				model any
			}{
				{"patients", &model.Patient{}},
				{"therapy projects", &model.TherapyProject{}},
				{"educators", &model.ProfessionalEducator{}},
			} {
				var count int64
				if err := gormDB.WithContext(ctx).Model(row.model).Count(&count).Error; err != nil {
					return err
				}
				fmt.Printf("%s: %d\n", row.name, count)
			}
			return nil
		},
	}
}

func setupProfileCmd(log zerolog.Logger) *cobra.Command {
	var (
		firstName      string
		lastName       string
		email          string
		phone          string
		dateOfBirth    string
		specialization string
		license        string
		hireDate       string
		role           string
	)

	cmd := &cobra.Command{
		Use:   "setup-profile",
		Short: "Create or replace the local user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			dob, err := time.Parse("2006-01-02", dateOfBirth)
			if err != nil {
				return fmt.Errorf("parse --date-of-birth: %w", err)
			}
			hire := time.Now().UTC()
			if hireDate != "" {
				if hire, err = time.Parse("2006-01-02", hireDate); err != nil {
					return fmt.Errorf("parse --hire-date: %w", err)
				}
			}

			gormDB, err := openStore(log)
			if err != nil {
				return err
			}
			if err := model.AutoMigrate(gormDB); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}

			educatorRepo := repository.NewGormEducatorRepository(gormDB)
			educatorSvc := service.NewEducatorService(educatorRepo, log)
			configSvc := service.NewConfigurationService(gormDB, educatorSvc, log)

			educator := &model.ProfessionalEducator{
				FirstName:      firstName,
				LastName:       lastName,
				Email:          email,
				PhoneNumber:    phone,
				DateOfBirth:    dob,
				Specialization: specialization,
				LicenseNumber:  license,
				HireDate:       hire,
				Role:           model.EducatorRole(role),
			}
			if err := configSvc.SetupUserProfile(cmd.Context(), educator); err != nil {
				return err
			}
			fmt.Printf("profile configured: %s\n", educator.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name (required)")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&dateOfBirth, "date-of-birth", "", "date of birth, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&specialization, "specialization", "", "professional specialization (required)")
	cmd.Flags().StringVar(&license, "license", "", "license number (required)")
	cmd.Flags().StringVar(&hireDate, "hire-date", "", "hire date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&role, "role", string(model.EducatorRoleEducator), "operational role: Coordinator or Educator")

	for _, name := range []string{"first-name", "last-name", "email", "phone", "date-of-birth", "specialization", "license"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func importCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "import <package.ptrp>",
		Short: "Import a configuration package and initialize the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := openStore(log)
			if err != nil {
				return err
			}

			educatorRepo := repository.NewGormEducatorRepository(gormDB)
			educatorSvc := service.NewEducatorService(educatorRepo, log)
			configSvc := service.NewConfigurationService(gormDB, educatorSvc, log)

			pkg, err := configSvc.ImportConfiguration(args[0])
			if err != nil {
				return err
			}
			if err := configSvc.InitializeDatabase(cmd.Context(), pkg); err != nil {
				return err
			}
			fmt.Printf("imported %s package for role %s\n", pkg.PackageType, pkg.UserRole)
			return nil
		},
	}
}
