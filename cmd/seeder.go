package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/company-directory/internal"
	"github.com/frahmantamala/company-directory/internal/app"
	"github.com/frahmantamala/company-directory/internal/companyposition"
	appDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/app"
	positionDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/companyposition"
	departmentDatamodel "github.com/frahmantamala/company-directory/internal/core/datamodel/department"
	"github.com/frahmantamala/company-directory/internal/department"
	"github.com/frahmantamala/company-directory/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedDepartments = []string{"Engineering", "Finance", "Human Resources", "Marketing", "Operations"}
	seedPositions   = []string{"Intern", "Analyst", "Developer", "Senior Developer", "Manager", "Director"}
	seedApps        = []app.CreateAppDTO{
		{Name: "Slack", URL: "https://slack.com"},
		{Name: "Jira", URL: "https://www.atlassian.com/software/jira"},
		{Name: "GitHub", URL: "https://github.com"},
		{Name: "Google Workspace", URL: "https://workspace.google.com"},
	}
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample departments, company positions and apps.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lg := logger.LoggerWrapper()

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx := context.Background()
		if clearData {
			if err := clearSeeded(ctx, gdb); err != nil {
				log.Fatalf("failed to clear seeded data: %v", err)
			}
			fmt.Println("Cleared previously seeded rows")
		}

		services := NewServices(cfg, gdb, db, lg)

		for _, name := range seedDepartments {
			_, err := services.Department.CreateDepartment(ctx, department.CreateDepartmentDTO{Name: name}, 0)
			reportSeed("department", name, err)
		}
		for _, name := range seedPositions {
			_, err := services.CompanyPosition.CreatePosition(ctx, companyposition.CreatePositionDTO{Name: name}, 0)
			reportSeed("company position", name, err)
		}
		for _, dto := range seedApps {
			_, err := services.App.CreateApp(ctx, dto, 0)
			reportSeed("app", dto.Name, err)
		}
	},
}

// reportSeed treats a duplicate name as already seeded.
func reportSeed(kind, name string, err error) {
	switch {
	case err == nil:
		fmt.Printf("Seeded %s: %s\n", kind, name)
	case internal.IsType(err, internal.ErrorTypeConflict):
		fmt.Printf("%s %q already exists; skipped\n", kind, name)
	default:
		log.Fatalf("failed to seed %s %q: %v", kind, name, err)
	}
}

// clearSeeded soft-deletes the rows the seeder creates, so they can be
// created again.
func clearSeeded(ctx context.Context, gdb *gorm.DB) error {
	names := make([]string, 0, len(seedApps))
	for _, a := range seedApps {
		names = append(names, a.Name)
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&departmentDatamodel.Department{}).
			Where("name IN ? AND deleted = ?", seedDepartments, false).
			Update("deleted", true).Error; err != nil {
			return err
		}
		if err := tx.Model(&positionDatamodel.CompanyPosition{}).
			Where("name IN ? AND deleted = ?", seedPositions, false).
			Update("deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&appDatamodel.App{}).
			Where("name IN ? AND deleted = ?", names, false).
			Updates(map[string]interface{}{"deleted": true, "active": 0}).Error
	})
}
