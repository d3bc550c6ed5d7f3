package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/ncac/models"
)

func migrator(db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "19102026_create_nc_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.NonConformance{}, &models.CorrectiveAction{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.CorrectiveAction{}, &models.NonConformance{})
			},
		},
		{
			ID: "19102026_add_nc_revisions",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Revision{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.Revision{})
			},
		},
	})
}

func Migrations(db *gorm.DB) error {
	return migrator(db).Migrate()
}

// RollbackLastMigration undoes the most recent applied migration.
func RollbackLastMigration(db *gorm.DB) error {
	return migrator(db).RollbackLast()
}
