package database

import (
	"fmt"
	"log"

	"masha/config"
	"masha/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the database connection, migrates the schema and seeds the
// three built-in permission rows when the table is empty.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.Permission{},
		&models.User{},
		&models.Month{},
		&models.Market{},
		&models.Mission{},
		&models.Inhibit{},
		&models.AccessToken{},
	); err != nil {
		return err
	}

	// Seed the three permission roles (only when the table is empty).
	var permCount int64
	DB.Model(&models.Permission{}).Count(&permCount)
	if permCount == 0 {
		perms := []models.Permission{
			{CodePermission: 1, PermissionName: models.PermissionAdmin},
			{CodePermission: 2, PermissionName: models.PermissionUser},
			{CodePermission: 3, PermissionName: models.PermissionClient},
		}
		if err := DB.Create(&perms).Error; err != nil {
			return fmt.Errorf("seed permissions: %w", err)
		}
		log.Println("seeded default permissions")
	}

	log.Println("database initialized")
	return nil
}

// GetDB returns the database handle.
func GetDB() *gorm.DB {
	return DB
}
