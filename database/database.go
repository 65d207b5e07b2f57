package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/config"
	"github.com/Anish-Karthik/OD-automation/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.College{},
		&models.Department{},
		&models.Teacher{},
		&models.Student{},
		&models.Subject{},
		&models.Form{},
		&models.Request{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
	return DB
}
