package main

import (
	"fmt"
	"os"

	"tavernserver/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// マイグレーションを実行する関数
func AutoMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Tournament{},
		&models.Member{},
		&models.BanRequest{},
	)
	if err != nil {
		panic("Error migrating tables: " + err.Error())
	} else {
		fmt.Println("Tables created successfully")
	}
}

func main() {
	// 環境変数からデータベースの接続情報を取得
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := "host=" + host + " user=" + user + " dbname=" + dbname + " password=" + password + " sslmode=" + sslmode
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	AutoMigrateDB(db)
}
