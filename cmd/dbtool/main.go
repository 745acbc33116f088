// Command dbtool prepares the database for the dispatch service: it creates
// the configured database if it does not exist and migrates the schema.
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/pointrepo"
	"dispatch/internal/adapters/out/postgres/routerepo"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/lib/pq"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatalf("Error loading .env file")
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	sslMode := os.Getenv("DB_SSLMODE")

	createDBIfNotExists(host, port, user, password, dbName, sslMode)

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbName, sslMode)
	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("cannot connect to database %q: %v", dbName, err)
	}

	err = gormDB.AutoMigrate(
		&pointrepo.PointDTO{},
		&courierrepo.CourierDTO{},
		&orderrepo.OrderDTO{},
		&routerepo.RouteDTO{},
	)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Infof("database %q is ready", dbName)
}

// createDBIfNotExists connects to the maintenance database and creates the
// target one when missing. Concurrent runs tolerate the duplicate error.
func createDBIfNotExists(host, port, user, password, dbName, sslMode string) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		host, port, user, password, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("cannot connect to postgres: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(dbName)))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "duplicate_database" {
			return
		}
		log.Fatalf("cannot create database %q: %v", dbName, err)
	}
}
