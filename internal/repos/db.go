package repos

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func OpenDB(dsn string) (*sqlx.DB, error) {
	memory := strings.Contains(dsn, ":memory:")
	if !memory && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			return nil, err
		}
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}
	if err := seedCatalog(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	// m.Close would close db as well
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

// seedCatalog inserts demo items once, when the catalog is empty.
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM catalog_items`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog items")
	now := time.Now().UTC()
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	items := []struct {
		id, name, desc, category, status string
		price                            int64
		stock                            int
	}{
		{"ihram-001", "Kain Ihram Premium", "Sepasang kain ihram handuk tebal", "equipment", "active", 150000, 20},
		{"sabuk-001", "Sabuk Ihram", "Sabuk dengan kantong resleting", "equipment", "active", 50000, 15},
		{"tas-001", "Tas Paspor Leher", "Tas kecil untuk paspor dan dokumen", "equipment", "active", 45000, 1},
		{"sajadah-001", "Sajadah Travel", "Sajadah lipat ringan", "souvenir", "active", 85000, 10},
		{"kurma-001", "Kurma Ajwa 1kg", "Kurma ajwa Madinah", "food", "active", 250000, 8},
		{"tasbih-001", "Tasbih Kayu Kokka", "Tasbih 99 butir", "souvenir", "inactive", 60000, 5},
	}
	for _, it := range items {
		tx.MustExec(`
			INSERT INTO catalog_items(id,name,description,price,stock,category,status,image,created_at,updated_at)
			VALUES(?,?,?,?,?,?,?,'',?,?)
		`, it.id, it.name, it.desc, it.price, it.stock, it.category, it.status, now, now)
	}
	return tx.Commit()
}

// seedUsers ensures demo jamaah and one admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-aisyah", "aisyah@jamaahmart.test", "Aisyah", "JAMAAH", "Passw0rd!"),
		mk("u-budi", "budi@jamaahmart.test", "Budi", "JAMAAH", "Passw0rd!"),
		mk("u-admin", "admin@jamaahmart.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
