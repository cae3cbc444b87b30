package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/yourusername/quiz-portal/internal/config"
)

// fix-db снимает dirty-флаг golang-migrate после упавшей миграции.
// Без -force только печатает текущую версию.
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	force := flag.Int("force", -1, "migration version to force, clearing the dirty flag")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+cfg.Migrations.Path,
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatal(err)
	}

	current, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("No migrations have been applied yet.")
	case err != nil:
		log.Fatalf("Failed to read migration version: %v", err)
	default:
		fmt.Printf("Current migration version: %d (dirty: %t)\n", current, dirty)
	}

	if *force < 0 {
		return
	}

	fmt.Printf("Forcing migration version to %d to clean dirty state...\n", *force)
	if err := m.Force(*force); err != nil {
		log.Fatalf("Failed to force version: %v", err)
	}

	fmt.Println("Success! Dirty state cleaned. You can now run the app normally.")
}
