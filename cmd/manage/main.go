package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/yourusername/quiz-portal/internal/config"
	pgRepo "github.com/yourusername/quiz-portal/internal/repository/postgres"
	"github.com/yourusername/quiz-portal/internal/service"
	"github.com/yourusername/quiz-portal/pkg/database"
	"gorm.io/gorm"
)

const usage = `Usage:
  manage [-config path] import-bank <file.xlsx>
  manage [-config path] set-role <username> <student|teacher>
`

const commandTimeout = 10 * time.Minute

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Предупреждение: не удалось прочитать .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), true)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateDB(db, cfg.Migrations.Path); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch args[0] {
	case "import-bank":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = importBank(ctx, db, args[1])
	case "set-role":
		if len(args) != 3 {
			flag.Usage()
			os.Exit(2)
		}
		err = setRole(ctx, db, args[1], args[2])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

// importBank загружает вопросы из xlsx-файла и печатает ошибки строк
func importBank(ctx context.Context, db *gorm.DB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	catalogService := service.NewCatalogService(pgRepo.NewSubjectRepo(db), pgRepo.NewChapterRepo(db))
	importer := service.NewBankImporter(catalogService, pgRepo.NewQuestionRepo(db))

	report, err := importer.ImportWorkbook(ctx, file)
	if err != nil {
		return err
	}

	for _, rowErr := range report.Errors {
		fmt.Fprintln(os.Stderr, rowErr.Error())
	}
	fmt.Printf("Imported %d questions, %d rows rejected\n", report.Imported, len(report.Errors))
	if len(report.Errors) > 0 {
		return fmt.Errorf("%d rows rejected", len(report.Errors))
	}
	return nil
}

func setRole(ctx context.Context, db *gorm.DB, username, role string) error {
	user, err := service.NewUserService(pgRepo.NewUserRepo(db)).SetRole(ctx, username, role)
	if err != nil {
		return err
	}
	fmt.Printf("User %s now has role %s\n", user.Username, user.Role)
	return nil
}
