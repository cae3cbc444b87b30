package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quiz-portal/internal/domain/entity"
	"github.com/yourusername/quiz-portal/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
)

// Колонки листа банка вопросов: Subject, Chapter, Question, Image, Option 1..6, Correct
const (
	bankColSubject = iota
	bankColChapter
	bankColQuestion
	bankColImage
	bankColFirstOption
)

const (
	bankMaxOptions = 6
	bankColCorrect = bankColFirstOption + bankMaxOptions
	bankMinOptions = 2
)

// RowError - ошибка строки листа (номер строки как в Excel, с 1)
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ImportReport - итог импорта банка вопросов
type ImportReport struct {
	Imported int
	Errors   []*RowError
}

// BankImporter загружает вопросы из xlsx-листа
type BankImporter struct {
	catalog      *CatalogService
	questionRepo repository.QuestionRepository
}

// NewBankImporter создает новый импортер банка вопросов
func NewBankImporter(catalog *CatalogService, questionRepo repository.QuestionRepository) *BankImporter {
	return &BankImporter{
		catalog:      catalog,
		questionRepo: questionRepo,
	}
}

// ImportWorkbook читает первый лист книги. Строка заголовка (Subject в первой ячейке) пропускается.
// Ошибочные строки попадают в отчет, остальные импортируются.
func (b *BankImporter) ImportWorkbook(ctx context.Context, r io.Reader) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[BankImporter] Ошибка закрытия книги: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrValidation)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	report := &ImportReport{}
	for i, row := range rows {
		rowNum := i + 1
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "subject") {
			continue
		}
		if isBlankRow(row) {
			continue
		}

		if err := b.importRow(ctx, row); err != nil {
			report.Errors = append(report.Errors, &RowError{Row: rowNum, Err: err})
			continue
		}
		report.Imported++
	}

	log.Printf("[BankImporter] Импортировано вопросов: %d, ошибок: %d", report.Imported, len(report.Errors))
	return report, nil
}

func (b *BankImporter) importRow(ctx context.Context, row []string) error {
	parsed, err := parseBankRow(row)
	if err != nil {
		return err
	}

	chapter, err := b.catalog.FindOrCreateChapter(ctx, parsed.subject, parsed.chapter)
	if err != nil {
		return fmt.Errorf("failed to resolve chapter: %w", err)
	}

	parsed.question.ChapterID = chapter.ID
	if err := b.questionRepo.CreateWithOptions(ctx, parsed.question); err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

type bankRow struct {
	subject  string
	chapter  string
	question *entity.Question
}

func parseBankRow(row []string) (*bankRow, error) {
	subject := cell(row, bankColSubject)
	chapter := cell(row, bankColChapter)
	text := cell(row, bankColQuestion)
	image := cell(row, bankColImage)

	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", apperrors.ErrValidation)
	}
	if chapter == "" {
		return nil, fmt.Errorf("%w: chapter is required", apperrors.ErrValidation)
	}
	if text == "" && image == "" {
		return nil, fmt.Errorf("%w: question needs text or image", apperrors.ErrValidation)
	}

	options := make([]entity.Option, 0, bankMaxOptions)
	// Номер колонки "Option N" -> индекс в options (пустые колонки пропускаются)
	byNumber := make(map[int]int, bankMaxOptions)
	for n := 1; n <= bankMaxOptions; n++ {
		if optionText := cell(row, bankColFirstOption+n-1); optionText != "" {
			byNumber[n] = len(options)
			options = append(options, entity.Option{Text: optionText})
		}
	}
	if len(options) < bankMinOptions {
		return nil, fmt.Errorf("%w: at least %d options are required, got %d", apperrors.ErrValidation, bankMinOptions, len(options))
	}

	correct, err := strconv.Atoi(cell(row, bankColCorrect))
	idx, ok := byNumber[correct]
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: correct must name a filled option column (1..%d), got %q",
			apperrors.ErrValidation, bankMaxOptions, cell(row, bankColCorrect))
	}
	options[idx].IsCorrect = true

	return &bankRow{
		subject:  subject,
		chapter:  chapter,
		question: &entity.Question{
			Text:      text,
			ImagePath: image,
			Options:   options,
		},
	}, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
