package repository

import (
	"context"
)

// AttemptSessionRepository хранит текущую попытку студента по главе
// (ключ attempt_ch_<chapter_id> в сессии студента)
type AttemptSessionRepository interface {
	// GetAttemptID возвращает id попытки; ok=false, если ключа нет
	GetAttemptID(ctx context.Context, studentID, chapterID uint) (attemptID uint, ok bool, err error)
	SetAttemptID(ctx context.Context, studentID, chapterID, attemptID uint) error
	Clear(ctx context.Context, studentID, chapterID uint) error
}
