package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// AttemptSessionRepo реализует repository.AttemptSessionRepository.
// Хранит id текущей попытки под ключом session:<student_id>:attempt_ch_<chapter_id>.
type AttemptSessionRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewAttemptSessionRepo создает хранилище указателей на попытки
func NewAttemptSessionRepo(client redis.UniversalClient, ttl time.Duration) (*AttemptSessionRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for AttemptSessionRepo")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("attempt session TTL must be positive, got %s", ttl)
	}
	return &AttemptSessionRepo{client: client, ttl: ttl}, nil
}

// AttemptSessionKey возвращает ключ указателя на попытку студента по главе
func AttemptSessionKey(studentID, chapterID uint) string {
	return fmt.Sprintf("session:%d:attempt_ch_%d", studentID, chapterID)
}

// GetAttemptID возвращает id попытки. Значение, которое не разбирается как id, считается отсутствующим.
func (r *AttemptSessionRepo) GetAttemptID(ctx context.Context, studentID, chapterID uint) (uint, bool, error) {
	val, err := r.client.Get(ctx, AttemptSessionKey(studentID, chapterID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return 0, false, nil
	}
	return uint(id), true, nil
}

// SetAttemptID запоминает попытку и продлевает TTL
func (r *AttemptSessionRepo) SetAttemptID(ctx context.Context, studentID, chapterID, attemptID uint) error {
	return r.client.Set(ctx, AttemptSessionKey(studentID, chapterID), attemptID, r.ttl).Err()
}

// Clear удаляет указатель на попытку
func (r *AttemptSessionRepo) Clear(ctx context.Context, studentID, chapterID uint) error {
	return r.client.Del(ctx, AttemptSessionKey(studentID, chapterID)).Err()
}
