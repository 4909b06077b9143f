package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/rentr-service/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	redisJobPrefix   = "rentr:job:"
	redisJobIndexKey = "rentr:jobs"
)

func redisJobKey(jobId string) string { return redisJobPrefix + jobId }

// RedisJobRepository - реализация JobRepository поверх Redis.
// Работа хранится JSON-документом, порядок создания - в sorted set.
// Изменения выполняются через WATCH/MULTI, проигравшая гонку операция получает ErrConflict.
type RedisJobRepository struct {
	client redis.UniversalClient
}

var _ JobRepository = (*RedisJobRepository)(nil)

// NewRedisJobRepository создаёт новый экземпляр RedisJobRepository.
func NewRedisJobRepository(client redis.UniversalClient) *RedisJobRepository {
	return &RedisJobRepository{client: client}
}

// ListJobs возвращает список работ, новые первыми.
func (r *RedisJobRepository) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	ids, err := r.client.ZRevRange(ctx, redisJobIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read job index: %w", err)
	}
	if len(ids) == 0 {
		return []models.Job{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, redisJobKey(id))
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	jobs := make([]models.Job, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		job, err := decodeRedisJob([]byte(s))
		if err != nil {
			return nil, err
		}
		if filter.Matches(job) {
			jobs = append(jobs, *job)
		}
	}
	return paginate(sortJobs(jobs), filter), nil
}

// GetJob возвращает работу по ID.
func (r *RedisJobRepository) GetJob(ctx context.Context, jobId string) (*models.Job, error) {
	data, err := r.client.Get(ctx, redisJobKey(jobId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return decodeRedisJob(data)
}

// CreateJob сохраняет новую работу. Документ и запись индекса пишутся одной транзакцией.
func (r *RedisJobRepository) CreateJob(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	key := redisJobKey(job.ID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check job: %w", err)
		}
		if exists > 0 {
			return ErrConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, redisJobIndexKey, redis.Z{Score: float64(job.CreatedAt.UnixMilli()), Member: job.ID})
			return nil
		})
		if err != nil && !errors.Is(err, redis.TxFailedErr) {
			// EXEC не откатывает уже выполненные команды.
			_ = r.client.Del(context.WithoutCancel(ctx), key).Err()
		}
		return err
	}, key)
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return ErrConflict
	case errors.Is(err, ErrConflict):
		return err
	case err != nil:
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// UpdateJob применяет mutate в транзакции с WATCH на ключ работы.
func (r *RedisJobRepository) UpdateJob(ctx context.Context, jobId string, mutate MutateFunc) (*models.Job, error) {
	key := redisJobKey(jobId)
	var updated *models.Job

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrJobNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get job: %w", err)
		}
		current, err := decodeRedisJob(data)
		if err != nil {
			return err
		}

		next := current.Clone()
		if err := applyMutation(next, mutate); err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.Version = current.Version + 1
		next.UpdatedAt = time.Now().UTC()

		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode job: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = next
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteJob удаляет работу, если check не вернул ошибку.
func (r *RedisJobRepository) DeleteJob(ctx context.Context, jobId string, check func(job *models.Job) error) error {
	key := redisJobKey(jobId)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrJobNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get job: %w", err)
		}
		if check != nil {
			current, err := decodeRedisJob(data)
			if err != nil {
				return err
			}
			if err := check(current); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, redisJobIndexKey, jobId)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

func decodeRedisJob(data []byte) (*models.Job, error) {
	var job models.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	if job.Applicants == nil {
		job.Applicants = []models.Application{}
	}
	return &job, nil
}
