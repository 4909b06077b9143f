package repository

import (
	"context"
	"testing"
	"time"

	"github.com/senyabanana/rentr-service/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisJobRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisJobRepository(client), mr
}

func TestRedisJobRepository(t *testing.T) {
	runJobRepositorySuite(t, func(t *testing.T) JobRepository {
		repo, _ := newRedisRepo(t)
		return repo
	})
}

func TestRedisJobRepository_StorageLayout(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	job := newJob("Replace Circuit Breaker", models.Electrical, time.Now().UTC())
	require.NoError(t, repo.CreateJob(ctx, job))

	assert.True(t, mr.Exists(redisJobKey(job.ID)))
	members, err := mr.ZMembers(redisJobIndexKey)
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, members)

	assert.ErrorIs(t, repo.CreateJob(ctx, job), ErrConflict)

	require.NoError(t, repo.DeleteJob(ctx, job.ID, nil))
	assert.False(t, mr.Exists(redisJobKey(job.ID)))
}

func TestRedisJobRepository_SkipsDanglingIndexEntries(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	job := newJob("Fix Flickering Lights", models.Electrical, time.Now().UTC())
	require.NoError(t, repo.CreateJob(ctx, job))
	_, err := mr.ZAdd(redisJobIndexKey, 1, "ghost")
	require.NoError(t, err)

	jobs, err := repo.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, ids(jobs))
}

func TestRedisJobRepository_CreateLeavesNoUnindexedJob(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(redisJobIndexKey, "not a sorted set"))

	job := newJob("Install Water Heater", models.Plumbing, time.Now().UTC())
	err := repo.CreateJob(ctx, job)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.False(t, mr.Exists(redisJobKey(job.ID)))

	mr.Del(redisJobIndexKey)
	require.NoError(t, repo.CreateJob(ctx, job))
	jobs, err := repo.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, ids(jobs))
}
