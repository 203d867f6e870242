package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/data/redisStore"
	"github.com/avasanth/chatbot-ai-service/internal/data/store"
	"github.com/avasanth/chatbot-ai-service/internal/domain/jobModel"
	"github.com/redis/go-redis/v9"
)

func newTestJobStore(t *testing.T) (*store.RedisJobStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestJobStore(redisStore.NewTestStore(client)), mr
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	jobStore, mr := newTestJobStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:       jobID,
		TenantId: "tenant-a",
		JobType:  jobModel.JobTypeQuery,
		Status:   jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			Question: "How do I mock Redis?",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.JobPayload.Question != testJob.JobPayload.Question {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.Question, testJob.JobPayload.Question)
		}
		if retrievedJob.TenantId != "tenant-a" {
			t.Errorf("Tenant got %s, want tenant-a", retrievedJob.TenantId)
		}
	})

	t.Run("Ingest Report Roundtrip", func(t *testing.T) {
		ingestJob := testJob
		ingestJob.Id = "job_ingest_1"
		ingestJob.JobType = jobModel.JobTypeIngest
		ingestJob.JobPayload = jobModel.JobPayload{
			DocumentURLs: []string{"https://example.com/a.pdf"},
		}

		if err := jobStore.SaveJob(ctx, ingestJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
		got, found := jobStore.GetJob(ctx, ingestJob.Id)
		if !found {
			t.Fatal("ingest job not found after save")
		}
		if len(got.JobPayload.DocumentURLs) != 1 {
			t.Errorf("DocumentURLs got %v", got.JobPayload.DocumentURLs)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	jobStore, _ := newTestJobStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}

func TestInMemoryJobStore(t *testing.T) {
	memStore := store.InitInMemoryJobStore()
	ctx := context.Background()

	job := jobModel.Job{Id: "mem-job", Status: jobModel.JobStatusQueued}
	if err := memStore.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, found := memStore.GetJob(ctx, "mem-job")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Errorf("got %+v found=%v", got, found)
	}

	memStore.DeleteJob(ctx, "mem-job")
	if _, found := memStore.GetJob(ctx, "mem-job"); found {
		t.Error("job still present after delete")
	}
}
