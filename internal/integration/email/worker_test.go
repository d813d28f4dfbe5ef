// Package email provides email sending functionality.
package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/integration/email/templates"
)

// fakeEmailQueue is an in-memory queue repository for worker tests.
type fakeEmailQueue struct {
	jobs []*entity.EmailJob
}

func (q *fakeEmailQueue) Create(ctx context.Context, job *entity.EmailJob) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeEmailQueue) GetPendingJobs(ctx context.Context, limit int) ([]*entity.EmailJob, error) {
	pending := make([]*entity.EmailJob, 0)
	for _, job := range q.jobs {
		if job.Status == entity.EmailStatusPending {
			pending = append(pending, job)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (q *fakeEmailQueue) Update(ctx context.Context, job *entity.EmailJob) error {
	return nil
}

func (q *fakeEmailQueue) GetByID(ctx context.Context, id uuid.UUID) (*entity.EmailJob, error) {
	for _, job := range q.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, errors.New("not found")
}

func (q *fakeEmailQueue) GetByRecipient(ctx context.Context, email string) ([]*entity.EmailJob, error) {
	matches := make([]*entity.EmailJob, 0)
	for _, job := range q.jobs {
		if job.RecipientEmail == email {
			matches = append(matches, job)
		}
	}
	return matches, nil
}

func (q *fakeEmailQueue) DeleteOldSentJobs(ctx context.Context, olderThanDays int) (int64, error) {
	return 0, nil
}

func queueAlertInput() adapter.QueueBudgetAlertInput {
	return adapter.QueueBudgetAlertInput{
		UserEmail:    "user@example.com",
		UserName:     "Test User",
		CategoryName: "Groceries",
		AccountName:  "Checking",
		Spent:        "550.00",
		Limit:        "500.00",
		Percentage:   "110.0",
		PeriodEnd:    "2025-03-31",
	}
}

func newBudgetAlertJob() *entity.EmailJob {
	return entity.NewEmailJob(
		entity.TemplateBudgetAlert,
		"user@example.com",
		"Test User",
		"Budget exceeded: Groceries - BudgetWise",
		map[string]interface{}{
			"user_name":     "Test User",
			"category_name": "Groceries",
			"account_name":  "Checking",
			"spent":         "550.00",
			"limit":         "500.00",
			"percentage":    "110.0",
			"period_end":    "2025-03-31",
		},
	)
}

func newTestWorker(t *testing.T, queue *fakeEmailQueue, sender *MockEmailSender) *Worker {
	t.Helper()

	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return NewWorker(queue, sender, renderer, DefaultWorkerConfig())
}

func TestWorker_ProcessNow(t *testing.T) {
	ctx := context.Background()

	t.Run("sends a pending budget alert job", func(t *testing.T) {
		queue := &fakeEmailQueue{}
		sender := NewMockEmailSender()
		worker := newTestWorker(t, queue, sender)

		job := newBudgetAlertJob()
		queue.jobs = append(queue.jobs, job)

		worker.ProcessNow(ctx)

		if job.Status != entity.EmailStatusSent {
			t.Fatalf("expected status %s, got %s", entity.EmailStatusSent, job.Status)
		}
		if len(sender.SentEmails) != 1 {
			t.Fatalf("expected 1 sent email, got %d", len(sender.SentEmails))
		}

		sent := sender.SentEmails[0]
		if sent.To != "user@example.com" {
			t.Errorf("expected recipient user@example.com, got %s", sent.To)
		}
		if !strings.Contains(sent.HTML, "Groceries") {
			t.Error("expected rendered HTML to mention the category")
		}
		if !strings.Contains(sent.Text, "550.00") {
			t.Error("expected rendered text to mention the spent amount")
		}
	})

	t.Run("does nothing when the queue is empty", func(t *testing.T) {
		queue := &fakeEmailQueue{}
		sender := NewMockEmailSender()
		worker := newTestWorker(t, queue, sender)

		worker.ProcessNow(ctx)

		if len(sender.SentEmails) != 0 {
			t.Errorf("expected no sent emails, got %d", len(sender.SentEmails))
		}
	})

	t.Run("schedules a retry after a temporary failure", func(t *testing.T) {
		queue := &fakeEmailQueue{}
		sender := NewMockEmailSender()
		sender.SetFailure(errors.New("connection reset"), false)
		worker := newTestWorker(t, queue, sender)

		job := newBudgetAlertJob()
		queue.jobs = append(queue.jobs, job)

		worker.ProcessNow(ctx)

		if job.Status != entity.EmailStatusPending {
			t.Fatalf("expected status %s, got %s", entity.EmailStatusPending, job.Status)
		}
		if job.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", job.Attempts)
		}
	})

	t.Run("fails permanently on a permanent send error", func(t *testing.T) {
		queue := &fakeEmailQueue{}
		sender := NewMockEmailSender()
		sender.SetFailure(errors.New("invalid recipient"), true)
		worker := newTestWorker(t, queue, sender)

		job := newBudgetAlertJob()
		queue.jobs = append(queue.jobs, job)

		worker.ProcessNow(ctx)

		if job.Status != entity.EmailStatusFailed {
			t.Fatalf("expected status %s, got %s", entity.EmailStatusFailed, job.Status)
		}
	})

	t.Run("fails permanently on an unknown template type", func(t *testing.T) {
		queue := &fakeEmailQueue{}
		sender := NewMockEmailSender()
		worker := newTestWorker(t, queue, sender)

		job := entity.NewEmailJob(
			entity.EmailTemplateType("carrier_pigeon"),
			"user@example.com",
			"Test User",
			"subject",
			map[string]interface{}{},
		)
		queue.jobs = append(queue.jobs, job)

		worker.ProcessNow(ctx)

		if job.Status != entity.EmailStatusFailed {
			t.Fatalf("expected status %s, got %s", entity.EmailStatusFailed, job.Status)
		}
		if len(sender.SentEmails) != 0 {
			t.Errorf("expected no sent emails, got %d", len(sender.SentEmails))
		}
	})
}

func TestService_QueueBudgetAlertEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("queues a pending job with template data", func(t *testing.T) {
		queue := &fakeEmailQueue{}
		service := NewService(queue)

		err := service.QueueBudgetAlertEmail(ctx, queueAlertInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(queue.jobs) != 1 {
			t.Fatalf("expected 1 queued job, got %d", len(queue.jobs))
		}

		job := queue.jobs[0]
		if job.Status != entity.EmailStatusPending {
			t.Errorf("expected status %s, got %s", entity.EmailStatusPending, job.Status)
		}
		if job.TemplateType != entity.TemplateBudgetAlert {
			t.Errorf("expected template %s, got %s", entity.TemplateBudgetAlert, job.TemplateType)
		}
		if !strings.Contains(job.Subject, "Groceries") {
			t.Errorf("expected subject to mention category, got %q", job.Subject)
		}
		if got := job.TemplateData["spent"]; got != "550.00" {
			t.Errorf("expected spent 550.00 in template data, got %v", got)
		}
	})
}
