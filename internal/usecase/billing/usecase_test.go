package billing

import (
	"context"
	"testing"

	"github.com/marktline/billing-service/internal/domain"
)

func TestRunUnknownTask(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Run(context.Background(), TaskType("mystery_task"), false)
	if domain.CodeOf(err) != domain.CodeValidation {
		t.Fatalf("error code = %s, want VALIDATION", domain.CodeOf(err))
	}
}

func TestRunAllFansOutInOrder(t *testing.T) {
	f := newFixture()

	reports, err := f.uc.Run(context.Background(), TaskAll, false)
	if err != nil {
		t.Fatalf("run all failed: %v", err)
	}
	if len(reports) != len(taskOrder) {
		t.Fatalf("got %d reports, want %d", len(reports), len(taskOrder))
	}
	for i, report := range reports {
		if report.TaskType != taskOrder[i] {
			t.Fatalf("report %d is %s, want %s", i, report.TaskType, taskOrder[i])
		}
		if report.FinishedAt.Before(report.StartedAt) {
			t.Fatalf("report %s finished before it started", report.TaskType)
		}
	}

	// Every task took and released its own lock.
	if len(f.lock.acquired) != len(taskOrder) {
		t.Fatalf("acquired %d locks, want %d", len(f.lock.acquired), len(taskOrder))
	}
	for name, held := range f.lock.held {
		if held {
			t.Fatalf("lock %s left held after run", name)
		}
	}
}

func TestRunRefusesHeldLock(t *testing.T) {
	f := newFixture()
	f.lock.held[string(TaskLateFeeProcessing)] = true

	_, err := f.uc.Run(context.Background(), TaskLateFeeProcessing, false)
	if domain.CodeOf(err) != domain.CodeStateConflict {
		t.Fatalf("error code = %s, want STATE_CONFLICT", domain.CodeOf(err))
	}
}
