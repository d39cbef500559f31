package docsystem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"docvault/internal/config"
	"docvault/internal/domain"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

func newBulkTestEnv(t *testing.T) (*documentTestEnv, docsysSvc.BulkService) {
	t.Helper()
	env := newDocumentTestEnv(t)
	bulk := NewBulkService(env.svc, env.docRepo, testLogger())
	return env, bulk
}

func TestBulkDeletePartialFailure(t *testing.T) {
	env, bulk := newBulkTestEnv(t)

	var ids []string
	for i := 0; i < 5; i++ {
		doc := env.mustCreateDocument(t, fmt.Sprintf("Doc %d", i), "content")
		ids = append(ids, doc.ID)
	}
	// Two ids that cannot succeed: one unknown, one owned by someone else
	unknown := uuid.NewString()
	foreign := env.mustCreateDocument(t, "Foreign", "content")
	foreignOwner := uuid.NewString()
	{
		d, _ := env.docRepo.GetByID(context.Background(), foreign.ID)
		d.OwnerID = foreignOwner
		if err := env.docRepo.Update(context.Background(), d); err != nil {
			t.Fatalf("reassign owner: %v", err)
		}
	}
	ids = append(ids, unknown, foreign.ID)

	result, err := bulk.BulkDelete(context.Background(), env.ownerID, ids)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}

	if result.TotalRequested != 7 || result.Succeeded != 5 || result.Failed != 2 {
		t.Errorf("totals: requested=%d succeeded=%d failed=%d, want 7/5/2",
			result.TotalRequested, result.Succeeded, result.Failed)
	}
	if len(result.Results) != 7 {
		t.Fatalf("result entries: got %d, want exactly 7", len(result.Results))
	}
	if result.FullySuccessful() {
		t.Error("partial failure must not report fully successful")
	}

	// Every requested id appears exactly once
	seen := make(map[string]int)
	for _, item := range result.Results {
		seen[item.DocumentID]++
	}
	for _, id := range ids {
		if seen[id] != 1 {
			t.Errorf("id %s appears %d times in results, want 1", id, seen[id])
		}
	}

	// Failures carry stable reason codes
	for _, item := range result.Results {
		if item.Success {
			continue
		}
		switch item.DocumentID {
		case unknown:
			if item.ErrorCode != "not_found" {
				t.Errorf("unknown id reason: got %q, want not_found", item.ErrorCode)
			}
		case foreign.ID:
			if item.ErrorCode != "permission_denied" {
				t.Errorf("foreign doc reason: got %q, want permission_denied", item.ErrorCode)
			}
		default:
			t.Errorf("unexpected failure for %s: %s", item.DocumentID, item.ErrorCode)
		}
	}

	// The five owned documents really are gone from listings
	docs, _ := env.docRepo.ListByProject(context.Background(), env.projectID)
	for _, d := range docs {
		if d.OwnerID == env.ownerID {
			t.Errorf("document %s should be soft-deleted", d.ID)
		}
	}
}

func TestBulkDeleteBatchValidation(t *testing.T) {
	env, bulk := newBulkTestEnv(t)

	if _, err := bulk.BulkDelete(context.Background(), env.ownerID, nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty batch: got %v, want validation error", err)
	}

	tooMany := make([]string, config.MaxBulkItems+1)
	for i := range tooMany {
		tooMany[i] = uuid.NewString()
	}
	if _, err := bulk.BulkDelete(context.Background(), env.ownerID, tooMany); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("oversized batch: got %v, want validation error", err)
	}
}

func TestBulkMove(t *testing.T) {
	env, bulk := newBulkTestEnv(t)

	folderSvc := NewFolderService(env.folderRepo, env.docRepo, passthroughTxManager{},
		NewResourceValidator(env.projectRepo, env.folderRepo),
		NewOwnershipAuthorizer(env.projectRepo, env.folderRepo, env.docRepo), testLogger())
	target, err := folderSvc.CreateFolder(context.Background(), env.ownerID, &docsysSvc.CreateFolderRequest{
		ProjectID: env.projectID,
		Name:      "Target",
	})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	a := env.mustCreateDocument(t, "A", "x")
	b := env.mustCreateDocument(t, "B", "x")
	deleted := env.mustCreateDocument(t, "Deleted", "x")
	if err := env.svc.SoftDeleteDocument(context.Background(), env.ownerID, deleted.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	result, err := bulk.BulkMove(context.Background(), env.ownerID, &docsysSvc.BulkMoveRequest{
		DocumentIDs: []string{a.ID, b.ID, deleted.ID},
		FolderID:    &target.ID,
	})
	if err != nil {
		t.Fatalf("bulk move: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 1 {
		t.Errorf("totals: succeeded=%d failed=%d, want 2/1", result.Succeeded, result.Failed)
	}

	for _, id := range []string{a.ID, b.ID} {
		doc, _ := env.docRepo.GetByID(context.Background(), id)
		if doc.FolderID == nil || *doc.FolderID != target.ID {
			t.Errorf("document %s not refiled to target", id)
		}
	}
	for _, item := range result.Results {
		if item.DocumentID == deleted.ID {
			if item.Success || item.ErrorCode != "invalid_state" {
				t.Errorf("deleted doc item: success=%v code=%q, want failure/invalid_state", item.Success, item.ErrorCode)
			}
		}
	}
}

func TestBulkMoveTitlesInResults(t *testing.T) {
	env, bulk := newBulkTestEnv(t)
	doc := env.mustCreateDocument(t, "Quarterly Report", strings.Repeat("x", 10))

	result, err := bulk.BulkDelete(context.Background(), env.ownerID, []string{doc.ID})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].Title != "Quarterly Report" {
		t.Errorf("result title: got %+v", result.Results)
	}
}

// stallingDocService delays one document until its item context expires.
type stallingDocService struct {
	docsysSvc.DocumentService
	stallID string
}

func (s stallingDocService) SoftDeleteDocument(ctx context.Context, actorID, documentID string) error {
	if documentID == s.stallID {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.DocumentService.SoftDeleteDocument(ctx, actorID, documentID)
}

func TestBulkDeleteItemTimeout(t *testing.T) {
	env := newDocumentTestEnv(t)
	fast := env.mustCreateDocument(t, "Fast", "a")
	stuck := env.mustCreateDocument(t, "Stuck", "b")

	bulk := &bulkService{
		docSvc:      stallingDocService{DocumentService: env.svc, stallID: stuck.ID},
		docRepo:     env.docRepo,
		itemTimeout: 25 * time.Millisecond,
		logger:      testLogger(),
	}

	result, err := bulk.BulkDelete(context.Background(), env.ownerID, []string{fast.ID, stuck.ID})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}

	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("got %d succeeded %d failed, want 1 and 1", result.Succeeded, result.Failed)
	}
	for _, item := range result.Results {
		switch item.DocumentID {
		case fast.ID:
			if !item.Success {
				t.Errorf("fast item should succeed, got %q", item.ErrorCode)
			}
		case stuck.ID:
			if item.Success {
				t.Error("stalled item should fail")
			}
			if item.ErrorCode != "timeout" {
				t.Errorf("stalled item code: got %q, want timeout", item.ErrorCode)
			}
		default:
			t.Errorf("unexpected result entry %s", item.DocumentID)
		}
	}

	// The batch itself completed: the fast document really is gone
	reloaded, err := env.docRepo.GetByID(context.Background(), fast.ID)
	if err != nil {
		t.Fatalf("reload fast doc: %v", err)
	}
	if !reloaded.IsDeleted {
		t.Error("fast document should be soft-deleted despite the stalled sibling")
	}
}
