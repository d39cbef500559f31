package docsystem

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"docvault/internal/domain"
	docsysSvc "docvault/internal/domain/services/docsystem"
)

func newLifecycleTestEnv(t *testing.T) (*documentTestEnv, docsysSvc.FolderService, docsysSvc.LifecycleService) {
	t.Helper()
	env := newDocumentTestEnv(t)
	authorizer := NewOwnershipAuthorizer(env.projectRepo, env.folderRepo, env.docRepo)
	validator := NewResourceValidator(env.projectRepo, env.folderRepo)
	folderSvc := NewFolderService(env.folderRepo, env.docRepo, passthroughTxManager{}, validator, authorizer, testLogger())
	lifecycle := NewLifecycleService(env.projectRepo, env.folderRepo, env.docRepo, passthroughTxManager{}, authorizer, testLogger())
	return env, folderSvc, lifecycle
}

func TestArchiveAndRestoreProject(t *testing.T) {
	env, _, lifecycle := newLifecycleTestEnv(t)

	project, err := lifecycle.ArchiveProject(context.Background(), env.ownerID, env.projectID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if project.IsActive {
		t.Error("project should be inactive")
	}

	// Archived projects reject new content
	_, err = env.svc.CreateDocument(context.Background(), &docsysSvc.CreateDocumentRequest{
		OwnerID:   env.ownerID,
		Title:     "Late",
		ProjectID: &env.projectID,
		FileName:  "x.txt",
		File:      nil,
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("create in archived project: got %v, want invalid state", err)
	}

	project, err = lifecycle.RestoreProject(context.Background(), env.ownerID, env.projectID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !project.IsActive {
		t.Error("project should be active again")
	}
}

func TestDeleteProjectRejectsNonEmptyWithoutCascade(t *testing.T) {
	env, folderSvc, lifecycle := newLifecycleTestEnv(t)
	if _, err := folderSvc.CreateFolder(context.Background(), env.ownerID, &docsysSvc.CreateFolderRequest{
		ProjectID: env.projectID,
		Name:      "Stuff",
	}); err != nil {
		t.Fatalf("create folder: %v", err)
	}

	err := lifecycle.DeleteProject(context.Background(), env.ownerID, env.projectID, false)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("got %v, want invalid state", err)
	}

	// Project survives the rejected delete
	if _, err := env.projectRepo.GetByID(context.Background(), env.projectID); err != nil {
		t.Errorf("project should still exist: %v", err)
	}
}

func TestDeleteProjectCascade(t *testing.T) {
	env, folderSvc, lifecycle := newLifecycleTestEnv(t)

	parent, err := folderSvc.CreateFolder(context.Background(), env.ownerID, &docsysSvc.CreateFolderRequest{
		ProjectID: env.projectID, Name: "Parent",
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := folderSvc.CreateFolder(context.Background(), env.ownerID, &docsysSvc.CreateFolderRequest{
		ProjectID: env.projectID, Name: "Child", ParentID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	doc := env.mustCreateDocument(t, "Doc", "content")

	if err := lifecycle.DeleteProject(context.Background(), env.ownerID, env.projectID, true); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}

	if _, err := env.projectRepo.GetByID(context.Background(), env.projectID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("project row should be gone")
	}
	for _, id := range []string{parent.ID, child.ID} {
		if _, err := env.folderRepo.GetByID(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("folder %s should be gone", id)
		}
	}

	// Documents are soft-deleted, not erased: the row and its versions remain
	reloaded, err := env.docRepo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("document row should survive: %v", err)
	}
	if !reloaded.IsDeleted {
		t.Error("document should be soft-deleted")
	}
	// The surviving row no longer references the deleted containers, so the
	// container deletes cannot trip the placement foreign keys
	if reloaded.ProjectID != nil {
		t.Errorf("surviving document still references project %s", *reloaded.ProjectID)
	}
	if reloaded.FolderID != nil {
		t.Errorf("surviving document still references folder %s", *reloaded.FolderID)
	}
	versions, _ := env.versionRepo.ListByDocument(context.Background(), doc.ID)
	if len(versions) != 1 {
		t.Errorf("versions after cascade: got %d, want 1", len(versions))
	}
}

func TestDeleteFolderCascadeWithFiledDocuments(t *testing.T) {
	env, folderSvc, lifecycle := newLifecycleTestEnv(t)

	folder, err := folderSvc.CreateFolder(context.Background(), env.ownerID, &docsysSvc.CreateFolderRequest{
		ProjectID: env.projectID, Name: "Filed",
	})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	doc, err := env.svc.CreateDocument(context.Background(), &docsysSvc.CreateDocumentRequest{
		OwnerID:   env.ownerID,
		Title:     "Inside",
		ProjectID: &env.projectID,
		FolderID:  &folder.ID,
		FileName:  "inside.txt",
		File:      strings.NewReader("body"),
	})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}

	if err := lifecycle.DeleteFolder(context.Background(), env.ownerID, folder.ID, true); err != nil {
		t.Fatalf("cascade with filed document: %v", err)
	}

	reloaded, err := env.docRepo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("document row should survive: %v", err)
	}
	if !reloaded.IsDeleted {
		t.Error("document should be soft-deleted")
	}
	if reloaded.FolderID != nil {
		t.Errorf("surviving document still references folder %s", *reloaded.FolderID)
	}
}

func TestDeleteFolderCascadeScopesToSubtree(t *testing.T) {
	env, folderSvc, lifecycle := newLifecycleTestEnv(t)

	doomed, err := folderSvc.CreateFolder(context.Background(), env.ownerID, &docsysSvc.CreateFolderRequest{
		ProjectID: env.projectID, Name: "Doomed",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	nested, err := folderSvc.CreateFolder(context.Background(), env.ownerID, &docsysSvc.CreateFolderRequest{
		ProjectID: env.projectID, Name: "Nested", ParentID: &doomed.ID,
	})
	if err != nil {
		t.Fatalf("create nested: %v", err)
	}
	survivor, err := folderSvc.CreateFolder(context.Background(), env.ownerID, &docsysSvc.CreateFolderRequest{
		ProjectID: env.projectID, Name: "Survivor",
	})
	if err != nil {
		t.Fatalf("create survivor: %v", err)
	}

	if err := lifecycle.DeleteFolder(context.Background(), env.ownerID, doomed.ID, false); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("non-cascade on non-empty: got %v, want invalid state", err)
	}

	if err := lifecycle.DeleteFolder(context.Background(), env.ownerID, doomed.ID, true); err != nil {
		t.Fatalf("cascade: %v", err)
	}
	for _, id := range []string{doomed.ID, nested.ID} {
		if _, err := env.folderRepo.GetByID(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("folder %s should be gone", id)
		}
	}
	if _, err := env.folderRepo.GetByID(context.Background(), survivor.ID); err != nil {
		t.Errorf("sibling outside the subtree must survive: %v", err)
	}
}

func TestLifecycleRequiresOwnership(t *testing.T) {
	env, _, lifecycle := newLifecycleTestEnv(t)
	stranger := uuid.NewString()

	if _, err := lifecycle.ArchiveProject(context.Background(), stranger, env.projectID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("archive: got %v, want forbidden", err)
	}
	if err := lifecycle.DeleteProject(context.Background(), stranger, env.projectID, true); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delete: got %v, want forbidden", err)
	}
}
