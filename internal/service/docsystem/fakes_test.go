package docsystem

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

// In-memory repository fakes. Each stores copies keyed by id so tests can
// mutate returned structs without corrupting stored state.

type memProjectRepo struct {
	mu       sync.Mutex
	projects map[string]models.Project

	// referential actions applied on delete, mirroring the schema:
	// folders cascade with their project, documents are detached
	folders *memFolderRepo
	docs    *memDocumentRepo
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: make(map[string]models.Project)}
}

// wireReferentialActions links the stores so deletes apply the schema's
// ON DELETE actions: folder rows cascade with their project, and document
// placement columns are nulled when the referenced folder or project row
// goes away.
func wireReferentialActions(projects *memProjectRepo, folders *memFolderRepo, docs *memDocumentRepo) {
	projects.folders = folders
	projects.docs = docs
	folders.docs = docs
}

func (r *memProjectRepo) Create(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("project %s not found", id)}
	}
	out := p
	return &out, nil
}

func (r *memProjectRepo) Update(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("project %s not found", p.ID)}
	}
	r.projects[p.ID] = *p
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.projects[id]; !ok {
		r.mu.Unlock()
		return &domain.NotFoundError{Message: fmt.Sprintf("project %s not found", id)}
	}
	delete(r.projects, id)
	r.mu.Unlock()

	if r.folders != nil {
		r.folders.deleteByProject(id)
	}
	if r.docs != nil {
		r.docs.detachProject(id)
	}
	return nil
}

func (r *memProjectRepo) ListByOwner(ctx context.Context, ownerID string, includeArchived bool) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Project
	for _, p := range r.projects {
		if p.OwnerID != ownerID {
			continue
		}
		if !includeArchived && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memFolderRepo struct {
	mu      sync.Mutex
	folders map[string]models.Folder
	docs    *memDocumentRepo

	treeMu    sync.Mutex
	treeLocks map[string]*sync.Mutex
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{
		folders:   make(map[string]models.Folder),
		treeLocks: make(map[string]*sync.Mutex),
	}
}

// LockProjectTree serializes structural writes per project, matching the
// advisory lock the real repository takes. The lock is held until the
// surrounding fake transaction ends.
func (r *memFolderRepo) LockProjectTree(ctx context.Context, projectID string) error {
	r.treeMu.Lock()
	lock, ok := r.treeLocks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		r.treeLocks[projectID] = lock
	}
	r.treeMu.Unlock()

	lock.Lock()
	if held, ok := ctx.Value(heldLocksKey{}).(*heldLocks); ok {
		held.add(lock)
	} else {
		// No surrounding transaction in this test path
		lock.Unlock()
	}
	return nil
}

func (r *memFolderRepo) Create(ctx context.Context, f *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folders[f.ID] = *f
	return nil
}

func (r *memFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
	}
	out := f
	return &out, nil
}

func (r *memFolderRepo) Update(ctx context.Context, f *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[f.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", f.ID)}
	}
	r.folders[f.ID] = *f
	return nil
}

func (r *memFolderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.folders[id]; !ok {
		r.mu.Unlock()
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
	}
	delete(r.folders, id)
	r.mu.Unlock()

	if r.docs != nil {
		r.docs.unfileFolder(id)
	}
	return nil
}

// deleteByProject mirrors the ON DELETE CASCADE on folders.project_id.
func (r *memFolderRepo) deleteByProject(projectID string) {
	r.mu.Lock()
	var removed []string
	for id, f := range r.folders {
		if f.ProjectID == projectID {
			removed = append(removed, id)
			delete(r.folders, id)
		}
	}
	r.mu.Unlock()

	if r.docs != nil {
		for _, id := range removed {
			r.docs.unfileFolder(id)
		}
	}
}

func (r *memFolderRepo) ListChildren(ctx context.Context, projectID string, parentID *string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.ProjectID != projectID {
			continue
		}
		if parentID == nil && f.ParentID != nil {
			continue
		}
		if parentID != nil && (f.ParentID == nil || *f.ParentID != *parentID) {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (r *memFolderRepo) ListByProject(ctx context.Context, projectID string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]models.Document
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{docs: make(map[string]models.Document)}
}

func (r *memDocumentRepo) Create(ctx context.Context, d *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.ID] = *d
	return nil
}

func (r *memDocumentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", id)}
	}
	out := d
	return &out, nil
}

func (r *memDocumentRepo) Update(ctx context.Context, d *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[d.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", d.ID)}
	}
	r.docs[d.ID] = *d
	return nil
}

func (r *memDocumentRepo) SetCurrentVersion(ctx context.Context, docID, versionID string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[docID]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", docID)}
	}
	d.CurrentVersionID = &versionID
	d.UpdatedAt = updatedAt
	r.docs[docID] = d
	return nil
}

func (r *memDocumentRepo) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.IsDeleted {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", id)}
	}
	d.IsDeleted = true
	d.UpdatedAt = deletedAt
	r.docs[id] = d
	return nil
}

// unfileFolder mirrors ON DELETE SET NULL on documents.folder_id.
func (r *memDocumentRepo) unfileFolder(folderID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.docs {
		if d.FolderID != nil && *d.FolderID == folderID {
			d.FolderID = nil
			r.docs[id] = d
		}
	}
}

// detachProject mirrors ON DELETE SET NULL on documents.project_id.
func (r *memDocumentRepo) detachProject(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.docs {
		if d.ProjectID != nil && *d.ProjectID == projectID {
			d.ProjectID = nil
			r.docs[id] = d
		}
	}
}

func (r *memDocumentRepo) ListByFolder(ctx context.Context, projectID string, folderID *string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, d := range r.docs {
		if d.IsDeleted || d.ProjectID == nil || *d.ProjectID != projectID {
			continue
		}
		if folderID == nil && d.FolderID != nil {
			continue
		}
		if folderID != nil && (d.FolderID == nil || *d.FolderID != *folderID) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memDocumentRepo) ListByProject(ctx context.Context, projectID string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, d := range r.docs {
		if !d.IsDeleted && d.ProjectID != nil && *d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memVersionRepo struct {
	mu       sync.Mutex
	versions map[string]models.DocumentVersion
}

func newMemVersionRepo() *memVersionRepo {
	return &memVersionRepo{versions: make(map[string]models.DocumentVersion)}
}

func (r *memVersionRepo) Create(ctx context.Context, v *models.DocumentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.versions {
		if existing.DocumentID == v.DocumentID && existing.VersionNumber == v.VersionNumber {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %d already exists", v.VersionNumber),
				ResourceType: "version",
				ResourceID:   existing.ID,
			}
		}
	}
	r.versions[v.ID] = *v
	return nil
}

func (r *memVersionRepo) GetByID(ctx context.Context, id string) (*models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("version %s not found", id)}
	}
	out := v
	return &out, nil
}

func (r *memVersionRepo) GetByNumber(ctx context.Context, documentID string, versionNumber int) (*models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.DocumentID == documentID && v.VersionNumber == versionNumber {
			out := v
			return &out, nil
		}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("version %d of document %s not found", versionNumber, documentID)}
}

func (r *memVersionRepo) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DocumentVersion
	for _, v := range r.versions {
		if v.DocumentID == documentID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber < out[j].VersionNumber })
	return out, nil
}

func (r *memVersionRepo) MaxVersionNumber(ctx context.Context, documentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, v := range r.versions {
		if v.DocumentID == documentID && v.VersionNumber > max {
			max = v.VersionNumber
		}
	}
	return max, nil
}

// passthroughTxManager runs the function directly. The in-memory repos have
// no rollback, so tests assert pre-flight rejection leaves state untouched
// rather than mid-transaction rollback. Tree locks taken inside the function
// are released when it returns, matching advisory xact lock scope.
type passthroughTxManager struct{}

type heldLocksKey struct{}

type heldLocks struct {
	mu    sync.Mutex
	locks []*sync.Mutex
}

func (h *heldLocks) add(lock *sync.Mutex) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.locks = append(h.locks, lock)
}

func (h *heldLocks) releaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.locks) - 1; i >= 0; i-- {
		h.locks[i].Unlock()
	}
	h.locks = nil
}

func (passthroughTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	held := &heldLocks{}
	err := fn(context.WithValue(ctx, heldLocksKey{}, held))
	held.releaseAll()
	return err
}

// memGateway is an in-memory blob store with a switchable failure mode.
type memGateway struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	failUpload bool
}

func newMemGateway() *memGateway {
	return &memGateway{blobs: make(map[string][]byte)}
}

func (g *memGateway) Upload(ctx context.Context, ownerID, documentID string, versionNumber int, r io.Reader, fileName string) (*services.BlobUpload, error) {
	if g.failUpload {
		return nil, &domain.StorageError{Message: "simulated upload failure"}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.StorageError{Message: err.Error()}
	}
	key := fmt.Sprintf("%s/%s/v%d", ownerID, documentID, versionNumber)
	g.mu.Lock()
	g.blobs[key] = data
	g.mu.Unlock()
	sum := sha256.Sum256(data)
	return &services.BlobUpload{Key: key, Size: int64(len(data)), SHA256: hex.EncodeToString(sum[:])}, nil
}

func (g *memGateway) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	g.mu.Lock()
	data, ok := g.blobs[key]
	g.mu.Unlock()
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("blob %s not found", key)}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (g *memGateway) Delete(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.blobs[key]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("blob %s not found", key)}
	}
	delete(g.blobs, key)
	return nil
}

func (g *memGateway) Copy(ctx context.Context, sourceKey, destOwnerID, destDocumentID string, versionNumber int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	data, ok := g.blobs[sourceKey]
	if !ok {
		return "", &domain.NotFoundError{Message: fmt.Sprintf("blob %s not found", sourceKey)}
	}
	key := fmt.Sprintf("%s/%s/v%d", destOwnerID, destDocumentID, versionNumber)
	g.blobs[key] = append([]byte(nil), data...)
	return key, nil
}

func (g *memGateway) Exists(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.blobs[key]
	return ok, nil
}

// recordingNotifier captures notified document ids.
type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (n *recordingNotifier) Notify(ctx context.Context, documentID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, documentID)
}

func (n *recordingNotifier) notified() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.ids...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
