package services

import "context"

// ResourceAuthorizer checks whether an actor may operate on a resource.
// The core never authenticates; it authorizes the supplied actor id against
// stored owner_id fields. Services call the authorizer before mutating.
type ResourceAuthorizer interface {
	// CanAccessProject checks if the actor can access a project
	CanAccessProject(ctx context.Context, actorID, projectID string) error

	// CanAccessFolder checks if the actor can access a folder (via its project)
	CanAccessFolder(ctx context.Context, actorID, folderID string) error

	// CanAccessDocument checks if the actor owns a document
	CanAccessDocument(ctx context.Context, actorID, documentID string) error
}
