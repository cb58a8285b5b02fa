package mcp

import (
	"context"

	"github.com/corevia/corevia/internal/models"
	"github.com/corevia/corevia/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	LatestSession(ctx context.Context, userID string, part models.Part) (*models.Session, error)
	SessionsByPart(ctx context.Context, userID string, part models.Part) ([]models.Session, error)
	FAQsByPart(ctx context.Context, part models.Part) ([]models.FAQ, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
