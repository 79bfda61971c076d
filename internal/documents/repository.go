package documents

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/stepwise/pkg/repository"
)

const listQuery = `
	SELECT DISTINCT doctype
	FROM common.gpt_doc_config
	WHERE doctype IS NOT NULL
	ORDER BY doctype`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a document type repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "documents"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context) ([]string, error) {
	docTypes, err := repository.QueryMany(ctx, r.db, listQuery, nil, scanDocType)
	if err != nil {
		return nil, fmt.Errorf("query document types: %w", err)
	}

	r.logger.Debug("document types listed", "count", len(docTypes))
	return docTypes, nil
}

func scanDocType(s repository.Scanner) (string, error) {
	var docType string
	err := s.Scan(&docType)
	return docType, err
}
