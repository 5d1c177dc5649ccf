package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docintake/internal/intake"
	"docintake/internal/model"
	"docintake/internal/repository"
	"docintake/internal/storage"
)

var (
	ErrIDRequired           = errors.New("id is required")
	ErrOrganizationRequired = errors.New("organization is required")
	ErrNotFound             = errors.New("document not found")
	ErrPageOutOfRange       = errors.New("page out of range")
	ErrScansNotArchived     = errors.New("page scans are not archived")
)

// PageURLExpiry is the lifetime of presigned page scan URLs.
const PageURLExpiry = 15 * time.Minute

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// BatchExtractor extracts every page of a batch, all-or-nothing, in page order.
// *intake.Orchestrator implements it.
type BatchExtractor interface {
	ExtractAll(ctx context.Context, pages []model.EncodedPage) ([]model.PageExtraction, error)
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Ingest turns one batch of page scans into a single stored document.
	// Nothing is persisted unless every page was extracted successfully.
	Ingest(ctx context.Context, orgID string, pages []model.UploadedPage) (*model.Document, error)

	// List returns the organization's documents using limit/offset and a total count.
	List(ctx context.Context, orgID string, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, orgID, id string) (*model.Document, error)

	// Delete removes a document and its archived scans.
	Delete(ctx context.Context, orgID, id string) error

	// PageURL returns a presigned download URL for the archived scan of a zero-based page.
	PageURL(ctx context.Context, orgID, id string, page int) (string, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	extractor BatchExtractor
	store     storage.Storage
	repo      repository.DocumentRepository
	log       *slog.Logger
}

// NewDocumentService constructs a new DocumentService.
// store may be nil, in which case page scans are not archived.
func NewDocumentService(extractor BatchExtractor, store storage.Storage, repo repository.DocumentRepository, logger *slog.Logger) DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{extractor: extractor, store: store, repo: repo, log: logger}
}

func (s *documentService) Ingest(ctx context.Context, orgID string, uploads []model.UploadedPage) (*model.Document, error) {
	if orgID == "" {
		return nil, ErrOrganizationRequired
	}

	pages, err := intake.EncodePages(uploads)
	if err != nil {
		return nil, err
	}
	extractions, err := s.extractor.ExtractAll(ctx, pages)
	if err != nil {
		return nil, err
	}
	merged, err := intake.Merge(extractions)
	if err != nil {
		return nil, err
	}

	doc := &merged
	doc.ID = uuid.New().String()
	doc.OrganizationID = orgID
	doc.SourcePages = []string{}

	keys, err := s.archive(ctx, doc.ID, pages)
	if err != nil {
		return nil, err
	}
	doc.SourcePages = keys
	doc.CreatedAt = time.Now().UTC()

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.removeScans(ctx, keys); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info("document.ingested",
		"document_id", stored.ID,
		"organization_id", orgID,
		"pages", len(pages),
		"archived", len(keys) > 0,
	)
	return stored, nil
}

// archive stores the original page scans in page order. A partial archive is removed on failure.
func (s *documentService) archive(ctx context.Context, docID string, pages []model.EncodedPage) ([]string, error) {
	keys := []string{}
	if s.store == nil {
		return keys, nil
	}
	for _, p := range pages {
		raw, err := base64.StdEncoding.DecodeString(p.Payload)
		if err != nil {
			return nil, s.abortArchive(ctx, keys, fmt.Errorf("decode page %d: %w", p.Index, err))
		}
		key := storage.PageKey(docID, p.Index, strings.ToLower(filepath.Ext(p.Filename)))
		_, err = s.store.Put(ctx, key, bytes.NewReader(raw), storage.PutObjectOptions{
			Size:        int64(len(raw)),
			ContentType: p.MIMEType,
			Metadata:    map[string]string{"original-filename": p.Filename},
		})
		if err != nil {
			return nil, s.abortArchive(ctx, keys, fmt.Errorf("upload to storage: %w", err))
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *documentService) abortArchive(ctx context.Context, keys []string, cause error) error {
	if delErr := s.removeScans(ctx, keys); delErr != nil {
		return fmt.Errorf("%w; rollback delete failed: %v", cause, delErr)
	}
	return cause
}

func (s *documentService) removeScans(ctx context.Context, keys []string) error {
	if s.store == nil {
		return nil
	}
	var errs []error
	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, orgID string, limit, offset int) (*DocumentListResult, error) {
	if orgID == "" {
		return nil, ErrOrganizationRequired
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, orgID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, orgID, id string) (*model.Document, error) {
	if orgID == "" {
		return nil, ErrOrganizationRequired
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes the archived scans, then the row. The row is kept when a scan cannot be removed.
func (s *documentService) Delete(ctx context.Context, orgID, id string) error {
	doc, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.removeScans(ctx, doc.SourcePages); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, orgID, id)
}

func (s *documentService) PageURL(ctx context.Context, orgID, id string, page int) (string, error) {
	doc, err := s.Get(ctx, orgID, id)
	if err != nil {
		return "", err
	}
	if s.store == nil || len(doc.SourcePages) == 0 {
		return "", ErrScansNotArchived
	}
	if page < 0 || page >= len(doc.SourcePages) {
		return "", ErrPageOutOfRange
	}
	return s.store.PresignGet(ctx, doc.SourcePages[page], PageURLExpiry)
}
