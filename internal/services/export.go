package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sleeplog/apiserver/internal/metrics"
	"github.com/sleeplog/apiserver/internal/sleep"
	"github.com/sleeplog/apiserver/internal/storage"
	"github.com/sleeplog/apiserver/types"
)

var (
	// ErrExportNotFound is returned for unknown exports or exports of
	// another user.
	ErrExportNotFound = errors.New("export not found")
	// ErrBrokerUnavailable is returned when an export cannot be queued.
	ErrBrokerUnavailable = errors.New("export queue unavailable")
	// ErrInvalidExportRequest marks queue messages that can never succeed.
	ErrInvalidExportRequest = errors.New("invalid export request")
)

// ExportPublisher queues export requests.
type ExportPublisher interface {
	PublishJSON(ctx context.Context, channel string, v any) (string, error)
}

// ExportStore persists export documents.
type ExportStore interface {
	PutBytes(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ExportRecordLister is the read side of the sleep record store.
type ExportRecordLister interface {
	ListByUser(ctx context.Context, userID int) ([]types.SleepRecord, error)
}

// ExportService produces JSON snapshots of a user's records. With a
// publisher the work is queued for the worker; without one it runs inline.
type ExportService struct {
	records   ExportRecordLister
	publisher ExportPublisher
	store     ExportStore
	channel   string
	catalog   *sleep.Catalog
	logger    *zap.Logger
	now       func() time.Time
}

func NewExportService(records ExportRecordLister, publisher ExportPublisher, store ExportStore, channel string, catalog *sleep.Catalog, logger *zap.Logger) *ExportService {
	if catalog == nil {
		catalog = sleep.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		records:   records,
		publisher: publisher,
		store:     store,
		channel:   channel,
		catalog:   catalog,
		logger:    logger,
		now:       time.Now,
	}
}

// Request starts an export for userID.
func (s *ExportService) Request(ctx context.Context, userID int) (types.Export, error) {
	export := types.Export{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    types.ExportPending,
		CreatedAt: s.now().UTC(),
	}
	export.ObjectKey = ExportObjectKey(userID, export.ID)

	if s.publisher == nil {
		if err := s.generate(ctx, types.ExportRequest{ExportID: export.ID, UserID: userID}); err != nil {
			return types.Export{}, err
		}
		export.Status = types.ExportReady
		return export, nil
	}

	req := types.ExportRequest{ExportID: export.ID, UserID: userID}
	if _, err := s.publisher.PublishJSON(ctx, s.channel, req); err != nil {
		s.logger.Error("publish export request failed", zap.String("export_id", export.ID), zap.Error(err))
		return types.Export{}, fmt.Errorf("%w: %v", ErrBrokerUnavailable, err)
	}
	return export, nil
}

// HandleMessage processes one queued export request. Malformed messages
// return an error wrapping ErrInvalidExportRequest.
func (s *ExportService) HandleMessage(ctx context.Context, data []byte) error {
	var req types.ExportRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExportRequest, err)
	}
	if _, err := uuid.Parse(req.ExportID); err != nil || req.UserID < 1 {
		return fmt.Errorf("%w: export_id=%q user_id=%d", ErrInvalidExportRequest, req.ExportID, req.UserID)
	}
	return s.generate(ctx, req)
}

// Open streams a finished export owned by userID.
func (s *ExportService) Open(ctx context.Context, userID int, exportID string) (io.ReadCloser, error) {
	id, err := uuid.Parse(exportID)
	if err != nil {
		return nil, ErrExportNotFound
	}

	body, err := s.store.Get(ctx, ExportObjectKey(userID, id.String()))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	return body, nil
}

func (s *ExportService) generate(ctx context.Context, req types.ExportRequest) (err error) {
	start := s.now()
	defer func() {
		metrics.RecordExport(s.now().Sub(start), err == nil)
	}()

	records, err := s.records.ListByUser(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	doc := types.ExportDocument{
		ExportID:    req.ExportID,
		UserID:      req.UserID,
		GeneratedAt: s.now().UTC(),
		Summary:     sleep.Summarize(records, s.catalog, sleep.DefaultLanguage),
		Records:     records,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	key := ExportObjectKey(req.UserID, req.ExportID)
	if err := s.store.PutBytes(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("upload export: %w", err)
	}

	s.logger.Info("export generated",
		zap.String("export_id", req.ExportID),
		zap.Int("user_id", req.UserID),
		zap.Int("records", len(records)),
	)
	return nil
}

// ExportObjectKey is the storage key of an export document.
func ExportObjectKey(userID int, exportID string) string {
	return fmt.Sprintf("exports/%d/%s.json", userID, exportID)
}
