package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sleeplog/apiserver/internal/metrics"
	"github.com/sleeplog/apiserver/internal/sleep"
	"github.com/sleeplog/apiserver/types"
)

// MaxNotesLength is the longest accepted notes text, in characters.
const MaxNotesLength = 2000

const dateLayout = "2006-01-02"

// ErrInvalidRecord wraps every sleep record validation failure.
var ErrInvalidRecord = errors.New("invalid sleep record")

// SleepRecordRepository defines persistence operations for sleep records.
// Implementations scope every call by owner.
type SleepRecordRepository interface {
	ListByUser(ctx context.Context, userID int) ([]types.SleepRecord, error)
	GetForUser(ctx context.Context, userID int, id int64) (types.SleepRecord, error)
	Create(ctx context.Context, record types.SleepRecord) (types.SleepRecord, error)
	Update(ctx context.Context, record types.SleepRecord) (types.SleepRecord, error)
	Delete(ctx context.Context, userID int, id int64) error
}

// SleepRecordService encapsulates sleep record use-cases. Hours are always
// derived here and never taken from the caller.
type SleepRecordService struct {
	repo    SleepRecordRepository
	catalog *sleep.Catalog
}

func NewSleepRecordService(repo SleepRecordRepository, catalog *sleep.Catalog) *SleepRecordService {
	if catalog == nil {
		catalog = sleep.DefaultCatalog()
	}
	return &SleepRecordService{repo: repo, catalog: catalog}
}

func (s *SleepRecordService) Create(ctx context.Context, userID int, input types.SleepRecordInput) (types.SleepRecord, error) {
	record, err := buildRecord(input)
	if err != nil {
		return types.SleepRecord{}, err
	}
	record.UserID = userID

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return types.SleepRecord{}, err
	}
	metrics.RecordWrite("create")
	return created, nil
}

func (s *SleepRecordService) List(ctx context.Context, userID int) ([]types.SleepRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *SleepRecordService) Get(ctx context.Context, userID int, id int64) (types.SleepRecord, error) {
	return s.repo.GetForUser(ctx, userID, id)
}

// Update replaces the editable fields and recomputes hours. Records of
// other users yield store.ErrNotFound.
func (s *SleepRecordService) Update(ctx context.Context, userID int, id int64, input types.SleepRecordInput) (types.SleepRecord, error) {
	record, err := buildRecord(input)
	if err != nil {
		return types.SleepRecord{}, err
	}
	record.ID = id
	record.UserID = userID

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return types.SleepRecord{}, err
	}
	metrics.RecordWrite("update")
	return updated, nil
}

func (s *SleepRecordService) Delete(ctx context.Context, userID int, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	metrics.RecordWrite("delete")
	return nil
}

// Summary aggregates all of the user's records.
func (s *SleepRecordService) Summary(ctx context.Context, userID int, lang string) (types.SleepSummary, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return types.SleepSummary{}, err
	}
	return sleep.Summarize(records, s.catalog, lang), nil
}

// Recommendations returns the personalized advice for one record.
func (s *SleepRecordService) Recommendations(ctx context.Context, userID int, id int64, lang string) (types.SleepRecord, []types.Recommendation, error) {
	record, err := s.repo.GetForUser(ctx, userID, id)
	if err != nil {
		return types.SleepRecord{}, nil, err
	}
	return record, sleep.Recommend(record, s.catalog, lang), nil
}

// buildRecord validates input and derives the stored record. Clocks are
// stored in their canonical form, so "22:00:00" is kept as "22:00".
func buildRecord(input types.SleepRecordInput) (types.SleepRecord, error) {
	sleepAt, err := sleep.ParseClock(input.SleepTime)
	if err != nil {
		return types.SleepRecord{}, fmt.Errorf("%w: sleep_time: %v", ErrInvalidRecord, err)
	}
	wakeAt, err := sleep.ParseClock(input.WakeTime)
	if err != nil {
		return types.SleepRecord{}, fmt.Errorf("%w: wake_time: %v", ErrInvalidRecord, err)
	}
	if input.Quality != "" && !input.Quality.Valid() {
		return types.SleepRecord{}, fmt.Errorf("%w: quality %q", ErrInvalidRecord, input.Quality)
	}
	if utf8.RuneCountInString(input.Notes) > MaxNotesLength {
		return types.SleepRecord{}, fmt.Errorf("%w: notes longer than %d characters", ErrInvalidRecord, MaxNotesLength)
	}
	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		return types.SleepRecord{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRecord)
	}

	return types.SleepRecord{
		SleepTime: sleepAt.String(),
		WakeTime:  wakeAt.String(),
		Hours:     sleep.Duration(sleepAt, wakeAt),
		Quality:   input.Quality,
		Notes:     input.Notes,
		Date:      date.Format(dateLayout),
	}, nil
}
