package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/repository"
	apperrors "github.com/johnrue/summit-advisory-vercel-sub002/pkg/util"
)

// Metrics are the board-level statistics computed from a shift snapshot.
type Metrics struct {
	TotalShifts       int                        `json:"total_shifts"`
	ShiftsByStatus    map[domain.ShiftStatus]int `json:"shifts_by_status"`
	CompletionRate    float64                    `json:"completion_rate"`
	UrgentAlertsCount int                        `json:"urgent_alerts_count"`
}

// ComputeMetrics is a pure function over a snapshot. It holds for any
// snapshot, including a stale cached one.
func ComputeMetrics(shifts []domain.Shift) Metrics {
	metrics := Metrics{
		TotalShifts:    len(shifts),
		ShiftsByStatus: make(map[domain.ShiftStatus]int, 7),
	}
	for _, status := range domain.AllStatuses() {
		metrics.ShiftsByStatus[status] = 0
	}

	completed := 0
	for i := range shifts {
		metrics.ShiftsByStatus[shifts[i].Status]++
		if shifts[i].Status == domain.ShiftStatusCompleted {
			completed++
		}
		if shifts[i].HasOpenAlert() {
			metrics.UrgentAlertsCount++
		}
	}
	metrics.CompletionRate = roundPercent(completed, metrics.TotalShifts)
	return metrics
}

// BoardColumn is one rendered workflow column with its shifts.
type BoardColumn struct {
	ID                 domain.ShiftStatus   `json:"id"`
	Title              string               `json:"title"`
	AllowedTransitions []domain.ShiftStatus `json:"allowed_transitions"`
	RequiresValidation bool                 `json:"requires_validation"`
	MaxItems           *int                 `json:"max_items,omitempty"`
	OverCapacity       bool                 `json:"over_capacity"`
	Shifts             []domain.Shift       `json:"shifts"`
}

// BoardSnapshot is the full board payload served to the dashboard.
type BoardSnapshot struct {
	Columns     []BoardColumn `json:"columns"`
	Metrics     Metrics       `json:"metrics"`
	GeneratedAt time.Time     `json:"generated_at"`
}

const boardCacheKey = "workflow:board:snapshot"

// BoardService assembles board snapshots and caches them in Redis. Cached
// snapshots may be slightly stale; every statistic on them is defined over
// the snapshot itself.
type BoardService struct {
	shifts  repository.ShiftRepository
	alerts  repository.AlertRepository
	columns []domain.WorkflowColumn
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

// NewBoardService constructs the service. cache may be nil, in which case
// every load hits the store.
func NewBoardService(shifts repository.ShiftRepository, alerts repository.AlertRepository, columns []domain.WorkflowColumn, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *BoardService {
	return &BoardService{
		shifts:  shifts,
		alerts:  alerts,
		columns: columns,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// LoadBoard returns the current board snapshot, preferring the cache.
func (s *BoardService) LoadBoard(ctx context.Context) (*BoardSnapshot, error) {
	if snapshot := s.cachedSnapshot(ctx); snapshot != nil {
		return snapshot, nil
	}

	shifts, err := s.shifts.ListWithFilter(ctx, repository.ShiftFilter{Limit: 1000})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if err := s.attachOpenAlerts(ctx, shifts); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	snapshot := s.buildSnapshot(shifts)
	s.storeSnapshot(ctx, snapshot)
	return snapshot, nil
}

// ListShifts exposes filtered shift listing for the dashboard.
func (s *BoardService) ListShifts(ctx context.Context, filter repository.ShiftFilter) ([]domain.Shift, error) {
	shifts, err := s.shifts.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return shifts, nil
}

func (s *BoardService) buildSnapshot(shifts []domain.Shift) *BoardSnapshot {
	byStatus := make(map[domain.ShiftStatus][]domain.Shift, len(s.columns))
	for i := range shifts {
		byStatus[shifts[i].Status] = append(byStatus[shifts[i].Status], shifts[i])
	}

	columns := make([]BoardColumn, 0, len(s.columns))
	for _, column := range s.columns {
		columnShifts := byStatus[column.ID]
		if columnShifts == nil {
			columnShifts = []domain.Shift{}
		}
		columns = append(columns, BoardColumn{
			ID:                 column.ID,
			Title:              column.Title,
			AllowedTransitions: column.AllowedTransitions,
			RequiresValidation: column.RequiresValidation,
			MaxItems:           column.MaxItems,
			OverCapacity:       column.OverCapacity(len(columnShifts)),
			Shifts:             columnShifts,
		})
	}
	return &BoardSnapshot{
		Columns:     columns,
		Metrics:     ComputeMetrics(shifts),
		GeneratedAt: time.Now(),
	}
}

func (s *BoardService) attachOpenAlerts(ctx context.Context, shifts []domain.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	ids := make([]string, len(shifts))
	index := make(map[string]int, len(shifts))
	for i := range shifts {
		ids[i] = shifts[i].ID
		index[shifts[i].ID] = i
	}
	alerts, err := s.alerts.ListOpenByShiftIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, alert := range alerts {
		if i, ok := index[alert.ShiftID]; ok {
			shifts[i].Alerts = append(shifts[i].Alerts, alert)
		}
	}
	return nil
}

func (s *BoardService) cachedSnapshot(ctx context.Context) *BoardSnapshot {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, boardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("board cache read failed", zap.Error(err))
		}
		return nil
	}
	var snapshot BoardSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.Warn("board cache payload invalid", zap.Error(err))
		return nil
	}
	return &snapshot
}

func (s *BoardService) storeSnapshot(ctx context.Context, snapshot *BoardSnapshot) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("board snapshot marshal failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, boardCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("board cache write failed", zap.Error(err))
	}
}
