package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

const timetableVersionKey = "timetable:ver"

type cacheLineReader interface {
	ListByOwner(ctx context.Context, ownerType string, ownerID int64) ([]models.ScheduleCacheLine, error)
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool)
}

// GridCell is one occupied hour of an owner's weekly view.
type GridCell struct {
	Hour     int      `json:"hour"`
	Lines    []string `json:"lines"`
	BlockIDs []int64  `json:"block_ids"`
}

// GridDay is one day column with its gap statistic: the span from first to
// last occupied hour minus the occupied count.
type GridDay struct {
	Day       int        `json:"day"`
	Cells     []GridCell `json:"cells"`
	Scheduled int        `json:"scheduled"`
	Gap       int        `json:"gap"`
}

// GridResponse is the rendered weekly view for one owner.
type GridResponse struct {
	OwnerType      string    `json:"owner_type"`
	OwnerID        int64     `json:"owner_id"`
	Days           []GridDay `json:"days"`
	TotalScheduled int       `json:"total_scheduled"`
	TotalGap       int       `json:"total_gap"`
}

// TimetableService renders owner-centric weekly views from the display cache
// and memoizes them in Redis. Invalidation bumps a version key instead of
// scanning, so stale entries just expire.
type TimetableService struct {
	cache   cacheLineReader
	redis   *redis.Client
	ttl     time.Duration
	metrics cacheMetrics
	logger  *zap.Logger
}

// NewTimetableService instantiates TimetableService. A nil Redis client
// disables memoization.
func NewTimetableService(cache cacheLineReader, redisClient *redis.Client, ttl time.Duration, metrics cacheMetrics, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TimetableService{cache: cache, redis: redisClient, ttl: ttl, metrics: metrics, logger: logger}
}

// Grid returns the weekly view for one owner.
func (s *TimetableService) Grid(ctx context.Context, ownerType string, ownerID int64) (*GridResponse, error) {
	switch ownerType {
	case models.OwnerClass, models.OwnerTeacher, models.OwnerRoom:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown owner type")
	}

	key := s.viewKey(ctx, ownerType, ownerID)
	if s.redis != nil && key != "" {
		if raw, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var cached GridResponse
			if json.Unmarshal(raw, &cached) == nil {
				s.recordCache(true)
				return &cached, nil
			}
		}
		s.recordCache(false)
	}

	lines, err := s.cache.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable lines")
	}
	grid := buildGrid(ownerType, ownerID, lines)

	if s.redis != nil && key != "" {
		if raw, err := json.Marshal(grid); err == nil {
			if err := s.redis.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.logger.Warn("failed to memoize timetable view", zap.Error(err))
			}
		}
	}
	return grid, nil
}

// Invalidate drops all memoized views by bumping the version key.
func (s *TimetableService) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Incr(ctx, timetableVersionKey).Err()
}

func (s *TimetableService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}

func (s *TimetableService) viewKey(ctx context.Context, ownerType string, ownerID int64) string {
	if s.redis == nil {
		return ""
	}
	version, err := s.redis.Get(ctx, timetableVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return ""
	}
	return fmt.Sprintf("timetable:v%d:%s:%d", version, ownerType, ownerID)
}

func buildGrid(ownerType string, ownerID int64, lines []models.ScheduleCacheLine) *GridResponse {
	type cellKey struct{ day, hour int }
	cells := make(map[cellKey]*GridCell)
	hoursByDay := make(map[int][]int)

	for _, line := range lines {
		key := cellKey{day: line.Day, hour: line.Hour}
		cell, ok := cells[key]
		if !ok {
			cell = &GridCell{Hour: line.Hour}
			cells[key] = cell
			hoursByDay[line.Day] = append(hoursByDay[line.Day], line.Hour)
		}
		cell.Lines = append(cell.Lines, line.Line)
		cell.BlockIDs = append(cell.BlockIDs, line.BlockID)
	}

	grid := &GridResponse{OwnerType: ownerType, OwnerID: ownerID}
	for day := models.MinDay; day <= models.MaxDay; day++ {
		hours := hoursByDay[day]
		if len(hours) == 0 {
			continue
		}
		sort.Ints(hours)
		gridDay := GridDay{Day: day, Scheduled: len(hours), Gap: GapForHours(hours)}
		for _, hour := range hours {
			gridDay.Cells = append(gridDay.Cells, *cells[cellKey{day: day, hour: hour}])
		}
		grid.Days = append(grid.Days, gridDay)
		grid.TotalScheduled += gridDay.Scheduled
		grid.TotalGap += gridDay.Gap
	}
	return grid
}

// GapForHours counts the idle hours wedged between the first and last
// occupied hour of a day. Hours {1,2} and {5} give (5-1+1)-3 = 2.
func GapForHours(hours []int) int {
	if len(hours) == 0 {
		return 0
	}
	seen := make(map[int]bool, len(hours))
	min, max := hours[0], hours[0]
	for _, h := range hours {
		seen[h] = true
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return (max - min + 1) - len(seen)
}

// BuildCacheLines derives every owner's display lines from placed blocks in
// block-id order. Class cells show "LESSON - teachers", teacher cells show
// "class    LESSON", room cells add the paired teacher.
func BuildCacheLines(placed []models.DistributionBlock, classNames, teacherNames map[int64]string) []models.ScheduleCacheLine {
	var lines []models.ScheduleCacheLine
	for i := range placed {
		b := &placed[i]
		className := displayName(classNames, b.ClassID)
		teachers := b.Teachers()
		teacherList := make([]string, 0, len(teachers))
		for _, id := range teachers {
			teacherList = append(teacherList, displayName(teacherNames, id))
		}
		classLine := fmt.Sprintf("%s - %s", b.LessonCode, strings.Join(teacherList, ", "))
		teacherLine := fmt.Sprintf("%s    %s", className, b.LessonCode)

		for offset := 0; offset < b.Duration; offset++ {
			hour := b.Hour + offset
			lines = append(lines, models.ScheduleCacheLine{
				OwnerType: models.OwnerClass, OwnerID: b.ClassID,
				Day: b.Day, Hour: hour, Line: classLine, BlockID: b.ID,
			})
			for _, teacherID := range teachers {
				lines = append(lines, models.ScheduleCacheLine{
					OwnerType: models.OwnerTeacher, OwnerID: teacherID,
					Day: b.Day, Hour: hour, Line: teacherLine, BlockID: b.ID,
				})
			}
			for position, roomID := range b.RoomIDs {
				if roomID == 0 {
					continue
				}
				pairedTeacher := ""
				if position < len(b.TeacherIDs) && b.TeacherIDs[position] != 0 {
					pairedTeacher = displayName(teacherNames, b.TeacherIDs[position])
				}
				lines = append(lines, models.ScheduleCacheLine{
					OwnerType: models.OwnerRoom, OwnerID: roomID,
					Day: b.Day, Hour: hour,
					Line:    fmt.Sprintf("%s    %s    %s", className, b.LessonCode, pairedTeacher),
					BlockID: b.ID,
				})
			}
		}
	}
	return lines
}

func displayName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}
