package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

type validatorAssignmentStore interface {
	ListAll(ctx context.Context) ([]models.ClassLessonAssignment, error)
	ListAllTeachers(ctx context.Context) ([]models.TeacherAssignment, error)
	DeleteByClassMissing(ctx context.Context, exec sqlx.ExtContext) ([]int64, error)
	DeleteTeachersOrphaned(ctx context.Context, exec sqlx.ExtContext) (int64, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
	DeleteTeachersByAssignment(ctx context.Context, exec sqlx.ExtContext, classLessonID int64) error
}

type validatorBlockStore interface {
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	ListAll(ctx context.Context) ([]models.DistributionBlock, error)
	ListPlaced(ctx context.Context) ([]models.DistributionBlock, error)
	DeleteOrphaned(ctx context.Context, exec sqlx.ExtContext) (int64, error)
	DeleteByAssignment(ctx context.Context, exec sqlx.ExtContext, classLessonID int64) error
	Unplace(ctx context.Context, exec sqlx.ExtContext, id int64) error
	OverwriteTeacherSlots(ctx context.Context, exec sqlx.ExtContext, id int64, teacherIDs, roomIDs pq.Int64Array) error
}

type validatorLessonStore interface {
	List(ctx context.Context) ([]models.Lesson, error)
}

type nameMapReader interface {
	NameMap(ctx context.Context) (map[int64]string, error)
}

type displayCacheStore interface {
	ClearAll(ctx context.Context, exec sqlx.ExtContext) error
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, lines []models.ScheduleCacheLine) error
}

type reportStore interface {
	Create(ctx context.Context, report *models.ValidationReport) error
	FindByID(ctx context.Context, id string) (*models.ValidationReport, error)
	ListRecent(ctx context.Context, limit int) ([]models.ValidationReport, error)
}

type validatorMetrics interface {
	ValidatorRun(took time.Duration, findings, repaired int)
}

// ValidatorService runs the eight-step conflict detection and self-healing
// pass. Each step applies its repairs before the next one runs, so a single
// run converges; running it again on an untouched store yields no repairs.
type ValidatorService struct {
	assignments validatorAssignmentStore
	blocks      validatorBlockStore
	lessons     validatorLessonStore
	classes     nameMapReader
	teachers    nameMapReader
	cache       displayCacheStore
	reports     reportStore
	regenerator blockRegenerator
	sessions    sessionStaler
	views       viewInvalidator
	metrics     validatorMetrics
	logger      *zap.Logger
}

// NewValidatorService instantiates ValidatorService.
func NewValidatorService(assignments validatorAssignmentStore, blocks validatorBlockStore, lessons validatorLessonStore, classes, teachers nameMapReader, cache displayCacheStore, reports reportStore, regenerator blockRegenerator, sessions sessionStaler, views viewInvalidator, metrics validatorMetrics, logger *zap.Logger) *ValidatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidatorService{
		assignments: assignments,
		blocks:      blocks,
		lessons:     lessons,
		classes:     classes,
		teachers:    teachers,
		cache:       cache,
		reports:     reports,
		regenerator: regenerator,
		sessions:    sessions,
		views:       views,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetReport loads one stored report.
func (s *ValidatorService) GetReport(ctx context.Context, id string) (*models.ValidationReport, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	decodeFindings(report)
	return report, nil
}

// ListReports returns the latest reports.
func (s *ValidatorService) ListReports(ctx context.Context, limit int) ([]models.ValidationReport, error) {
	reports, err := s.reports.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	for i := range reports {
		decodeFindings(&reports[i])
	}
	return reports, nil
}

// Run executes the full validation pass and persists a report.
func (s *ValidatorService) Run(ctx context.Context) (*models.ValidationReport, error) {
	start := time.Now()
	var findings []models.Finding
	repaired := 0

	// Step 1: orphan cleanup.
	orphans, err := s.cleanOrphans(ctx)
	if err != nil {
		return nil, err
	}
	if orphans > 0 {
		findings = append(findings, models.Finding{
			Category: models.FindingOrphan,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("removed %d orphaned rows", orphans),
		})
		repaired += orphans
	}

	placed, err := s.blocks.ListPlaced(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placed blocks")
	}

	// Steps 2-4: class, teacher and room double-bookings. Each scan sees the
	// previous step's repairs.
	for _, scan := range []struct {
		category string
		noun     string
		owners   func(*models.DistributionBlock) []int64
	}{
		{models.FindingClassConflict, "class", func(b *models.DistributionBlock) []int64 { return []int64{b.ClassID} }},
		{models.FindingTeacherConflict, "teacher", func(b *models.DistributionBlock) []int64 { return b.Teachers() }},
		{models.FindingRoomConflict, "room", func(b *models.DistributionBlock) []int64 { return b.Rooms() }},
	} {
		losers, standing := resolveCollisions(placed, scan.owners)
		if len(losers) > 0 {
			if err := s.unplaceAll(ctx, losers); err != nil {
				return nil, err
			}
			placed = dropBlocks(placed, losers)
			findings = append(findings, models.Finding{
				Category: scan.category,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("unplaced %d blocks on %s double-bookings: %v", len(losers), scan.noun, losers),
			})
			repaired += len(losers)
		}
		for _, msg := range standing {
			findings = append(findings, models.Finding{
				Category: scan.category,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("unresolved %s conflict between protected blocks: %s", scan.noun, msg),
			})
		}
	}

	// Steps 5-7 need the roster and lesson catalogs.
	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	rosters, err := s.rosterIndex(ctx)
	if err != nil {
		return nil, err
	}
	lessonsByID, err := s.lessonIndex(ctx)
	if err != nil {
		return nil, err
	}

	stepFindings, stepRepairs, err := s.repairDurations(ctx, assignments, rosters)
	if err != nil {
		return nil, err
	}
	findings = append(findings, stepFindings...)
	repaired += stepRepairs

	// Regeneration replaced block sets; reload before the read-only passes.
	allBlocks, err := s.blocks.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blocks")
	}
	byAssignment := groupByAssignment(allBlocks)

	// Step 6: pattern drift, report only.
	findings = append(findings, s.detectPatternDrift(assignments, byAssignment, lessonsByID)...)

	// Step 7: positional roster sync.
	stepFindings, stepRepairs, err = s.syncTeacherSlots(ctx, byAssignment, rosters)
	if err != nil {
		return nil, err
	}
	findings = append(findings, stepFindings...)
	repaired += stepRepairs

	// Step 8: display cache resync.
	lineCount, err := s.resyncDisplayCache(ctx)
	if err != nil {
		return nil, err
	}
	findings = append(findings, models.Finding{
		Category: models.FindingCacheResync,
		Severity: models.SeverityInfo,
		Message:  fmt.Sprintf("rebuilt %d display lines", lineCount),
	})

	report := &models.ValidationReport{
		ID:       uuid.NewString(),
		Findings: findings,
		Repaired: repaired,
		TookMS:   time.Since(start).Milliseconds(),
	}
	if encoded, err := json.Marshal(findings); err == nil {
		report.FindingsJS = encoded
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	if repaired > 0 && s.sessions != nil {
		s.sessions.MarkMutation()
	}
	if s.views != nil {
		if err := s.views.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate timetable views", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.ValidatorRun(time.Since(start), len(findings), repaired)
	}
	s.logger.Info("validation run finished",
		zap.String("report_id", report.ID),
		zap.Int("findings", len(findings)),
		zap.Int("repaired", repaired),
		zap.Int64("took_ms", report.TookMS))
	return report, nil
}

func (s *ValidatorService) cleanOrphans(ctx context.Context) (int, error) {
	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	var ids []int64
	if ids, err = s.assignments.DeleteByClassMissing(ctx, tx); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete orphaned assignments")
	}
	var orphanBlocks int64
	if orphanBlocks, err = s.blocks.DeleteOrphaned(ctx, tx); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete orphaned blocks")
	}
	var orphanRoster int64
	if orphanRoster, err = s.assignments.DeleteTeachersOrphaned(ctx, tx); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete orphaned roster rows")
	}
	if err = tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return len(ids) + int(orphanBlocks) + int(orphanRoster), nil
}

func (s *ValidatorService) unplaceAll(ctx context.Context, ids []int64) error {
	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, id := range ids {
		if err = s.blocks.Unplace(ctx, tx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unplace block")
		}
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return nil
}

// repairDurations is step 5: assignments whose block durations no longer sum
// to the contracted hours are regenerated; assignments left without any
// teacher are cascade-deleted.
func (s *ValidatorService) repairDurations(ctx context.Context, assignments []models.ClassLessonAssignment, rosters map[int64][]models.TeacherAssignment) ([]models.Finding, int, error) {
	var findings []models.Finding
	repaired := 0

	allBlocks, err := s.blocks.ListAll(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blocks")
	}
	byAssignment := groupByAssignment(allBlocks)

	for _, assignment := range assignments {
		if len(rosters[assignment.ID]) == 0 {
			if err := s.cascadeDelete(ctx, assignment.ID); err != nil {
				return nil, 0, err
			}
			findings = append(findings, models.Finding{
				Category: models.FindingDuration,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("assignment %d has no teachers; removed with its blocks", assignment.ID),
			})
			repaired++
			continue
		}
		sum := 0
		for _, b := range byAssignment[assignment.ID] {
			sum += b.Duration
		}
		if sum == assignment.TotalHours {
			continue
		}
		if _, err := s.regenerator.Regenerate(ctx, assignment.ID); err != nil {
			return nil, 0, err
		}
		findings = append(findings, models.Finding{
			Category: models.FindingDuration,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("assignment %d covered %d of %d hours; blocks regenerated", assignment.ID, sum, assignment.TotalHours),
		})
		repaired++
	}
	return findings, repaired, nil
}

func (s *ValidatorService) cascadeDelete(ctx context.Context, assignmentID int64) error {
	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.blocks.DeleteByAssignment(ctx, tx, assignmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete blocks")
	}
	if err = s.assignments.DeleteTeachersByAssignment(ctx, tx, assignmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete roster")
	}
	if err = s.assignments.Delete(ctx, tx, assignmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return nil
}

// detectPatternDrift is step 6: block sizes that no longer match the lesson's
// canonical expansion are reported but never repaired here, manual splits are
// legitimate.
func (s *ValidatorService) detectPatternDrift(assignments []models.ClassLessonAssignment, byAssignment map[int64][]models.DistributionBlock, lessons map[int64]models.Lesson) []models.Finding {
	var findings []models.Finding
	for _, assignment := range assignments {
		lesson, ok := lessons[assignment.LessonID]
		if !ok {
			continue
		}
		blocks := byAssignment[assignment.ID]
		sum := 0
		actual := make([]int, 0, len(blocks))
		for _, b := range blocks {
			sum += b.Duration
			actual = append(actual, b.Duration)
		}
		if sum != assignment.TotalHours {
			continue
		}
		expected := expectedDurations(lesson.BlockPattern, assignment.TotalHours)
		if sameMultiset(actual, expected) {
			continue
		}
		findings = append(findings, models.Finding{
			Category: models.FindingPatternDrift,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("assignment %d blocks %v drift from pattern %q expansion %v", assignment.ID, actual, lesson.BlockPattern, expected),
		})
	}
	return findings
}

// syncTeacherSlots is step 7: block teacher slots are overwritten from the
// roster positions; room pairings survive where the teacher at the position
// is unchanged.
func (s *ValidatorService) syncTeacherSlots(ctx context.Context, byAssignment map[int64][]models.DistributionBlock, rosters map[int64][]models.TeacherAssignment) ([]models.Finding, int, error) {
	var findings []models.Finding
	repaired := 0

	assignmentIDs := make([]int64, 0, len(byAssignment))
	for id := range byAssignment {
		assignmentIDs = append(assignmentIDs, id)
	}
	sort.Slice(assignmentIDs, func(i, j int) bool { return assignmentIDs[i] < assignmentIDs[j] })

	for _, assignmentID := range assignmentIDs {
		roster := rosters[assignmentID]
		if len(roster) == 0 {
			continue
		}
		desired, _ := rosterSlots(roster)
		for _, block := range byAssignment[assignmentID] {
			if sameSlots(block.TeacherIDs, desired) {
				continue
			}
			rooms := make(pq.Int64Array, len(desired))
			for i := range desired {
				if i < len(block.TeacherIDs) && i < len(block.RoomIDs) && block.TeacherIDs[i] == desired[i] {
					rooms[i] = block.RoomIDs[i]
				}
			}
			if err := s.overwriteSlots(ctx, block.ID, desired, rooms); err != nil {
				return nil, 0, err
			}
			findings = append(findings, models.Finding{
				Category: models.FindingRosterSync,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("block %d teacher slots resynced from roster", block.ID),
			})
			repaired++
		}
	}
	return findings, repaired, nil
}

func (s *ValidatorService) overwriteSlots(ctx context.Context, blockID int64, teacherIDs, roomIDs pq.Int64Array) error {
	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.blocks.OverwriteTeacherSlots(ctx, tx, blockID, teacherIDs, roomIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to overwrite teacher slots")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return nil
}

// resyncDisplayCache is step 8: the denormalized grid lines are dropped and
// rebuilt from placed blocks in block-id order.
func (s *ValidatorService) resyncDisplayCache(ctx context.Context) (int, error) {
	placed, err := s.blocks.ListPlaced(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placed blocks")
	}
	classNames, err := s.classes.NameMap(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class names")
	}
	teacherNames, err := s.teachers.NameMap(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher names")
	}
	lines := BuildCacheLines(placed, classNames, teacherNames)

	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.cache.ClearAll(ctx, tx); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear display cache")
	}
	if err = s.cache.InsertBatch(ctx, tx, lines); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert display lines")
	}
	if err = tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return len(lines), nil
}

func (s *ValidatorService) rosterIndex(ctx context.Context) (map[int64][]models.TeacherAssignment, error) {
	rows, err := s.assignments.ListAllTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rosters")
	}
	rosters := make(map[int64][]models.TeacherAssignment)
	for _, row := range rows {
		rosters[row.ClassLessonID] = append(rosters[row.ClassLessonID], row)
	}
	return rosters, nil
}

func (s *ValidatorService) lessonIndex(ctx context.Context) (map[int64]models.Lesson, error) {
	lessons, err := s.lessons.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	index := make(map[int64]models.Lesson, len(lessons))
	for _, lesson := range lessons {
		index[lesson.ID] = lesson
	}
	return index, nil
}

type slotOccupancy struct {
	owner int64
	day   int
	hour  int
}

// resolveCollisions finds double-booked slots along one ownership dimension.
// Among free colliders the smallest id survives; if a protected block also
// holds the slot every free collider loses. Conflicts between protected
// blocks are returned as standing descriptions, they are never auto-repaired.
// Input blocks must be ordered by id.
func resolveCollisions(placed []models.DistributionBlock, owners func(*models.DistributionBlock) []int64) ([]int64, []string) {
	occupancy := make(map[slotOccupancy][]*models.DistributionBlock)
	var keys []slotOccupancy
	for i := range placed {
		b := &placed[i]
		for offset := 0; offset < b.Duration; offset++ {
			for _, owner := range owners(b) {
				key := slotOccupancy{owner: owner, day: b.Day, hour: b.Hour + offset}
				if len(occupancy[key]) == 0 {
					keys = append(keys, key)
				}
				occupancy[key] = append(occupancy[key], b)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.owner != b.owner {
			return a.owner < b.owner
		}
		if a.day != b.day {
			return a.day < b.day
		}
		return a.hour < b.hour
	})

	lost := make(map[int64]bool)
	var losers []int64
	var standing []string
	for _, key := range keys {
		var free, protected []*models.DistributionBlock
		for _, b := range occupancy[key] {
			if lost[b.ID] {
				continue
			}
			if b.Protected() {
				protected = append(protected, b)
			} else {
				free = append(free, b)
			}
		}
		if len(free)+len(protected) <= 1 {
			continue
		}
		keepFree := len(protected) == 0
		for i, b := range free {
			if keepFree && i == 0 {
				continue
			}
			if !lost[b.ID] {
				lost[b.ID] = true
				losers = append(losers, b.ID)
			}
		}
		if len(protected) > 1 {
			ids := make([]string, 0, len(protected))
			for _, b := range protected {
				ids = append(ids, fmt.Sprintf("%d", b.ID))
			}
			standing = append(standing, fmt.Sprintf("owner %d day %d hour %d blocks %s", key.owner, key.day, key.hour, strings.Join(ids, ",")))
		}
	}
	return losers, standing
}

func dropBlocks(blocks []models.DistributionBlock, ids []int64) []models.DistributionBlock {
	removed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}
	kept := blocks[:0]
	for _, b := range blocks {
		if !removed[b.ID] {
			kept = append(kept, b)
		}
	}
	return kept
}

func groupByAssignment(blocks []models.DistributionBlock) map[int64][]models.DistributionBlock {
	grouped := make(map[int64][]models.DistributionBlock)
	for _, b := range blocks {
		grouped[b.ClassLessonID] = append(grouped[b.ClassLessonID], b)
	}
	return grouped
}

func sameMultiset(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]int(nil), a...)
	bs := append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sameSlots(a, b pq.Int64Array) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func decodeFindings(report *models.ValidationReport) {
	if len(report.FindingsJS) == 0 {
		return
	}
	_ = json.Unmarshal(report.FindingsJS, &report.Findings)
}
