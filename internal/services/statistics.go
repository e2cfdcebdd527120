package services

import (
	"context"
	"time"

	"example.com/galleria/services/exhibition/internal/cache"
	"example.com/galleria/services/exhibition/internal/models"
	"example.com/galleria/services/exhibition/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const statsCacheTTL = 5 * time.Minute

// ChecklistProgress is one checklist's completion percentage. Keyed by
// id, not name: the same template instantiated twice yields two
// checklists with identical names.
type ChecklistProgress struct {
	ChecklistID uuid.UUID `json:"checklist_id"`
	Name        string    `json:"name"`
	Completion  float64   `json:"completion"`
}

// ExhibitionStatistics summarizes one exhibition's composition
type ExhibitionStatistics struct {
	ExhibitionID        uuid.UUID                        `json:"exhibition_id"`
	Status              models.ExhibitionStatus          `json:"status"`
	TotalObjects        int64                            `json:"total_objects"`
	ObjectsByStatus     map[models.PlacementStatus]int64 `json:"objects_by_status"`
	SectionCount        int                              `json:"section_count"`
	StorylineCount      int                              `json:"storyline_count"`
	EventCount          int64                            `json:"event_count"`
	TotalInsuranceValue float64                          `json:"total_insurance_value"`
	ChecklistCompletion []ChecklistProgress              `json:"checklist_completion"`
	DaysUntilOpening    *int                             `json:"days_until_opening"`
	DaysUntilClosing    *int                             `json:"days_until_closing"`
	ComputedAt          time.Time                        `json:"computed_at"`
}

// PlatformStatistics summarizes the whole exhibition programme
type PlatformStatistics struct {
	TotalExhibitions   int64                             `json:"total_exhibitions"`
	ByStatus           map[models.ExhibitionStatus]int64 `json:"by_status"`
	ByType             map[models.ExhibitionType]int64   `json:"by_type"`
	CurrentCount       int64                             `json:"current_count"`
	UpcomingCount      int64                             `json:"upcoming_count"`
	ObjectsOnDisplay   int64                             `json:"objects_on_display"`
	InsuranceOnDisplay float64                           `json:"insurance_on_display"`
	ComputedAt         time.Time                         `json:"computed_at"`
}

// StatisticsService computes composition and programme-wide statistics,
// cached briefly because the admin dashboard polls them
type StatisticsService struct {
	exhibitions repositories.ExhibitionRepository
	placements  repositories.PlacementRepository
	sections    repositories.SectionRepository
	storylines  repositories.StorylineRepository
	events      repositories.EventRepository
	checklists  repositories.ChecklistRepository
	cache       *cache.RedisCache
	now         func() time.Time
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(db *gorm.DB, readOnlyDB *gorm.DB, redisCache *cache.RedisCache) *StatisticsService {
	return &StatisticsService{
		exhibitions: repositories.NewExhibitionRepository(db, readOnlyDB),
		placements:  repositories.NewPlacementRepository(db, readOnlyDB),
		sections:    repositories.NewSectionRepository(db, readOnlyDB),
		storylines:  repositories.NewStorylineRepository(db, readOnlyDB),
		events:      repositories.NewEventRepository(db, readOnlyDB),
		checklists:  repositories.NewChecklistRepository(db, readOnlyDB),
		cache:       redisCache,
		now:         time.Now,
	}
}

// GetExhibitionStatistics computes the composition summary for one
// exhibition, served from cache when fresh
func (s *StatisticsService) GetExhibitionStatistics(ctx context.Context, exhibitionID uuid.UUID) (*ExhibitionStatistics, error) {
	if s.cache != nil {
		var cached ExhibitionStatistics
		if err := s.cache.Get(ctx, cache.GetExhibitionStatsCacheKey(exhibitionID), &cached); err == nil {
			return &cached, nil
		}
	}

	exhibition, err := s.exhibitions.GetByID(ctx, exhibitionID, false)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &ExhibitionStatistics{
		ExhibitionID:        exhibitionID,
		Status:              exhibition.Status,
		ChecklistCompletion: []ChecklistProgress{},
		DaysUntilOpening:    DaysUntilOpening(exhibition, now),
		DaysUntilClosing:    DaysUntilClosing(exhibition, now),
		ComputedAt:          now,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		counts, err := s.placements.CountByStatus(groupCtx, exhibitionID)
		if err != nil {
			return err
		}
		stats.ObjectsByStatus = counts
		for _, count := range counts {
			stats.TotalObjects += count
		}
		return nil
	})

	group.Go(func() error {
		total, err := s.placements.SumInsuranceValue(groupCtx, exhibitionID)
		if err != nil {
			return err
		}
		stats.TotalInsuranceValue = total
		return nil
	})

	group.Go(func() error {
		sections, err := s.sections.ListByExhibition(groupCtx, exhibitionID)
		if err != nil {
			return err
		}
		stats.SectionCount = len(sections)
		return nil
	})

	group.Go(func() error {
		storylines, err := s.storylines.ListByExhibition(groupCtx, exhibitionID)
		if err != nil {
			return err
		}
		stats.StorylineCount = len(storylines)
		return nil
	})

	group.Go(func() error {
		count, err := s.events.CountActive(groupCtx, exhibitionID)
		if err != nil {
			return err
		}
		stats.EventCount = count
		return nil
	})

	group.Go(func() error {
		checklists, err := s.checklists.ListByExhibition(groupCtx, exhibitionID)
		if err != nil {
			return err
		}
		for _, checklist := range checklists {
			cl := checklist
			stats.ChecklistCompletion = append(stats.ChecklistCompletion, ChecklistProgress{
				ChecklistID: cl.ID,
				Name:        cl.Name,
				Completion:  ChecklistCompletion(&cl),
			})
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if stats.ObjectsByStatus == nil {
		stats.ObjectsByStatus = map[models.PlacementStatus]int64{}
	}

	s.cacheStats(ctx, cache.GetExhibitionStatsCacheKey(exhibitionID), stats)
	return stats, nil
}

// GetPlatformStatistics computes the programme-wide summary, served from
// cache when fresh. The worker refreshes this on a schedule so dashboard
// reads rarely pay the aggregate cost.
func (s *StatisticsService) GetPlatformStatistics(ctx context.Context) (*PlatformStatistics, error) {
	if s.cache != nil {
		var cached PlatformStatistics
		if err := s.cache.Get(ctx, cache.PlatformStatsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}
	return s.RefreshPlatformStatistics(ctx)
}

// RefreshPlatformStatistics recomputes the programme-wide summary and
// replaces the cached copy
func (s *StatisticsService) RefreshPlatformStatistics(ctx context.Context) (*PlatformStatistics, error) {
	now := s.now()
	stats := &PlatformStatistics{ComputedAt: now}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		counts, err := s.exhibitions.CountByStatus(groupCtx)
		if err != nil {
			return err
		}
		stats.ByStatus = counts
		for _, count := range counts {
			stats.TotalExhibitions += count
		}
		return nil
	})

	group.Go(func() error {
		counts, err := s.exhibitions.CountByType(groupCtx)
		if err != nil {
			return err
		}
		stats.ByType = counts
		return nil
	})

	group.Go(func() error {
		_, total, err := s.exhibitions.Search(groupCtx, repositories.ExhibitionFilter{
			Current: true,
			Now:     toDate(now),
			Limit:   1,
		})
		if err != nil {
			return err
		}
		stats.CurrentCount = total
		return nil
	})

	group.Go(func() error {
		_, total, err := s.exhibitions.Search(groupCtx, repositories.ExhibitionFilter{
			Upcoming: true,
			Now:      toDate(now),
			Limit:    1,
		})
		if err != nil {
			return err
		}
		stats.UpcomingCount = total
		return nil
	})

	group.Go(func() error {
		count, err := s.placements.CountInstalledInOpen(groupCtx)
		if err != nil {
			return err
		}
		stats.ObjectsOnDisplay = count
		return nil
	})

	group.Go(func() error {
		total, err := s.placements.SumInsuranceInOpen(groupCtx)
		if err != nil {
			return err
		}
		stats.InsuranceOnDisplay = total
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if stats.ByStatus == nil {
		stats.ByStatus = map[models.ExhibitionStatus]int64{}
	}
	if stats.ByType == nil {
		stats.ByType = map[models.ExhibitionType]int64{}
	}

	s.cacheStats(ctx, cache.PlatformStatsCacheKey, stats)
	return stats, nil
}

func (s *StatisticsService) cacheStats(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, statsCacheTTL); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Failed to cache statistics")
	}
}
