package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/behavior"
	"github.com/leaguehq/draftsim/internal/models"
	"github.com/leaguehq/draftsim/internal/profile"
	"github.com/leaguehq/draftsim/internal/storage"
)

// ProfileService builds member profiles and behavior models from stored
// history, memoized through the explicit cache. Cache keys include the
// record count so a profile is rebuilt whenever the record set changes.
type ProfileService struct {
	store     *storage.RecordStore
	cache     *CacheService
	profiles  *profile.Builder
	behaviors *behavior.Builder
	cacheTTL  time.Duration
	logger    *logrus.Logger
}

// NewProfileService creates a profile service; cache may be nil.
func NewProfileService(store *storage.RecordStore, cache *CacheService, profiles *profile.Builder, behaviors *behavior.Builder, cacheTTL time.Duration, logger *logrus.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		cache:     cache,
		profiles:  profiles,
		behaviors: behaviors,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// GetProfile returns the member's profile for a league, from cache when
// the record set is unchanged.
func (s *ProfileService) GetProfile(ctx context.Context, league, memberID string) (*models.MemberProfile, error) {
	records, err := s.memberRecords(league, memberID)
	if err != nil {
		return nil, err
	}

	key := ProfileCacheKey(memberID, len(records))
	if s.cache != nil {
		var cached models.MemberProfile
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	built := s.profiles.Build(memberID, records)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, built, s.cacheTTL); err != nil {
			s.logger.Warnf("Failed to cache profile for %s: %v", memberID, err)
		}
	}
	return built, nil
}

// GetModel returns the member's compiled behavior model.
func (s *ProfileService) GetModel(ctx context.Context, league, memberID string) (*models.BehaviorModel, error) {
	records, err := s.memberRecords(league, memberID)
	if err != nil {
		return nil, err
	}

	key := ModelCacheKey(memberID, len(records))
	if s.cache != nil {
		var cached models.BehaviorModel
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	memberProfile := s.profiles.Build(memberID, records)
	model := s.behaviors.Build(memberProfile, records)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, model, s.cacheTTL); err != nil {
			s.logger.Warnf("Failed to cache behavior model for %s: %v", memberID, err)
		}
	}
	return model, nil
}

// BuildModels compiles behavior models for every requested member.
func (s *ProfileService) BuildModels(ctx context.Context, league string, memberIDs []string) (map[string]*models.BehaviorModel, error) {
	behaviorModels := make(map[string]*models.BehaviorModel, len(memberIDs))
	for _, memberID := range memberIDs {
		model, err := s.GetModel(ctx, league, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to build model for %s: %w", memberID, err)
		}
		behaviorModels[memberID] = model
	}
	return behaviorModels, nil
}

// Members lists known member ids for a league.
func (s *ProfileService) Members(league string) ([]string, error) {
	records, err := s.store.LoadLeague(league)
	if err != nil {
		return nil, err
	}
	return storage.Members(records), nil
}

func (s *ProfileService) memberRecords(league, memberID string) ([]*models.DraftRecord, error) {
	records, err := s.store.LoadLeague(league)
	if err != nil {
		return nil, err
	}
	return storage.RecordsForMember(records, memberID), nil
}
