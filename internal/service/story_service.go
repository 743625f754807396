package service

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"abchub/internal/mirror"
	"abchub/internal/models"
	"abchub/internal/repository"
	"abchub/internal/validation"
)

const DefaultTrendingLimit = 20

type StoryService struct {
	store    *repository.Store
	remote   mirror.Mirror
	tasks    Dispatcher
	profiles *ProfileService
	logger   *zap.Logger
}

func NewStoryService(store *repository.Store, remote mirror.Mirror, tasks Dispatcher, profiles *ProfileService, logger *zap.Logger) *StoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoryService{
		store:    store,
		remote:   remote,
		tasks:    tasks,
		profiles: profiles,
		logger:   logger.Named("stories"),
	}
}

// SaveStory stores a story, counts it on the profile and publishes public
// stories in the background.
func (s *StoryService) SaveStory(draft models.StoryDraft) (*models.Story, error) {
	if err := validation.ValidateStoryTitle(draft.Title); err != nil {
		return nil, err
	}

	story, err := s.store.SaveStory(draft)
	if err != nil {
		return nil, err
	}

	profile := s.store.Profile()
	if profile == nil {
		return story, nil
	}

	profile.Stats.StoriesCreated++
	if err := s.store.SaveProfile(profile); err != nil {
		s.logger.Warn("story saved but profile stats not updated", zap.Error(err))
	} else if _, err := s.profiles.EvaluateAchievements(); err != nil {
		s.logger.Warn("achievement evaluation failed", zap.Error(err))
	}

	if story.IsPublic {
		published := *story
		authorID := profile.ID
		dispatch(s.tasks, "mirror.publish_story", func(ctx context.Context) error {
			return s.remote.PublishStory(ctx, authorID, published)
		})
	}
	return story, nil
}

func (s *StoryService) Stories() []models.Story {
	return s.store.Stories()
}

func (s *StoryService) Story(id string) (*models.Story, error) {
	return s.store.StoryByID(id)
}

func (s *StoryService) DeleteStory(id string) error {
	if _, err := s.store.StoryByID(id); err != nil {
		return err
	}
	return s.store.DeleteStory(id)
}

// TrendingStories asks the remote for the most liked public stories. Without
// a mirror it returns the newest local public stories.
func (s *StoryService) TrendingStories(ctx context.Context, limit int) ([]models.Story, error) {
	stories, err := s.RemoteTrending(ctx, limit)
	if errors.Is(err, mirror.ErrDisabled) {
		return s.LocalTrending(limit), nil
	}
	return stories, err
}

// RemoteTrending asks the mirror only. A failing mirror yields no stories;
// mirror.ErrDisabled is returned when there is no mirror.
func (s *StoryService) RemoteTrending(ctx context.Context, limit int) ([]models.Story, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	stories, err := s.remote.TrendingStories(ctx, limit)
	switch {
	case err == nil:
		return nonNil(stories), nil
	case errors.Is(err, mirror.ErrDisabled):
		return nil, err
	default:
		s.logger.Warn("remote trending stories unavailable", zap.Error(err))
		return []models.Story{}, nil
	}
}

// LocalTrending lists local public stories, newest first
func (s *StoryService) LocalTrending(limit int) []models.Story {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	var public []models.Story
	for _, story := range s.store.Stories() {
		if story.IsPublic {
			public = append(public, story)
		}
	}
	slices.Reverse(public)
	if len(public) > limit {
		public = public[:limit]
	}
	return nonNil(public)
}

// LikeStory sends a like to the remote; counters are not kept locally
func (s *StoryService) LikeStory(id string) {
	dispatch(s.tasks, "mirror.like_story", func(ctx context.Context) error {
		return s.remote.LikeStory(ctx, id)
	})
}
