package repository

import (
	"fmt"

	"abchub/internal/codes"
	"abchub/internal/errs"
	"abchub/internal/models"
)

// Stories returns all saved stories, oldest first
func (s *Store) Stories() []models.Story {
	return load(s, KeyStories, []models.Story{})
}

// SaveStory stores a new story built from the draft. The oldest story is
// evicted once more than MaxStories are kept.
func (s *Store) SaveStory(draft models.StoryDraft) (*models.Story, error) {
	now := s.now()
	id := draft.ID
	if id == "" {
		var err error
		if id, err = codes.GenerateID(now); err != nil {
			return nil, fmt.Errorf("generate story id: %w", err)
		}
	}

	story := models.Story{
		ID:        id,
		Title:     draft.Title,
		Template:  draft.Template,
		Content:   draft.Content,
		CreatedAt: now,
		IsPublic:  draft.IsPublic,
	}

	stories := append(s.Stories(), story)
	if len(stories) > MaxStories {
		stories = append([]models.Story(nil), stories[len(stories)-MaxStories:]...)
	}

	if err := s.save(KeyStories, stories); err != nil {
		return nil, err
	}
	return &story, nil
}

// StoryByID finds a story by id
func (s *Store) StoryByID(id string) (*models.Story, error) {
	for _, story := range s.Stories() {
		if story.ID == id {
			return &story, nil
		}
	}
	return nil, errs.ErrStoryNotFound
}

// DeleteStory removes the story with the given id. Deleting an unknown id
// rewrites the collection unchanged.
func (s *Store) DeleteStory(id string) error {
	stories := s.Stories()
	kept := stories[:0]
	for _, story := range stories {
		if story.ID != id {
			kept = append(kept, story)
		}
	}
	return s.save(KeyStories, kept)
}
