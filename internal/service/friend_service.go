package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"abchub/internal/errs"
	"abchub/internal/mirror"
	"abchub/internal/models"
	"abchub/internal/repository"
	"abchub/internal/validation"
)

type FriendService struct {
	store    *repository.Store
	remote   mirror.Mirror
	tasks    Dispatcher
	profiles *ProfileService
	mailer   Mailer
	logger   *zap.Logger
}

func NewFriendService(store *repository.Store, remote mirror.Mirror, tasks Dispatcher, profiles *ProfileService, mailer Mailer, logger *zap.Logger) *FriendService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FriendService{
		store:    store,
		remote:   remote,
		tasks:    tasks,
		profiles: profiles,
		mailer:   mailer,
		logger:   logger.Named("friends"),
	}
}

// AddFriend adds a friend to the local list
func (s *FriendService) AddFriend(friend models.Friend) (*models.Friend, error) {
	if err := validation.ValidateName(friend.Name); err != nil {
		return nil, err
	}
	switch friend.Status {
	case "", models.FriendOnline, models.FriendOffline, models.FriendAway:
	default:
		return nil, validation.ValidationError{Field: "status", Message: "status must be online, offline or away"}
	}

	saved, err := s.store.SaveFriend(friend)
	if err != nil {
		return nil, err
	}
	if s.store.Profile() != nil {
		if _, err := s.profiles.EvaluateAchievements(); err != nil {
			s.logger.Warn("achievement evaluation failed", zap.Error(err))
		}
	}
	return saved, nil
}

func (s *FriendService) RemoveFriend(id string) error {
	for _, f := range s.store.Friends() {
		if f.ID == id {
			return s.store.RemoveFriend(id)
		}
	}
	return errs.ErrFriendNotFound
}

func (s *FriendService) Friends() []models.Friend {
	return s.store.Friends()
}

// InviteFriend sends a friend invite by e-mail through the mirror and SES
func (s *FriendService) InviteFriend(email string) error {
	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}
	profile := s.store.Profile()
	if profile == nil {
		return errs.ErrProfileNotFound
	}

	fromID, fromName := profile.ID, profile.Name
	dispatch(s.tasks, "mirror.friend_invite", func(ctx context.Context) error {
		return s.remote.SendFriendInvite(ctx, fromID, email)
	})
	if s.mailer != nil && s.mailer.IsEnabled() {
		dispatch(s.tasks, "email.friend_invite", func(ctx context.Context) error {
			return s.mailer.SendFriendInvite(ctx, email, fromName)
		})
	}
	return nil
}
