package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abchub/internal/catalog"
	"abchub/internal/errs"
	"abchub/internal/mirror"
	"abchub/internal/models"
	"abchub/internal/repository"
)

func achievementIDs(list []catalog.Achievement) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestCreateProfile(t *testing.T) {
	remote := &fakeMirror{}
	h := newHarness(t, remote)

	_, err := h.profiles.Profile()
	assert.ErrorIs(t, err, errs.ErrProfileNotFound)

	_, err = h.profiles.CreateProfile("A")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	profile, err := h.profiles.CreateProfile("Ava")
	require.NoError(t, err)
	assert.Equal(t, "Ava", profile.Name)
	assert.NotEmpty(t, profile.ID)
	assert.NotEmpty(t, profile.Avatar)
	assert.Empty(t, profile.Achievements)

	again, err := h.profiles.CreateProfile("Someone Else")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
	assert.Equal(t, "Ava", again.Name)

	h.flush()
	assert.Equal(t, []string{"update_profile"}, remote.Calls())
}

func TestCreateProfileDefaultName(t *testing.T) {
	h := newHarness(t, mirror.Nop{})

	profile, err := h.profiles.CreateProfile("")
	require.NoError(t, err)
	assert.Equal(t, "Player", profile.Name)
}

func TestRecordGameScore(t *testing.T) {
	h := newHarness(t, mirror.Nop{})

	_, err := h.profiles.RecordGameScore("alphabet", 40)
	assert.ErrorIs(t, err, errs.ErrProfileNotFound)

	_, err = h.profiles.CreateProfile("Ava")
	require.NoError(t, err)

	_, err = h.profiles.RecordGameScore("Not A Game", 40)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	unlocked, err := h.profiles.RecordGameScore("alphabet", 40)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	unlocked, err = h.profiles.RecordGameScore("alphabet", 61)
	require.NoError(t, err)
	assert.Equal(t, []string{"two_games"}, achievementIDs(unlocked))

	unlocked, err = h.profiles.RecordGameScore("alphabet", 10)
	require.NoError(t, err)
	assert.Empty(t, unlocked, "achievements unlock once")

	profile, err := h.profiles.Profile()
	require.NoError(t, err)
	assert.Equal(t, 111, profile.TotalScore)
	assert.Equal(t, 3, profile.GamesPlayed)
	assert.Equal(t, []string{"two_games"}, profile.Achievements)
	assert.Equal(t, 37, h.profiles.AverageScore("alphabet"))
	assert.Len(t, h.profiles.GameScores()["alphabet"], 3)

	statuses := h.profiles.Achievements()
	require.Len(t, statuses, 5)
	for _, s := range statuses {
		if s.ID == "two_games" {
			assert.True(t, s.Unlocked)
			assert.NotNil(t, s.UnlockedAt)
		} else {
			assert.False(t, s.Unlocked, s.ID)
			assert.Nil(t, s.UnlockedAt)
		}
	}
}

func TestRecordGameScoreKeepsTotalsInStep(t *testing.T) {
	medium := &failingMedium{MemoryMedium: repository.NewMemoryMedium(), failOn: map[string]bool{}}
	h := newHarnessOn(t, mirror.Nop{}, medium)

	_, err := h.profiles.CreateProfile("Ava")
	require.NoError(t, err)
	_, err = h.profiles.RecordGameScore("alphabet", 40)
	require.NoError(t, err)

	medium.failOn[repository.KeyScores] = true
	_, err = h.profiles.RecordGameScore("alphabet", 25)
	require.Error(t, err)

	profile, err := h.profiles.Profile()
	require.NoError(t, err)
	assert.Equal(t, 40, profile.TotalScore)
	assert.Equal(t, 1, profile.GamesPlayed)
	assert.Len(t, h.profiles.GameScores()["alphabet"], 1)

	medium.failOn = map[string]bool{repository.KeyProfile: true}
	_, err = h.profiles.RecordGameScore("alphabet", 25)
	require.Error(t, err)
	assert.Len(t, h.profiles.GameScores()["alphabet"], 1)
}

func TestRecordSessionOutcome(t *testing.T) {
	h := newHarness(t, mirror.Nop{})
	h.becomeUser(t, "me", "Ava")

	open := &models.Session{ID: "open", Status: models.SessionActive, WinnerID: "me"}
	unlocked, err := h.profiles.RecordSessionOutcome(open)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	lost := &models.Session{
		ID:       "lost",
		Status:   models.SessionCompleted,
		WinnerID: "rival",
		Results:  []models.SessionResult{{UserID: "rival", Accuracy: 99}, {UserID: "me", Accuracy: 70}},
	}
	unlocked, err = h.profiles.RecordSessionOutcome(lost)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	won := &models.Session{
		ID:       "won",
		Status:   models.SessionCompleted,
		WinnerID: "me",
		Results:  []models.SessionResult{{UserID: "me", Accuracy: 96}},
	}
	unlocked, err = h.profiles.RecordSessionOutcome(won)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"champion", "sharp"}, achievementIDs(unlocked))

	profile, err := h.profiles.Profile()
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Stats.SessionsWon)
	assert.Equal(t, 96, profile.Stats.Accuracy)
}
