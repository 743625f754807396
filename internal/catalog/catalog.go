// Package catalog holds the static game and achievement definitions
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Requirement types understood by achievement evaluation
const (
	RequirementStoriesCreated      = "stories_created"
	RequirementAccuracy            = "accuracy"
	RequirementChallengesCompleted = "challenges_completed"
	RequirementFriendsInvited      = "friends_invited"
	RequirementSessionsWon         = "sessions_won"
)

const (
	// FallbackSessionGameName names sessions created for an unknown game
	FallbackSessionGameName = "Game"
	// UnknownGameName is displayed for an unknown game id
	UnknownGameName = "Unknown Game"
)

type Game struct {
	ID                   string `yaml:"id" json:"id"`
	Name                 string `yaml:"name" json:"name"`
	Icon                 string `yaml:"icon" json:"icon"`
	Description          string `yaml:"description" json:"description"`
	Color                string `yaml:"color" json:"color"`
	SessionLengthMinutes int    `yaml:"sessionLengthMinutes" json:"sessionLengthMinutes"`
}

type Requirement struct {
	Type  string `yaml:"type" json:"type"`
	Value int    `yaml:"value" json:"value"`
}

type Achievement struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Icon        string      `yaml:"icon" json:"icon"`
	Requirement Requirement `yaml:"requirement" json:"requirement"`
}

// Catalog is the parsed game and achievement list
type Catalog struct {
	Games        []Game        `yaml:"games" json:"games"`
	Achievements []Achievement `yaml:"achievements" json:"achievements"`

	byID map[string]Game
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the embedded one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c.byID = make(map[string]Game, len(c.Games))
	for _, g := range c.Games {
		if g.ID == "" {
			return nil, fmt.Errorf("catalog game %q has no id", g.Name)
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog game id %q", g.ID)
		}
		c.byID[g.ID] = g
	}

	for _, a := range c.Achievements {
		switch a.Requirement.Type {
		case RequirementStoriesCreated, RequirementAccuracy, RequirementChallengesCompleted,
			RequirementFriendsInvited, RequirementSessionsWon:
		default:
			return nil, fmt.Errorf("achievement %q has unknown requirement type %q", a.ID, a.Requirement.Type)
		}
	}

	return &c, nil
}

// Game looks up a game by id
func (c *Catalog) Game(id string) (Game, bool) {
	g, ok := c.byID[id]
	return g, ok
}

// SessionGameName is the game name used when naming a new session
func (c *Catalog) SessionGameName(id string) string {
	if g, ok := c.byID[id]; ok {
		return g.Name
	}
	return FallbackSessionGameName
}

// DisplayName is the game name shown on session cards and leaderboards
func (c *Catalog) DisplayName(id string) string {
	if g, ok := c.byID[id]; ok {
		return g.Name
	}
	return UnknownGameName
}
