// Package text provides loading and lookup for player-facing messages.
package text

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// TextData represents the structure of the messages.yaml file.
type TextData struct {
	Announce string       `yaml:"announce"`
	Tracker  TrackerText  `yaml:"tracker"`
	Immunity ImmunityText `yaml:"immunity"`
	Reward   RewardText   `yaml:"reward"`
}

// TrackerText contains population change notices. Each is a format string
// taking player name, instance name and, for entered/left, the effective
// player count and the difficulty offset.
type TrackerText struct {
	Entered    string `yaml:"entered"`
	Left       string `yaml:"left"`
	LeftCombat string `yaml:"left_combat"`
}

// ImmunityText contains crowd-control immunity notices.
type ImmunityText struct {
	PlayerApplied string `yaml:"player_applied"`
	PlayerRemoved string `yaml:"player_removed"`
	PetApplied    string `yaml:"pet_applied"`
	PetRemoved    string `yaml:"pet_removed"`
}

// RewardText contains encounter reward notices.
type RewardText struct {
	Granted string `yaml:"granted"`
}

// Text provides text lookup functionality.
type Text struct {
	data *TextData
	mu   sync.RWMutex
}

var (
	instance *Text
	once     sync.Once
	defaults = Default()
)

// DefaultData returns the built-in messages.
func DefaultData() TextData {
	return TextData{
		Announce: "This server is running the AutoBalance module.",
		Tracker: TrackerText{
			Entered:    "[AutoBalance] %s entered the Instance %s. Auto setting player count to %d (Player Difficulty Offset = %d)",
			Left:       "[AutoBalance] %s left the Instance %s. Auto setting player count to %d (Player Difficulty Offset = %d)",
			LeftCombat: "[AutoBalance] %s left the instance %s during combat, re-enter the instance to fix the scaling",
		},
		Immunity: ImmunityText{
			PlayerApplied: "[AutoBalance] Player immunities applied",
			PlayerRemoved: "[AutoBalance] Player immunities removed",
			PetApplied:    "[AutoBalance] Pet immunities applied",
			PetRemoved:    "[AutoBalance] Pet immunities removed",
		},
		Reward: RewardText{
			Granted: "[AutoBalance] You received %d x item %d for defeating %s.",
		},
	}
}

// Default returns a Text holding only the built-in messages.
func Default() *Text {
	data := DefaultData()
	return &Text{data: &data}
}

// Load loads text data from a YAML file. Messages the file leaves out keep
// their built-in wording.
func Load(path string) (*Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	textData := DefaultData()
	if err := yaml.Unmarshal(data, &textData); err != nil {
		return nil, fmt.Errorf("failed to parse text file: %w", err)
	}

	return &Text{data: &textData}, nil
}

// GetInstance returns the singleton text instance, or the built-in messages
// if Initialize has not been called.
func GetInstance() *Text {
	if instance == nil {
		return defaults
	}
	return instance
}

// Initialize loads the text data and sets the singleton instance.
func Initialize(path string) error {
	var err error
	once.Do(func() {
		instance, err = Load(path)
	})
	return err
}

func (t *Text) get(field func(*TextData) string, fallback func(*TextData) string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if s := strings.TrimSpace(field(t.data)); s != "" {
		return s
	}
	return fallback(defaults.data)
}

// Announce returns the login announcement.
func (t *Text) Announce() string {
	f := func(d *TextData) string { return d.Announce }
	return t.get(f, f)
}

// PlayerEntered formats the notice sent when a player enters an instance.
func (t *Text) PlayerEntered(player, instance string, count uint32, offset int) string {
	f := func(d *TextData) string { return d.Tracker.Entered }
	return fmt.Sprintf(t.get(f, f), player, instance, count, offset)
}

// PlayerLeft formats the notice sent when a player leaves an instance.
func (t *Text) PlayerLeft(player, instance string, count uint32, offset int) string {
	f := func(d *TextData) string { return d.Tracker.Left }
	return fmt.Sprintf(t.get(f, f), player, instance, count, offset)
}

// PlayerLeftInCombat formats the notice sent when a player leaves while the
// group is fighting and the count is kept.
func (t *Text) PlayerLeftInCombat(player, instance string) string {
	f := func(d *TextData) string { return d.Tracker.LeftCombat }
	return fmt.Sprintf(t.get(f, f), player, instance)
}

// Immunities returns the notice for an immunity change on a player or pet.
func (t *Text) Immunities(pet, applied bool) string {
	var f func(d *TextData) string
	switch {
	case pet && applied:
		f = func(d *TextData) string { return d.Immunity.PetApplied }
	case pet:
		f = func(d *TextData) string { return d.Immunity.PetRemoved }
	case applied:
		f = func(d *TextData) string { return d.Immunity.PlayerApplied }
	default:
		f = func(d *TextData) string { return d.Immunity.PlayerRemoved }
	}
	return t.get(f, f)
}

// RewardGranted formats the notice sent with an encounter token grant.
func (t *Text) RewardGranted(count uint32, item uint32, encounter string) string {
	f := func(d *TextData) string { return d.Reward.Granted }
	return fmt.Sprintf(t.get(f, f), count, item, encounter)
}
