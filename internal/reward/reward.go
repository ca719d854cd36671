// Package reward hands out tokens when a group clears an end-game encounter
// in scaled content, and records each grant in a ledger.
package reward

import (
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/database"
	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/leveling"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/text"
)

// Ledger stores granted rewards.
type Ledger interface {
	RecordGrant(g database.Grant) (int64, error)
}

// Skip reasons.
const (
	SkipDisabled    = "disabled"
	SkipNotUpdated  = "not_updated"
	SkipTooFew      = "too_few_players"
	SkipNotScaled   = "not_scaled"
	SkipContent     = "content_level"
	SkipWrongCredit = "wrong_credit"
	SkipNotDungeon  = "not_dungeon"
	SkipNoToken     = "no_token"
)

// endGameLevel splits old content (area level at or below it) from current
// content, and end-game groups (observed level above it) from levelling ones.
const endGameLevel = 70

// Result describes one encounter credit.
type Result struct {
	// Skipped names the gate that stopped the grant, empty when granted.
	Skipped string
	Item    uint32
	Grants  []database.Grant
}

// Granter decides on and performs token grants.
type Granter struct {
	items    host.ItemSink
	notifier host.Notifier
	text     *text.Text
	ledger   Ledger
	now      func() time.Time
}

// New creates a Granter. ledger may be nil, in which case grants are not
// recorded.
func New(items host.ItemSink, notifier host.Notifier, txt *text.Text, ledger Ledger) *Granter {
	if notifier == nil {
		notifier = host.NopNotifier{}
	}
	if txt == nil {
		txt = text.Default()
	}
	return &Granter{
		items:    items,
		notifier: notifier,
		text:     txt,
		ledger:   ledger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Skip returns the gate that rules out a reward for this credit, or "".
// mapLevel is the instance's highest observed player level.
func Skip(cfg *config.Snapshot, m host.Map, credit host.EncounterCredit, source host.Unit, updated bool, mapLevel uint8) string {
	switch {
	case !cfg.Reward.Enabled:
		return SkipDisabled
	case !updated:
		return SkipNotUpdated
	case m.PlayersCountExceptGMs() < cfg.Reward.MinPlayers:
		return SkipTooFew
	case !cfg.Level.Scaling || cfg.Level.LowerOffset >= 10:
		return SkipNotScaled
	}

	var areaMin uint8
	if c, ok := source.(host.Creature); ok {
		areaMin, _ = m.AreaLevel(c.AreaID())
	}
	switch {
	case mapLevel <= endGameLevel || areaMin > endGameLevel:
		return SkipContent
	case credit != host.CreditKillCreature:
		return SkipWrongCredit
	case !m.IsDungeon():
		return SkipNotDungeon
	}

	if token(cfg, m) == 0 {
		return SkipNoToken
	}
	return ""
}

func token(cfg *config.Snapshot, m host.Map) uint32 {
	if m.IsRaid() {
		return cfg.Reward.RaidToken
	}
	return cfg.Reward.DungeonToken
}

// OnEncounterCredit grants 1 + difficulty tokens to every non-GM player at
// the level cap. Ledger failures are returned after every player has been
// handled; the items themselves are already granted.
func (g *Granter) OnEncounterCredit(cfg *config.Snapshot, m host.Map, credit host.EncounterCredit, source host.Unit, updated bool, mapLevel uint8) (Result, error) {
	if reason := Skip(cfg, m, credit, source, updated, mapLevel); reason != "" {
		return Result{Skipped: reason}, nil
	}

	item := token(cfg, m)
	count := 1 + uint32(m.Difficulty())
	encounter := m.Name()
	if c, ok := source.(host.Creature); ok && c.Template() != nil {
		encounter = c.Template().Name
	}

	res := Result{Item: item}
	var errs []error
	for _, p := range m.Players() {
		if p.IsGameMaster() || p.Level() < leveling.MaxPlayerLevel {
			continue
		}
		if !g.items.AddItem(p, item, count) {
			logger.Warning("Reward item not granted", "player", p.Name(), "item", item)
			continue
		}
		g.notifier.SendSysMessage(p, g.text.RewardGranted(count, item, encounter))

		grant := database.Grant{
			MapID:      m.Key().MapID,
			InstanceID: m.Key().InstanceID,
			Instance:   m.Name(),
			Encounter:  encounter,
			PlayerGUID: p.GUID(),
			PlayerName: p.Name(),
			ItemID:     item,
			Count:      count,
			GrantedAt:  g.now(),
		}
		if g.ledger != nil {
			id, err := g.ledger.RecordGrant(grant)
			if err != nil {
				errs = append(errs, fmt.Errorf("record grant for %s: %w", p.Name(), err))
			}
			grant.ID = id
		}
		res.Grants = append(res.Grants, grant)
	}

	logger.Info("Encounter reward granted",
		"instance", m.Key().String(),
		"encounter", encounter,
		"item", item,
		"count", count,
		"players", len(res.Grants))

	return res, errors.Join(errs...)
}
