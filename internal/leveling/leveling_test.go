package leveling

import (
	"testing"

	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/npc"
	"github.com/lawnchairsociety/autobalance/internal/world"
)

func TestScaleXP(t *testing.T) {
	tests := []struct {
		amount, current, maxPlayers uint32
		want                        uint32
	}{
		{1000, 1, 5, 200},
		{1000, 5, 5, 1000},
		{1000, 7, 5, 1000},
		{999, 2, 5, 399},
		{1000, 0, 5, 0},
		{1000, 1, 0, 1000},
	}
	for _, tt := range tests {
		if got := ScaleXP(tt.amount, tt.current, tt.maxPlayers); got != tt.want {
			t.Errorf("ScaleXP(%d, %d, %d) = %d, want %d", tt.amount, tt.current, tt.maxPlayers, got, tt.want)
		}
	}
}

func TestAdjustKillXP(t *testing.T) {
	w := world.New(nil)
	dungeon, err := w.CreateInstance(world.InstanceDef{Key: host.InstanceKey{MapID: 574, InstanceID: 1}, Name: "Utgarde Keep", Type: world.TypeDungeon, MaxPlayers: 5})
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	open, err := w.CreateInstance(world.InstanceDef{Key: host.InstanceKey{MapID: 571}, Name: "Northrend", Type: world.TypeWorld, MaxPlayers: 5})
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}

	tpl := &npc.Template{Entry: 1, Name: "Target", MinLevel: 80, MaxLevel: 80, UnitClass: npc.ClassWarrior, ModHealth: 1, ModMana: 1, ModArmor: 1}
	victim := w.Spawn(dungeon, tpl, world.SpawnOptions{})

	solo := w.AddPlayer("Solo", 70, false)
	w.Enter(solo, dungeon)
	gm := w.AddPlayer("Admin", 80, true)
	w.Enter(gm, dungeon)
	wanderer := w.AddPlayer("Wanderer", 70, false)
	w.Enter(wanderer, open)

	on := config.DefaultConfig()
	on.DungeonScaleDownXP = true
	off := config.DefaultConfig()

	tests := []struct {
		name   string
		cfg    *config.Snapshot
		player host.Player
		victim host.Unit
		want   uint32
	}{
		{"solo in dungeon", on, solo, victim, 200},
		{"disabled", off, solo, victim, 1000},
		{"no victim", on, solo, nil, 1000},
		{"open world", on, wanderer, victim, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustKillXP(tt.cfg, tt.player, 1000, tt.victim); got != tt.want {
				t.Errorf("AdjustKillXP() = %d, want %d", got, tt.want)
			}
		})
	}
}
