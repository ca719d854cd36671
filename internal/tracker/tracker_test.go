package tracker

import (
	"reflect"
	"testing"

	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/text"
	"github.com/lawnchairsociety/autobalance/internal/world"
)

var keepKey = host.InstanceKey{MapID: 574, InstanceID: 7}

type harness struct {
	world *world.World
	inst  *world.Instance
	tr    *Tracker
	cfg   *config.Snapshot
	txt   *text.Text
}

func newHarness(t *testing.T, typ world.InstanceType) *harness {
	t.Helper()
	w := world.New(nil)
	inst, err := w.CreateInstance(world.InstanceDef{Key: keepKey, Name: "Utgarde Keep", Type: typ, MaxPlayers: 5})
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	txt := text.Default()
	return &harness{world: w, inst: inst, tr: New(w, txt), cfg: config.DefaultConfig(), txt: txt}
}

func (h *harness) enter(name string, level uint8, gm bool) (*world.Player, EnterResult) {
	p := h.world.AddPlayer(name, level, gm)
	h.world.Enter(p, h.inst)
	return p, h.tr.OnPlayerEnter(h.cfg, h.inst, p)
}

func (h *harness) leave(p *world.Player) LeaveResult {
	res := h.tr.OnPlayerLeave(h.cfg, h.inst, p)
	h.world.Leave(p)
	return res
}

func TestOnPlayerEnter(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)

	first, _ := h.enter("Arthas", 78, false)
	_, res := h.enter("Jaina", 80, false)
	if !res.Handled {
		t.Fatal("Handled = false, want true")
	}
	want := ZoneInstanceInfo{PlayerCount: 2, MaxObservedLevel: 80}
	if res.Info != want {
		t.Errorf("Info = %+v, want %+v", res.Info, want)
	}
	if got := h.tr.Info(keepKey); got != want {
		t.Errorf("stored Info = %+v, want %+v", got, want)
	}

	msgs := first.Messages()
	wantMsgs := []string{
		h.txt.PlayerEntered("Arthas", "Utgarde Keep", 1, 0),
		h.txt.PlayerEntered("Jaina", "Utgarde Keep", 2, 0),
	}
	if !reflect.DeepEqual(msgs, wantMsgs) {
		t.Errorf("messages = %q, want %q", msgs, wantMsgs)
	}

	// A lower-level player never lowers the observed level.
	_, res = h.enter("Thrall", 70, false)
	if res.Info.MaxObservedLevel != 80 || res.Info.PlayerCount != 3 {
		t.Errorf("Info = %+v, want 3 players at level 80", res.Info)
	}
}

func TestOnPlayerEnterSkipsGameMasters(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)

	gm, res := h.enter("Admin", 83, true)
	if res.Handled {
		t.Error("GM entry Handled = true, want false")
	}
	if got := h.tr.Info(keepKey); got != (ZoneInstanceInfo{}) {
		t.Errorf("Info after GM entry = %+v, want zero", got)
	}
	if len(gm.Messages()) != 0 {
		t.Errorf("GM got messages: %q", gm.Messages())
	}

	_, res = h.enter("Jaina", 80, false)
	if res.Info.PlayerCount != 1 || res.Info.MaxObservedLevel != 80 {
		t.Errorf("Info = %+v, want GM excluded", res.Info)
	}
}

func TestOnPlayerEnterDisabled(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	h.cfg.Enabled = false
	if _, res := h.enter("Jaina", 80, false); res.Handled {
		t.Error("Handled = true while disabled")
	}
}

func TestOnPlayerEnterNotifyOff(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	h.cfg.PlayerChangeNotify = false
	p, _ := h.enter("Jaina", 80, false)
	if len(p.Messages()) != 0 {
		t.Errorf("messages = %q, want none", p.Messages())
	}
}

func TestOnPlayerEnterOpenWorldIsQuiet(t *testing.T) {
	h := newHarness(t, world.TypeWorld)
	p, res := h.enter("Jaina", 80, false)
	if res.Info.PlayerCount != 1 {
		t.Errorf("PlayerCount = %d, want 1", res.Info.PlayerCount)
	}
	if len(p.Messages()) != 0 {
		t.Errorf("messages = %q, want none outside dungeons", p.Messages())
	}
}

func TestOnPlayerEnterShowsOffset(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	h.cfg = h.cfg.WithPlayerCountOffset(2)
	p, _ := h.enter("Jaina", 80, false)
	want := h.txt.PlayerEntered("Jaina", "Utgarde Keep", 3, 2)
	if msgs := p.Messages(); len(msgs) != 1 || msgs[0] != want {
		t.Errorf("messages = %q, want %q", msgs, want)
	}
}

func TestMassSync(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	for _, p := range []struct {
		name  string
		level uint8
		gm    bool
	}{{"Arthas", 78, false}, {"Jaina", 80, false}, {"Admin", 83, true}} {
		h.world.Enter(h.world.AddPlayer(p.name, p.level, p.gm), h.inst)
	}

	res := h.tr.OnPlayerEnter(h.cfg, h.inst, nil)
	want := ZoneInstanceInfo{PlayerCount: 2, MaxObservedLevel: 80}
	if !res.Handled || res.Info != want {
		t.Errorf("OnPlayerEnter(nil) = %+v, want %+v", res, want)
	}
	for _, p := range h.inst.Players() {
		if msgs := p.(*world.Player).Messages(); len(msgs) != 0 {
			t.Errorf("%s got messages on mass sync: %q", p.Name(), msgs)
		}
	}
}

func TestOnPlayerLeave(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	a, _ := h.enter("Arthas", 78, false)
	b, _ := h.enter("Jaina", 80, false)
	c, _ := h.enter("Thrall", 80, false)

	res := h.leave(c)
	if !res.Handled || res.CountPreserved || res.Vacated {
		t.Errorf("LeaveResult = %+v", res)
	}
	if res.Info.PlayerCount != 2 || res.Info.MaxObservedLevel != 80 {
		t.Errorf("Info = %+v, want 2 players at 80", res.Info)
	}
	msgs := a.Messages()
	if want := h.txt.PlayerLeft("Thrall", "Utgarde Keep", 2, 0); msgs[len(msgs)-1] != want {
		t.Errorf("last message = %q, want %q", msgs[len(msgs)-1], want)
	}

	h.leave(b)
	res = h.leave(a)
	if !res.Vacated {
		t.Error("Vacated = false after last player left")
	}
	if res.Info != (ZoneInstanceInfo{}) {
		t.Errorf("Info = %+v, want zero after vacate", res.Info)
	}
}

func TestOnPlayerLeaveDuringCombat(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	h.cfg.PlayerChangeNotify = false
	a, _ := h.enter("Arthas", 80, false)
	b, _ := h.enter("Jaina", 80, false)
	c, _ := h.enter("Thrall", 80, false)
	b.SetInCombat(true)

	res := h.leave(c)
	if !res.CountPreserved {
		t.Fatal("CountPreserved = false with a player in combat")
	}
	if res.Info.PlayerCount != 3 {
		t.Errorf("PlayerCount = %d, want 3 kept", res.Info.PlayerCount)
	}

	want := h.txt.PlayerLeftInCombat("Thrall", "Utgarde Keep")
	for _, p := range []*world.Player{a, b, c} {
		msgs := p.Messages()
		if len(msgs) != 1 || msgs[0] != want {
			t.Errorf("%s messages = %q, want %q", p.Name(), msgs, want)
		}
	}
}

func TestOnPlayerLeaveLeaverInCombat(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	h.enter("Arthas", 80, false)
	b, _ := h.enter("Jaina", 80, false)
	b.SetInCombat(true)

	if res := h.leave(b); !res.CountPreserved || res.Info.PlayerCount != 2 {
		t.Errorf("LeaveResult = %+v, want count 2 preserved", res)
	}
}

func TestOnPlayerLeaveOpenWorldKeepsCount(t *testing.T) {
	h := newHarness(t, world.TypeWorld)
	h.enter("Arthas", 80, false)
	b, _ := h.enter("Jaina", 80, false)
	if res := h.leave(b); res.Info.PlayerCount != 2 || res.Vacated {
		t.Errorf("LeaveResult = %+v, want count untouched", res)
	}
}

func TestOnPlayerLeaveGameMaster(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	h.enter("Arthas", 80, false)
	gm, _ := h.enter("Admin", 83, true)
	if res := h.leave(gm); res.Handled {
		t.Errorf("GM leave Handled = true")
	}
	if got := h.tr.Info(keepKey).PlayerCount; got != 1 {
		t.Errorf("PlayerCount = %d, want 1", got)
	}
}

func TestOnPlayerLevelChange(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	p, _ := h.enter("Arthas", 70, false)

	h.tr.OnPlayerLevelChange(h.cfg, h.inst, p, 75)
	if got := h.tr.Info(keepKey).MaxObservedLevel; got != 75 {
		t.Errorf("MaxObservedLevel = %d, want 75", got)
	}
	h.tr.OnPlayerLevelChange(h.cfg, h.inst, p, 60)
	if got := h.tr.Info(keepKey).MaxObservedLevel; got != 75 {
		t.Errorf("MaxObservedLevel = %d, want 75 after lower level", got)
	}

	h.cfg.Level.Scaling = false
	h.tr.OnPlayerLevelChange(h.cfg, h.inst, p, 80)
	if got := h.tr.Info(keepKey).MaxObservedLevel; got != 75 {
		t.Errorf("MaxObservedLevel = %d, want 75 with level scaling off", got)
	}
}

func TestRecheck(t *testing.T) {
	h := newHarness(t, world.TypeDungeon)
	h.enter("Arthas", 70, false)
	high, _ := h.enter("Jaina", 80, false)
	h.enter("Admin", 83, true)
	h.world.Leave(high)

	got := h.tr.Recheck(h.inst)
	want := ZoneInstanceInfo{PlayerCount: 1, MaxObservedLevel: 70}
	if got != want {
		t.Errorf("Recheck() = %+v, want %+v", got, want)
	}

	for _, p := range h.inst.Players() {
		h.world.Leave(p.(*world.Player))
	}
	if got := h.tr.Recheck(h.inst); got != (ZoneInstanceInfo{}) {
		t.Errorf("Recheck() on empty instance = %+v, want zero", got)
	}
}

func TestKeysAndForget(t *testing.T) {
	tr := New(nil, nil)
	keys := []host.InstanceKey{{MapID: 600, InstanceID: 2}, {MapID: 574, InstanceID: 9}, {MapID: 600, InstanceID: 1}}
	for _, k := range keys {
		tr.Info(k)
	}

	want := []host.InstanceKey{{MapID: 574, InstanceID: 9}, {MapID: 600, InstanceID: 1}, {MapID: 600, InstanceID: 2}}
	if got := tr.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	tr.Forget(keys[0])
	if got := len(tr.Keys()); got != 2 {
		t.Errorf("len(Keys()) = %d after Forget, want 2", got)
	}
}
