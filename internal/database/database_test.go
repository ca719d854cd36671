package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestMigration_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("Open() #%d error = %v", i+1, err)
		}
		db.Close()
	}
}

func TestRecordGrant(t *testing.T) {
	db := openTestDB(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	grants := []Grant{
		{MapID: 533, InstanceID: 1, Instance: "Naxxramas", Encounter: "Patchwerk", PlayerGUID: 7, PlayerName: "Jaina", ItemID: 49426, Count: 2, GrantedAt: at},
		{MapID: 533, InstanceID: 1, Instance: "Naxxramas", Encounter: "Patchwerk", PlayerGUID: 8, PlayerName: "Thrall", ItemID: 49426, Count: 2, GrantedAt: at},
		{MapID: 574, InstanceID: 3, Instance: "Utgarde Keep", Encounter: "Ingvar", PlayerGUID: 7, PlayerName: "Jaina", ItemID: 47241, Count: 1},
	}
	var ids []int64
	for _, g := range grants {
		id, err := db.RecordGrant(g)
		if err != nil {
			t.Fatalf("RecordGrant() error = %v", err)
		}
		ids = append(ids, id)
	}
	if ids[0] == ids[1] || ids[1] == ids[2] {
		t.Errorf("RecordGrant() ids not unique: %v", ids)
	}

	count, err := db.CountGrants()
	if err != nil || count != 3 {
		t.Errorf("CountGrants() = %d, %v; want 3", count, err)
	}

	jaina, err := db.GrantsForPlayer("Jaina")
	if err != nil {
		t.Fatalf("GrantsForPlayer() error = %v", err)
	}
	if len(jaina) != 2 {
		t.Fatalf("GrantsForPlayer() returned %d grants, want 2", len(jaina))
	}
	first := jaina[0]
	if first.ID != ids[0] || first.Encounter != "Patchwerk" || first.PlayerGUID != 7 || first.ItemID != 49426 || first.Count != 2 {
		t.Errorf("first grant = %+v", first)
	}
	if !first.GrantedAt.Equal(at) {
		t.Errorf("GrantedAt = %v, want %v", first.GrantedAt, at)
	}
	if jaina[1].GrantedAt.IsZero() {
		t.Error("zero GrantedAt was not filled in")
	}

	naxx, err := db.GrantsForInstance(533, 1)
	if err != nil || len(naxx) != 2 {
		t.Errorf("GrantsForInstance() = %d grants, %v; want 2", len(naxx), err)
	}

	total, err := db.ItemTotal("Jaina", 49426)
	if err != nil || total != 2 {
		t.Errorf("ItemTotal() = %d, %v; want 2", total, err)
	}
	total, err = db.ItemTotal("Nobody", 49426)
	if err != nil || total != 0 {
		t.Errorf("ItemTotal() for unknown player = %d, %v; want 0", total, err)
	}
}

func TestGrantsForPlayer_Empty(t *testing.T) {
	db := openTestDB(t)
	grants, err := db.GrantsForPlayer("Nobody")
	if err != nil {
		t.Fatalf("GrantsForPlayer() error = %v", err)
	}
	if len(grants) != 0 {
		t.Errorf("GrantsForPlayer() = %v, want none", grants)
	}
}

func TestClose(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := db.CountGrants(); err == nil {
		t.Error("CountGrants() after Close succeeded")
	}
}
