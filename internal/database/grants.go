package database

import (
	"fmt"
	"time"
)

// Grant is one encounter reward handed to one player.
type Grant struct {
	ID         int64
	MapID      uint32
	InstanceID uint32
	Instance   string
	Encounter  string
	PlayerGUID uint64
	PlayerName string
	ItemID     uint32
	Count      uint32
	GrantedAt  time.Time
}

const grantColumns = `id, map_id, instance_id, instance_name, encounter, player_guid, player_name, item_id, item_count, granted_at`

// RecordGrant stores a grant and returns its id. A zero GrantedAt is
// replaced with the current time.
func (d *Database) RecordGrant(g Grant) (int64, error) {
	if g.GrantedAt.IsZero() {
		g.GrantedAt = time.Now().UTC()
	}

	query := d.qb.BuildWithReturning(`
		INSERT INTO reward_grants (map_id, instance_id, instance_name, encounter, player_guid, player_name, item_id, item_count, granted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{g.MapID, g.InstanceID, g.Instance, g.Encounter, int64(g.PlayerGUID), g.PlayerName, g.ItemID, g.Count, g.GrantedAt}

	if !d.dialect.SupportsLastInsertID() {
		var id int64
		if err := d.db.QueryRow(query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to record grant: %w", err)
		}
		return id, nil
	}

	res, err := d.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to record grant: %w", err)
	}
	return res.LastInsertId()
}

// GrantsForPlayer returns a player's grants, oldest first.
func (d *Database) GrantsForPlayer(playerName string) ([]Grant, error) {
	return d.queryGrants(`SELECT `+grantColumns+` FROM reward_grants WHERE player_name = ? ORDER BY id ASC`, playerName)
}

// GrantsForInstance returns every grant made in one instance, oldest first.
func (d *Database) GrantsForInstance(mapID, instanceID uint32) ([]Grant, error) {
	return d.queryGrants(`SELECT `+grantColumns+` FROM reward_grants WHERE map_id = ? AND instance_id = ? ORDER BY id ASC`, mapID, instanceID)
}

// AllGrants returns every grant, oldest first.
func (d *Database) AllGrants() ([]Grant, error) {
	return d.queryGrants(`SELECT ` + grantColumns + ` FROM reward_grants ORDER BY id ASC`)
}

// CountGrants returns the number of recorded grants.
func (d *Database) CountGrants() (int, error) {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM reward_grants`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ItemTotal returns how many of an item a player has been granted.
func (d *Database) ItemTotal(playerName string, itemID uint32) (uint32, error) {
	var total int64
	err := d.db.QueryRow(d.qb.Build(`
		SELECT COALESCE(SUM(item_count), 0) FROM reward_grants
		WHERE player_name = ? AND item_id = ?`), playerName, itemID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return uint32(total), nil
}

func (d *Database) queryGrants(query string, args ...any) ([]Grant, error) {
	rows, err := d.db.Query(d.qb.Build(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		var guid int64
		if err := rows.Scan(&g.ID, &g.MapID, &g.InstanceID, &g.Instance, &g.Encounter, &guid, &g.PlayerName, &g.ItemID, &g.Count, &g.GrantedAt); err != nil {
			return nil, err
		}
		g.PlayerGUID = uint64(guid)
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
