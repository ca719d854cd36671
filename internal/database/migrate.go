package database

import "fmt"

// CopyGrants appends every grant in src to dst, keeping grant times. Ids
// are assigned by dst. With dryRun set nothing is written and the number
// of grants that would be copied is returned.
func CopyGrants(src, dst *Database, dryRun bool) (int, error) {
	grants, err := src.AllGrants()
	if err != nil {
		return 0, fmt.Errorf("failed to read grants: %w", err)
	}
	if dryRun {
		return len(grants), nil
	}

	for i, g := range grants {
		id := g.ID
		g.ID = 0
		if _, err := dst.RecordGrant(g); err != nil {
			return i, fmt.Errorf("failed to copy grant %d: %w", id, err)
		}
	}
	return len(grants), nil
}
