package database

import (
	"fmt"
)

// TameRow is one row of the adoptable creature catalog.
type TameRow struct {
	Entry  uint32
	Name   string
	Family uint32
	Rarity string
}

// QueryTames returns the full creature catalog. An empty catalog is not an
// error; callers treat it as "no pets available".
func (d *Database) QueryTames() ([]TameRow, error) {
	rows, err := d.db.Query("SELECT entry, name, family, rarity FROM beastmaster_tames")
	if err != nil {
		return nil, fmt.Errorf("failed to query tames: %w", err)
	}
	defer rows.Close()

	var tames []TameRow
	for rows.Next() {
		var t TameRow
		if err := rows.Scan(&t.Entry, &t.Name, &t.Family, &t.Rarity); err != nil {
			return nil, fmt.Errorf("failed to scan tame row: %w", err)
		}
		tames = append(tames, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tame rows: %w", err)
	}

	return tames, nil
}

// InsertTame adds or replaces a catalog entry. Used by operator tooling to
// seed the catalog; the module itself only reads this table.
func (d *Database) InsertTame(t TameRow) error {
	_, err := d.db.Exec(
		d.qb.Build("INSERT INTO beastmaster_tames (entry, name, family, rarity) VALUES (?, ?, ?, ?)"),
		t.Entry, t.Name, t.Family, t.Rarity,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tame: %w", err)
	}
	return nil
}
