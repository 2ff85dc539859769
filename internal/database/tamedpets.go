package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrTamedPetNotFound is returned when a tracked-pet lookup fails.
var ErrTamedPetNotFound = errors.New("tamed pet not found")

// TamedPetRow is one tracked pet owned by a player.
type TamedPetRow struct {
	OwnerID   int64
	Entry     uint32
	Name      string
	DateTamed time.Time
}

// InsertTamedPet inserts a tracked-pet row for the owner.
// Returns false without error if the (owner, entry) pair already exists.
func (d *Database) InsertTamedPet(ownerID int64, entry uint32, name string) (bool, error) {
	_, err := d.db.Exec(
		d.qb.Build("INSERT INTO beastmaster_tamed_pets (owner_id, entry, name) VALUES (?, ?, ?)"),
		ownerID, entry, name,
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert tamed pet: %w", err)
	}
	return true, nil
}

// ListTamedPets returns the owner's tracked pets, most recently tamed first.
func (d *Database) ListTamedPets(ownerID int64) ([]TamedPetRow, error) {
	rows, err := d.db.Query(
		d.qb.Build("SELECT owner_id, entry, name, date_tamed FROM beastmaster_tamed_pets WHERE owner_id = ? ORDER BY date_tamed DESC, entry DESC"),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tamed pets: %w", err)
	}
	defer rows.Close()

	var pets []TamedPetRow
	for rows.Next() {
		var p TamedPetRow
		if err := rows.Scan(&p.OwnerID, &p.Entry, &p.Name, &p.DateTamed); err != nil {
			return nil, fmt.Errorf("failed to scan tamed pet row: %w", err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tamed pet rows: %w", err)
	}

	return pets, nil
}

// ListTamedEntries returns the set of catalog entries the owner has tracked.
func (d *Database) ListTamedEntries(ownerID int64) (map[uint32]bool, error) {
	rows, err := d.db.Query(
		d.qb.Build("SELECT entry FROM beastmaster_tamed_pets WHERE owner_id = ?"),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tamed entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[uint32]bool)
	for rows.Next() {
		var entry uint32
		if err := rows.Scan(&entry); err != nil {
			return nil, fmt.Errorf("failed to scan tamed entry: %w", err)
		}
		entries[entry] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tamed entries: %w", err)
	}

	return entries, nil
}

// GetTamedPetName returns the custom name stored for the owner's tracked pet.
func (d *Database) GetTamedPetName(ownerID int64, entry uint32) (string, error) {
	var name string
	err := d.db.QueryRow(
		d.qb.Build("SELECT name FROM beastmaster_tamed_pets WHERE owner_id = ? AND entry = ?"),
		ownerID, entry,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTamedPetNotFound
		}
		return "", fmt.Errorf("failed to get tamed pet name: %w", err)
	}
	return name, nil
}

// RenameTamedPet updates the custom name of the owner's tracked pet.
func (d *Database) RenameTamedPet(ownerID int64, entry uint32, newName string) error {
	result, err := d.db.Exec(
		d.qb.Build("UPDATE beastmaster_tamed_pets SET name = ? WHERE owner_id = ? AND entry = ?"),
		newName, ownerID, entry,
	)
	if err != nil {
		return fmt.Errorf("failed to rename tamed pet: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrTamedPetNotFound
	}
	return nil
}

// DeleteTamedPet removes the owner's tracked-pet row for the entry.
func (d *Database) DeleteTamedPet(ownerID int64, entry uint32) error {
	_, err := d.db.Exec(
		d.qb.Build("DELETE FROM beastmaster_tamed_pets WHERE owner_id = ? AND entry = ?"),
		ownerID, entry,
	)
	if err != nil {
		return fmt.Errorf("failed to delete tamed pet: %w", err)
	}
	return nil
}

// CountTamedPets returns the number of tracked pets for the owner.
func (d *Database) CountTamedPets(ownerID int64) (int, error) {
	var count int
	err := d.db.QueryRow(
		d.qb.Build("SELECT COUNT(*) FROM beastmaster_tamed_pets WHERE owner_id = ?"),
		ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tamed pets: %w", err)
	}
	return count, nil
}
