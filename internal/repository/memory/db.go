// Package memory keeps slots and bookings in a go-memdb database. Write
// transactions are serialized by memdb, so each seat mutation checks and
// applies its preconditions atomically, like the conditional updates of the
// PostgreSQL repositories.
package memory

import (
	"fmt"

	"github.com/hashicorp/go-memdb"
)

const (
	slotsTable    = "slots"
	bookingsTable = "bookings"
)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			slotsTable: {
				Name: slotsTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"specialist": {
						Name:         "specialist",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "SpecialistID"},
					},
				},
			},
			bookingsTable: {
				Name: bookingsTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"caller": {
						Name:    "caller",
						Indexer: &memdb.StringFieldIndex{Field: "CallerID"},
					},
					"slot": {
						Name:    "slot",
						Indexer: &memdb.StringFieldIndex{Field: "SlotID"},
					},
					"payment": {
						Name:         "payment",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "PaymentID"},
					},
					"status": {
						Name:    "status",
						Indexer: &memdb.StringFieldIndex{Field: "Status"},
					},
				},
			},
		},
	}
}

// NewDB creates an empty database shared by the slot and booking repositories.
func NewDB() (*memdb.MemDB, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("create memdb: %w", err)
	}
	return db, nil
}
