package memory

import (
	"github.com/hashicorp/go-memdb"

	"repair-desk/internal/entities"
)

const (
	tableRequests = "service_request"
	tableProfiles = "profile"
	tableRoles    = "role"

	indexID     = "id"
	indexStatus = "status"
)

type requestRecord struct {
	ID      uint64
	Status  string
	Request *entities.ServiceRequest
}

type profileRecord struct {
	Principal string
	Profile   entities.UserProfile
}

type roleRecord struct {
	Principal string
	Role      string
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableRequests: {
				Name: tableRequests,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.UintFieldIndex{Field: "ID"},
					},
					indexStatus: {
						Name:    indexStatus,
						Indexer: &memdb.StringFieldIndex{Field: "Status"},
					},
				},
			},
			tableProfiles: {
				Name: tableProfiles,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Principal"},
					},
				},
			},
			tableRoles: {
				Name: tableRoles,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Principal"},
					},
				},
			},
		},
	}
}
