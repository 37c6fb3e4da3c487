package inmemdb

import (
	"sync"

	"github.com/Emmanuel10701/maryimmaculate/core/document"
)

type (
	DB struct {
		documents *documentTable
	}

	documentTable struct {
		sync.RWMutex
		table map[string]*document.SchoolDocuments
	}
)

func Open() (*DB, error) {
	db := &DB{
		documents: &documentTable{table: make(map[string]*document.SchoolDocuments)},
	}
	return db, nil
}
