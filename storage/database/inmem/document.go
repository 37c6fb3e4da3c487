package inmemdb

import (
	"github.com/Emmanuel10701/maryimmaculate/core/document"
)

type documentRepository struct {
	db *documentTable
}

var _ document.Repository = (*documentRepository)(nil) // interface compliance check

func NewDocumentRepository(db *DB) document.Repository {
	return &documentRepository{db: db.documents}
}

func (repo *documentRepository) CreateSchoolDocuments(doc document.SchoolDocuments) (document.SchoolDocuments, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := clone(doc)
	repo.db.table[doc.ID] = &stored
	return doc, nil
}

func (repo *documentRepository) GetSchoolDocuments(id string) (document.SchoolDocuments, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.table[id]; ok {
		return clone(*doc), nil
	}
	return document.SchoolDocuments{}, document.ErrNotFound
}

func (repo *documentRepository) QueryAllSchoolDocuments() ([]document.SchoolDocuments, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	docs := make([]document.SchoolDocuments, 0, len(repo.db.table))
	for _, doc := range repo.db.table {
		docs = append(docs, clone(*doc))
	}
	return docs, nil
}

func (repo *documentRepository) SaveSchoolDocuments(doc document.SchoolDocuments) (document.SchoolDocuments, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[doc.ID]; !ok {
		return document.SchoolDocuments{}, document.ErrNotFound
	}
	stored := clone(doc)
	repo.db.table[doc.ID] = &stored
	return doc, nil
}

// clone deep-copies the mutable maps so callers cannot alias the table.
func clone(doc document.SchoolDocuments) document.SchoolDocuments {
	files := make(map[string]document.StoredFile, len(doc.Files))
	for key, f := range doc.Files {
		files[key] = f
	}
	dists := make(map[string][]document.FeeCategory, len(doc.Distributions))
	for key, cats := range doc.Distributions {
		cp := make([]document.FeeCategory, len(cats))
		copy(cp, cats)
		dists[key] = cp
	}
	doc.Files = files
	doc.Distributions = dists
	return doc
}
