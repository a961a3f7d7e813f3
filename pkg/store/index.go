package store

import (
	"errors"
	"sort"
	"sync"
)

// Index is an in-memory store of subject-predicate-object facts about
// records, e.g. ("bill/12", "plain_name", "Road User Charges Amendment Bill"),
// with two indexes:
//   - SPO: Subject -> Predicate -> Object (facts about a record)
//   - POS: Predicate -> Object -> Subject (records with field=value)
type Index struct {
	mu sync.RWMutex

	spo map[string]map[string]map[string]bool
	pos map[string]map[string]map[string]bool
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		spo: make(map[string]map[string]map[string]bool),
		pos: make(map[string]map[string]map[string]bool),
	}
}

// Add inserts a fact. Adding an existing fact is a no-op. Empty objects are
// skipped so that unset optional fields are never indexed.
func (ix *Index) Add(subject, predicate, object string) error {
	if subject == "" || predicate == "" {
		return errors.New("fact subject and predicate cannot be empty")
	}
	if object == "" {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.spo[subject][predicate][object] {
		return nil
	}

	if ix.spo[subject] == nil {
		ix.spo[subject] = make(map[string]map[string]bool)
	}
	if ix.spo[subject][predicate] == nil {
		ix.spo[subject][predicate] = make(map[string]bool)
	}
	ix.spo[subject][predicate][object] = true

	if ix.pos[predicate] == nil {
		ix.pos[predicate] = make(map[string]map[string]bool)
	}
	if ix.pos[predicate][object] == nil {
		ix.pos[predicate][object] = make(map[string]bool)
	}
	ix.pos[predicate][object][subject] = true

	return nil
}

// Subjects returns the subjects having predicate=object, sorted.
func (ix *Index) Subjects(predicate, object string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	sMap := ix.pos[predicate][object]
	subjects := make([]string, 0, len(sMap))
	for s := range sMap {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}

// Remove deletes every fact about subject and returns how many were removed.
func (ix *Index) Remove(subject string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	pMap, ok := ix.spo[subject]
	if !ok {
		return 0
	}

	removed := 0
	for p, oMap := range pMap {
		for o := range oMap {
			if sMap, ok := ix.pos[p][o]; ok {
				delete(sMap, subject)
				if len(sMap) == 0 {
					delete(ix.pos[p], o)
				}
			}
			removed++
		}
		if len(ix.pos[p]) == 0 {
			delete(ix.pos, p)
		}
	}
	delete(ix.spo, subject)
	return removed
}
