package catalog

import "sort"

// indexKey addresses the per-(type, stage) fragment buckets.
type indexKey struct {
	ftype FragmentType
	stage Stage
}

// Store is an immutable, indexed fragment catalog.
//
// Built once by Parse/Load and shared read-only across concurrent
// requests; queries take no locks.
type Store struct {
	fragments []Fragment
	byID      map[string]*Fragment
	index     map[indexKey][]*Fragment
}

// newStore indexes fragments by (type, stage) with deterministic bucket
// order: priority ascending, then id ascending.
func newStore(fragments []Fragment) *Store {
	s := &Store{
		fragments: fragments,
		byID:      make(map[string]*Fragment, len(fragments)),
		index:     make(map[indexKey][]*Fragment),
	}

	for i := range s.fragments {
		f := &s.fragments[i]
		s.byID[f.ID] = f
		for _, stage := range f.Stages {
			key := indexKey{ftype: f.Type, stage: stage}
			s.index[key] = append(s.index[key], f)
		}
	}

	for key := range s.index {
		bucket := s.index[key]
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Priority != bucket[j].Priority {
				return bucket[i].Priority < bucket[j].Priority
			}
			return bucket[i].ID < bucket[j].ID
		})
	}

	return s
}

// Len returns the number of fragments in the store.
func (s *Store) Len() int {
	return len(s.fragments)
}

// All returns every fragment, ordered by id.
func (s *Store) All() []Fragment {
	out := make([]Fragment, len(s.fragments))
	copy(out, s.fragments)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the fragment with the given id, or nil if absent.
func (s *Store) Get(id string) *Fragment {
	return s.byID[id]
}

// Query returns fragments of the given type applicable to stage and
// matching the tag set: the intersection with the fragment's tags is
// non-empty, or the fragment is tag-agnostic. Results are ordered by
// priority ascending then id ascending, so identical inputs always
// yield the identical sequence.
func (s *Store) Query(ftype FragmentType, stage Stage, tags []string) []Fragment {
	bucket := s.index[indexKey{ftype: ftype, stage: stage}]

	var out []Fragment
	for _, f := range bucket {
		if f.MatchesTags(tags) {
			out = append(out, *f)
		}
	}
	return out
}

// TypeCounts returns the number of fragments per type, for status
// reporting and authoring-gap diagnostics.
func (s *Store) TypeCounts() map[FragmentType]int {
	counts := make(map[FragmentType]int, len(FragmentTypes()))
	for i := range s.fragments {
		counts[s.fragments[i].Type]++
	}
	return counts
}
