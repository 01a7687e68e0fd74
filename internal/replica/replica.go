// Package replica implements the per-unique-sequence bookkeeping used by
// the de-replication engine: a Record tracks one distinct sequence's
// occurrence count and the ordered labels that collapsed onto it, and a
// Store is the associative table from sequence bytes to Record.
package replica

import "sort"

// Record is the per-unique-sequence entity produced by de-replication.
// Sequence is immutable once the Record is created; Count and Labels grow
// as further occurrences of the same sequence are folded in.
type Record struct {
	// Sequence is the canonical, owned sequence bytes. It is also the
	// Store's key for this record and must never be mutated after
	// creation.
	Sequence []byte
	// Count is the number of occurrences folded into this record. It
	// equals len(Labels) except transiently while Unpack is filling in
	// a freshly-created empty Record (see package wire).
	Count int
	// Labels is the ordered list of original labels that map onto
	// Sequence, in arrival order.
	Labels []string
}

// NewWith creates a Record for a sequence seen for the first time, with
// count 1 and a single label. seq is copied so the Record never aliases
// the caller's scratch buffer.
func NewWith(seq []byte, label string) *Record {
	return &Record{
		Sequence: append([]byte(nil), seq...),
		Count:    1,
		Labels:   []string{label},
	}
}

// NewEmpty creates a Record with no labels and a count of zero. It exists
// only to support wire.Unpack, which must insert a keyed Record into a
// Store before it has decoded that Record's labels.
func NewEmpty(seq []byte) *Record {
	return &Record{
		Sequence: append([]byte(nil), seq...),
	}
}

// Add appends label to the record's label list and increments Count.
func (r *Record) Add(label string) {
	r.Labels = append(r.Labels, label)
	r.Count++
}

// Store is the associative table from sequence bytes to Record. The zero
// Store is ready to use.
type Store struct {
	// Count is the total number of sequences ingested, including
	// duplicates.
	Count int
	// table maps sequence bytes (as a string key) to the Record that
	// owns those bytes.
	table map[string]*Record
}

// New creates an empty Store.
func New() *Store {
	return &Store{table: make(map[string]*Record)}
}

// Unique returns the number of distinct sequences held by the store.
func (s *Store) Unique() int {
	return len(s.table)
}

// Get returns the record keyed by seq, if present.
func (s *Store) Get(seq []byte) (*Record, bool) {
	r, ok := s.table[string(seq)]
	return r, ok
}

// Lookup is an alias of Get.
func (s *Store) Lookup(seq []byte) (*Record, bool) {
	return s.Get(seq)
}

// Insert folds one sequence occurrence into the store: if seq is already
// present, label is appended to the existing record; otherwise a new
// record is created. Store.Count always increments; Store.Unique only
// increments on a new insertion.
func (s *Store) Insert(seq []byte, label string) {
	if s.table == nil {
		s.table = make(map[string]*Record)
	}
	key := string(seq)
	if r, ok := s.table[key]; ok {
		r.Add(label)
	} else {
		s.table[key] = NewWith(seq, label)
	}
	s.Count++
}

// put installs rec directly, keyed by rec.Sequence, without touching
// Store.Count. It is used by the wire codec, which manages Count itself
// from the wire header.
func (s *Store) put(rec *Record) {
	if s.table == nil {
		s.table = make(map[string]*Record)
	}
	s.table[string(rec.Sequence)] = rec
}

// GetOrCreateEmpty returns the record keyed by seq, creating an empty one
// (via NewEmpty) and reporting created=true if none existed yet. This is
// the merge-unpack primitive described in the wire format's unpack
// contract: the wire codec is the only caller.
func (s *Store) GetOrCreateEmpty(seq []byte) (rec *Record, created bool) {
	if r, ok := s.Get(seq); ok {
		return r, false
	}
	r := NewEmpty(seq)
	s.put(r)
	return r, true
}

// Iter calls fn once per record in the store's current table order. fn
// must not mutate the store.
func (s *Store) Iter(fn func(*Record)) {
	for _, r := range s.table {
		fn(r)
	}
}

// Records returns a snapshot slice of every record in the store's
// current (map, hence unordered) iteration order.
func (s *Store) Records() []*Record {
	out := make([]*Record, 0, len(s.table))
	s.Iter(func(r *Record) {
		out = append(out, r)
	})
	return out
}

// SortByAbundance returns the store's records ordered by descending
// Count. Ties are broken by a stable, implementation-defined order: this
// snapshots Records() once and stably sorts that slice, so records with
// equal counts retain whatever order Records() produced for this call.
// SortByAbundance is a view: it returns a new slice and never mutates the
// store's table.
func (s *Store) SortByAbundance() []*Record {
	recs := s.Records()
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Count > recs[j].Count
	})
	return recs
}

// Drain drops the store's references to its records so the garbage
// collector can reclaim them. It is retained for symmetry with the
// reference implementation's explicit destroy_derep_db, and is used by
// the gather step once a rank has finished its sender role.
func (s *Store) Drain() {
	s.table = nil
	s.Count = 0
}
