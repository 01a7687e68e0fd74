// Package derep drives one rank's share of the de-replication run: it
// resolves this rank's partition.Plan over the full input file list,
// ingests the owned whole files and shared-file stride, folds every
// record into a local replica.Store, and runs the hypercube gather.
// This is the "driver" half of SPEC_FULL.md §4.6; the partition
// arithmetic itself lives in package partition.
package derep

import (
	"os"

	"github.com/biocore/pipeclust/errors"
	"github.com/biocore/pipeclust/internal/derepctx"
	"github.com/biocore/pipeclust/internal/fastaio"
	"github.com/biocore/pipeclust/internal/gather"
	"github.com/biocore/pipeclust/internal/partition"
	"github.com/biocore/pipeclust/internal/replica"
	"github.com/biocore/pipeclust/internal/world"
	"github.com/biocore/pipeclust/log"
)

// Run ingests this rank's share of files, merges every rank's local
// store into rank 0's via the hypercube gather, and returns the final
// records. On rank 0, the returned slice is the complete, global set of
// replica records (sorted by abundance unless suppressSort is set); on
// every other rank, Run returns a nil slice once its local store has
// been sent and drained.
//
// files is the full, rank-independent list of input file paths; every
// rank must be called with the identical slice so partition.For assigns
// a consistent plan.
func Run(w world.World, files []string, suppressSort bool) ([]*replica.Record, error) {
	rank, size := w.Rank(), w.Size()
	logStartup(w, len(files))
	plan := partition.For(len(files), size, rank)

	store := replica.New()
	for _, wf := range plan.WholeFiles {
		if err := ingestWholeFile(store, files[wf.Index]); err != nil {
			return nil, err
		}
	}
	if plan.Shared != nil {
		if err := ingestSharedFile(store, files[plan.Shared.Index], *plan.Shared); err != nil {
			return nil, err
		}
	}
	derepctx.Info("rank %d/%d ingested %d records (%d unique) from %d whole file(s) and %v shared file",
		rank, size, store.Count, store.Unique(), len(plan.WholeFiles), plan.Shared != nil)

	if err := gather.Run(w, store); err != nil {
		return nil, errors.E(derepctx.TransportFailure, "hypercube gather", err)
	}
	if rank != 0 {
		return nil, nil
	}

	if suppressSort {
		return store.Records(), nil
	}
	return store.SortByAbundance(), nil
}

// ingestWholeFile reads every record of path and inserts it into store.
func ingestWholeFile(store *replica.Store, path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return errors.E(derepctx.InputOpen, "opening whole-file input", err)
	}
	defer errors.CleanUp(f.Close, &err)

	r := fastaio.NewReader(f, path)
	for {
		rec, ok, err := r.Next()
		if err != nil {
			return errors.E(derepctx.InputParse, "reading "+path, err)
		}
		if !ok {
			return nil
		}
		store.Insert(rec.Sequence, rec.Label)
	}
}

// ingestSharedFile reads only the residues this rank owns within a file
// shared across sf.Stride ranks, per SPEC_FULL.md §4.6 step 3.
func ingestSharedFile(store *replica.Store, path string, sf partition.SharedFile) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return errors.E(derepctx.InputOpen, "opening shared-file input", err)
	}
	defer errors.CleanUp(f.Close, &err)

	r := fastaio.NewReader(f, path)
	for idx := sf.First; ; idx += sf.Stride {
		rec, ok, err := r.Nth(idx)
		if err != nil {
			return errors.E(derepctx.InputParse, "reading shared "+path, err)
		}
		if !ok {
			return nil
		}
		store.Insert(rec.Sequence, rec.Label)
	}
}

// logStartup emits the rank-0 banner the reference implementation prints
// before beginning ingestion; it is a no-op on other ranks.
func logStartup(w world.World, nFiles int) {
	if w.Rank() != 0 {
		return
	}
	log.Info.Printf("de-replicating %d input file(s) across %d rank(s)", nFiles, w.Size())
}

