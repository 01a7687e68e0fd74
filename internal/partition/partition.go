// Package partition implements the deterministic file/rank assignment
// described in SPEC_FULL.md §4.6: each rank owns a set of whole files
// outright, plus (when the file count does not evenly divide the rank
// count) a stake in exactly one shared file, read at a fixed stride.
package partition

// WholeFile is a file a rank processes serially and alone: no other
// rank ever reads it.
type WholeFile struct {
	// Index is the file's position in the original input list.
	Index int
}

// SharedFile is the (at most one) file a rank shares with other ranks,
// each reading a disjoint stride of its records.
type SharedFile struct {
	// Index is the file's position in the original input list.
	Index int
	// First is the zero-based record index this rank starts at.
	First int
	// Stride is the number of ranks sharing the file; this rank reads
	// records First, First+Stride, First+2*Stride, ….
	Stride int
}

// Plan is one rank's share of the N input files.
type Plan struct {
	WholeFiles []WholeFile
	Shared     *SharedFile // nil if there is no shared file, or rank has no stake in it
}

// For computes rank r's Plan out of n input files distributed across p
// ranks, per SPEC_FULL.md §4.6.
func For(n, p, r int) Plan {
	var plan Plan

	numWholeFiles := n / p
	for i, idx := 0, r; i < numWholeFiles; i, idx = i+1, idx+p {
		plan.WholeFiles = append(plan.WholeFiles, WholeFile{Index: idx})
	}

	remaining := n % p
	if remaining == 0 {
		return plan
	}

	// The last `remaining` files are shared. Each rank has a stake in
	// exactly one of them, picked by (r mod remaining).
	k := p / remaining
	sharedIdx := (n - remaining) + (r % remaining)
	stride := k
	if (r % remaining) < (p - k*remaining) {
		stride++
	}
	first := r / remaining

	plan.Shared = &SharedFile{Index: sharedIdx, First: first, Stride: stride}
	return plan
}
