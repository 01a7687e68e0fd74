// Package gather implements the hypercube (recursive-doubling,
// binary-exchange) reduction described in SPEC_FULL.md §4.7: it merges
// every rank's local replica.Store into rank 0's, in O(log P) rounds.
package gather

import (
	"encoding/binary"

	"github.com/biocore/pipeclust/errors"
	"github.com/biocore/pipeclust/internal/replica"
	"github.com/biocore/pipeclust/internal/wire"
	"github.com/biocore/pipeclust/internal/world"
	"github.com/biocore/pipeclust/must"
)

// Run performs the hypercube gather over w, merging local into the
// global store. On rank 0, Run returns with local holding the fully
// merged store. On every other rank, Run sends local exactly once and
// then returns with local empty (Drain'd); callers on non-zero ranks
// must not use local's contents afterward.
func Run(w world.World, local *replica.Store) error {
	rank, size := w.Rank(), w.Size()
	mask := topBit(size - 1)

	for mask != 0 {
		partner := rank ^ mask
		if rank&mask != 0 {
			if err := send(w, partner, local); err != nil {
				return err
			}
			local.Drain()
			return nil
		}
		if partner < size {
			if err := recvMerge(w, partner, local); err != nil {
				return err
			}
		}
		mask >>= 1
	}

	must.Truef(rank == 0, "gather: rank %d fell through the reduction without sending", rank)
	return nil
}

// topBit returns the highest power of two <= n, or 0 if n <= 0. This
// implements the reference's `0x01 << (int)log2(comm_sz - 1)` without
// floating-point log2.
func topBit(n int) int {
	if n <= 0 {
		return 0
	}
	mask := 1
	for mask<<1 <= n {
		mask <<= 1
	}
	return mask
}

// send packs local and transmits it to dest as a 4-byte little-endian
// length prefix followed by exactly that many payload bytes, per
// SPEC_FULL.md §4.5.
func send(w world.World, dest int, local *replica.Store) error {
	payload := wire.Pack(local)

	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(payload)))
	if err := w.Send(dest, lenPrefix[:]); err != nil {
		return errors.E(errors.Net, "sending gather length prefix", err)
	}
	if err := w.Send(dest, payload); err != nil {
		return errors.E(errors.Net, "sending gather payload", err)
	}
	return nil
}

// recvMerge receives one packed store from src and merges it into
// local, per the unpack contract of SPEC_FULL.md §4.4.
func recvMerge(w world.World, src int, local *replica.Store) error {
	lenPrefix, err := w.Recv(src)
	if err != nil {
		return errors.E(errors.Net, "receiving gather length prefix", err)
	}
	if len(lenPrefix) != 4 {
		return errors.E(errors.Integrity, "gather length prefix was not 4 bytes")
	}
	want := binary.LittleEndian.Uint32(lenPrefix)

	payload, err := w.Recv(src)
	if err != nil {
		return errors.E(errors.Net, "receiving gather payload", err)
	}
	if uint32(len(payload)) != want {
		return errors.E(errors.Integrity, "gather payload length did not match its prefix")
	}

	return wire.Unpack(local, payload)
}
