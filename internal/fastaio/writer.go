package fastaio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/biocore/pipeclust/errors"
	"github.com/biocore/pipeclust/internal/replica"
)

// WriteOutputs writes the de-replicated FASTA file and OTU map for recs,
// in the order given, to fastaPath and mapPath respectively. i in the
// output (SPEC_FULL.md §4.8) is the zero-based emission index, i.e. the
// position of each record in recs.
func WriteOutputs(recs []*replica.Record, fastaPath, mapPath string) (err error) {
	fastaFile, err := os.Create(fastaPath)
	if err != nil {
		return errors.E(errors.NotExist, "opening output FASTA file", err)
	}
	defer errors.CleanUp(fastaFile.Close, &err)

	mapFile, err := os.Create(mapPath)
	if err != nil {
		return errors.E(errors.NotExist, "opening output OTU map file", err)
	}
	defer errors.CleanUp(mapFile.Close, &err)

	fastaW := bufio.NewWriter(fastaFile)
	mapW := bufio.NewWriter(mapFile)

	for i, rec := range recs {
		if _, err = fmt.Fprintf(fastaW, ">Seq_%d count=%d\n%s\n", i, rec.Count, rec.Sequence); err != nil {
			return errors.E(errors.NotExist, "writing output FASTA file", err)
		}
		if _, err = fmt.Fprintf(mapW, "Seq_%d", i); err != nil {
			return errors.E(errors.NotExist, "writing output OTU map file", err)
		}
		for _, label := range rec.Labels {
			if _, err = fmt.Fprintf(mapW, "\t%s", label); err != nil {
				return errors.E(errors.NotExist, "writing output OTU map file", err)
			}
		}
		if _, err = mapW.WriteString("\n"); err != nil {
			return errors.E(errors.NotExist, "writing output OTU map file", err)
		}
	}

	if err = fastaW.Flush(); err != nil {
		return errors.E(errors.NotExist, "flushing output FASTA file", err)
	}
	if err = mapW.Flush(); err != nil {
		return errors.E(errors.NotExist, "flushing output OTU map file", err)
	}
	return nil
}
