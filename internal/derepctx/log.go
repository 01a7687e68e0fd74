package derepctx

import (
	"fmt"
	"os"

	"github.com/biocore/pipeclust/internal/world"
	"github.com/biocore/pipeclust/log"
)

// RankOutputter is a log.Outputter that reproduces the reference
// error_handler's three message classes: informational messages print
// unprefixed and rank-0-only, everything else is prefixed with
// "[rank/size]" (SPEC_FULL.md §7).
type RankOutputter struct {
	Rank, Size int
}

// Level reports that this outputter accepts every level; filtering of
// informational messages happens in Output based on rank, not level.
func (RankOutputter) Level() log.Level { return log.Debug }

// Output implements log.Outputter.
func (o RankOutputter) Output(calldepth int, level log.Level, s string) error {
	if level == log.Info {
		if o.Rank != 0 {
			return nil
		}
		_, err := fmt.Fprintln(os.Stderr, s)
		return err
	}
	_, err := fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", o.Rank, o.Size, s)
	return err
}

// Install installs a RankOutputter for rank/size as the package-wide
// log outputter. It should be called once, early in process startup
// (SPEC_FULL.md's ambient-stack logging section).
func Install(rank, size int) {
	log.SetOutputter(RankOutputter{Rank: rank, Size: size})
}

// Info emits a rank-0-only informational message, matching
// error_handler's INFO_MSG.
func Info(format string, args ...interface{}) {
	log.Info.Printf(format, args...)
}

// Warn emits a "[rank/size] WARNING: ..." message on every rank,
// matching error_handler's WARN_ERROR. It does not abort the world.
func Warn(format string, args ...interface{}) {
	log.Error.Printf("WARNING: "+format, args...)
}

// Fatal emits a "[rank/size] FATAL ERROR: ..." message, aborts w, and
// exits the process, matching error_handler's FATAL_ERROR. Fatal never
// returns.
func Fatal(w world.World, err error) {
	log.Error.Printf("FATAL ERROR: %v", err)
	if w != nil {
		w.Abort(err)
	}
	os.Exit(1)
}
