// Package cliopts parses and validates the pipeclust command line
// described in SPEC_FULL.md §6. It is kept separate from cmd/pipeclust
// so option parsing can be unit tested without a process boundary.
package cliopts

import (
	"flag"
	"fmt"
	"io"

	"github.com/biocore/pipeclust/errors"
	"github.com/biocore/pipeclust/internal/derepctx"
)

// Options is the parsed, validated command line.
type Options struct {
	// FastaPath is the output FASTA file (--fasta).
	FastaPath string
	// MapPath is the output OTU map file (--map).
	MapPath string
	// SuppressSort skips abundance sorting before output (--suppress_sort).
	SuppressSort bool
	// Ranks is the number of simulated ranks to run in-process (--ranks).
	Ranks int
	// Files are the positional input FASTA paths.
	Files []string
}

// Parse parses args (typically os.Args[1:]) and returns a validated
// Options. If help is requested, Parse returns (nil, nil) after writing
// usage to usageOut; callers should exit 0 in that case. Any other
// validation failure is returned as an *errors.Error of kind
// derepctx.BadCliOptions or derepctx.UnsupportedCommand.
func Parse(args []string, usageOut io.Writer) (*Options, error) {
	fs := flag.NewFlagSet("pipeclust", flag.ContinueOnError)
	fs.SetOutput(usageOut)

	help := fs.Bool("help", false, "print usage and exit")
	derep := fs.Bool("derep", false, "de-replicate the given FASTA files (the only supported subcommand)")
	fastaPath := fs.String("fasta", "", "output FASTA path (required with --derep)")
	mapPath := fs.String("map", "", "output OTU map path (required with --derep)")
	suppressSort := fs.Bool("suppress_sort", false, "skip abundance sorting of output records")
	ranks := fs.Int("ranks", 1, "number of simulated ranks to run in-process")

	if err := fs.Parse(args); err != nil {
		return nil, errors.E(derepctx.BadCliOptions, "parsing command line", err)
	}

	if *help {
		printUsage(usageOut, fs)
		return nil, nil
	}

	if !*derep {
		return nil, errors.E(derepctx.UnsupportedCommand,
			"no subcommand given; pipeclust currently only supports --derep")
	}
	if *fastaPath == "" {
		return nil, errors.E(derepctx.BadCliOptions, "--fasta is required with --derep")
	}
	if *mapPath == "" {
		return nil, errors.E(derepctx.BadCliOptions, "--map is required with --derep")
	}
	if *ranks < 1 {
		return nil, errors.E(derepctx.BadCliOptions, "--ranks must be at least 1")
	}
	files := fs.Args()
	if len(files) == 0 {
		return nil, errors.E(derepctx.BadCliOptions, "at least one input FASTA file is required")
	}

	return &Options{
		FastaPath:    *fastaPath,
		MapPath:      *mapPath,
		SuppressSort: *suppressSort,
		Ranks:        *ranks,
		Files:        files,
	}, nil
}

func printUsage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "pipeclust --derep --fasta <path> --map <path> [--suppress_sort] [--ranks <n>] <input.fasta>...")
	fs.SetOutput(out)
	fs.PrintDefaults()
}
