package tarball

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Operation selects which archive operation a plan performs.
type Operation int

const (
	// Create archives the source paths listed in the manifest file.
	Create Operation = iota
	// Extract restores an archive into the working directory.
	Extract
	// List prints the member paths stored in an archive.
	List
)

// String returns a human-readable name for the operation.
func (o Operation) String() string {
	switch o {
	case Create:
		return "create"
	case Extract:
		return "extract"
	case List:
		return "list"
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Fixed filenames used as the on-disk contract between stages.
const (
	// ManifestFilename is the newline-delimited source list read by
	// tar's --files-from option, sidestepping argv-length ceilings.
	ManifestFilename = "manifest.txt"

	// IntermediateTarFilename is the uncompressed archive produced by
	// the first stage of the two-stage BSD+zstd plan.
	IntermediateTarFilename = "cache.tar"
)

// Request describes one archive operation.
type Request struct {
	// ArchivePath is the compressed archive: the output for Create,
	// the input for Extract and List.
	ArchivePath string
	// WorkingDir is the directory tar archives from or restores into.
	WorkingDir string
	// StagingDir holds the manifest file and, on the two-stage path,
	// the intermediate uncompressed archive.
	StagingDir string
	// Sources are the paths to archive. Create only.
	Sources []string
	// ZstdPath is an explicitly configured zstd binary. Empty means
	// zstd on the search path.
	ZstdPath string
}

// Step is one subprocess invocation in a plan.
type Step struct {
	Name string
	Args []string
}

// Plan is the ordered command sequence for one archive operation. Most
// tool/codec combinations produce a single step; a BSD tar paired with
// zstd on Windows produces two, chained through the intermediate
// uncompressed archive.
type Plan struct {
	Steps []Step
}

// BuildPlan composes the full argument sequence for the given tool,
// codec, operation, and GOOS value. It is a pure function: identical
// inputs always yield identical plans, and the only transformation
// applied to paths is normalization to forward slashes, which the
// archive tools expect even on Windows.
func BuildPlan(tool Tool, codec CompressionMethod, op Operation, goos string, req Request) (Plan, error) {
	if req.ArchivePath == "" {
		return Plan{}, fmt.Errorf("build %s plan: archive path is required", op)
	}

	// BSD tar on Windows does not reliably pipe through an external
	// zstd via --use-compress-program, so those combinations run tar
	// and zstd as two separate invocations.
	twoStage := tool.Kind == BSDTar && codec != Gzip && goos == "windows"

	archive := normalizePath(req.ArchivePath)
	tarFile := normalizePath(filepath.Join(req.StagingDir, IntermediateTarFilename))
	manifest := normalizePath(filepath.Join(req.StagingDir, ManifestFilename))
	workDir := normalizePath(req.WorkingDir)

	// On the two-stage path tar reads or writes the intermediate file;
	// zstd bridges it to the compressed archive.
	tarTarget := archive
	if twoStage {
		tarTarget = tarFile
	}

	var tarArgs []string
	switch op {
	case Create:
		if req.WorkingDir == "" {
			return Plan{}, fmt.Errorf("build %s plan: working directory is required", op)
		}
		// The --exclude target must match the -cf target exactly,
		// otherwise tar archives its own in-progress output.
		tarArgs = []string{"--posix", "-cf", tarTarget, "--exclude", tarTarget, "-P", "-C", workDir, "--files-from", manifest}
	case Extract:
		if req.WorkingDir == "" {
			return Plan{}, fmt.Errorf("build %s plan: working directory is required", op)
		}
		tarArgs = []string{"-xf", tarTarget, "-P", "-C", workDir}
	case List:
		tarArgs = []string{"-tf", tarTarget, "-P"}
	default:
		return Plan{}, fmt.Errorf("unknown archive operation %d", int(op))
	}

	if tool.Kind == GNUTar {
		switch goos {
		case "windows":
			// Keeps GNU tar from parsing a drive-letter path as a
			// remote host spec.
			tarArgs = append(tarArgs, "--force-local")
		case "darwin":
			// GNU tar on macOS can hit permission-denied restoring
			// directory metadata before all files are extracted from
			// a BSD-produced archive.
			tarArgs = append(tarArgs, "--delay-directory-restore")
		}
	}

	tarStep := Step{Name: tool.Path, Args: tarArgs}

	if codec == Gzip {
		tarStep.Args = append(tarStep.Args, "-z")
		return Plan{Steps: []Step{tarStep}}, nil
	}

	zstdBin := req.ZstdPath
	if zstdBin == "" {
		zstdBin = "zstd"
	}

	if !twoStage {
		tarStep.Args = append(tarStep.Args, "--use-compress-program", compressProgram(codec, op, goos, zstdBin))
		return Plan{Steps: []Step{tarStep}}, nil
	}

	zstdStep := Step{Name: zstdBin, Args: zstdStageArgs(codec, op, archive, tarFile)}
	if op == Create {
		// tar writes cache.tar, then zstd compresses it.
		return Plan{Steps: []Step{tarStep, zstdStep}}, nil
	}
	// zstd decompresses to cache.tar, then tar consumes it.
	return Plan{Steps: []Step{zstdStep, tarStep}}, nil
}

// compressProgram returns the --use-compress-program invocation for the
// single-stage zstd paths. The zstdmt and unzstd aliases only exist for
// a standard install on the search path; Windows builds and explicitly
// configured binaries are driven with flags on the base command.
func compressProgram(codec CompressionMethod, op Operation, goos, bin string) string {
	long := codec == Zstd
	aliased := goos != "windows" && bin == "zstd"
	if op == Create {
		prog := bin + " -T0"
		if aliased {
			prog = "zstdmt"
		}
		if long {
			return prog + " --long=30"
		}
		return prog
	}
	prog := bin + " -d"
	if aliased {
		prog = "unzstd"
	}
	if long {
		return prog + " --long=30"
	}
	return prog
}

// zstdStageArgs returns the arguments for the dedicated zstd invocation
// on the two-stage path.
func zstdStageArgs(codec CompressionMethod, op Operation, archive, tarFile string) []string {
	var args []string
	if op == Create {
		args = []string{"-T0"}
	} else {
		args = []string{"-d"}
	}
	if codec == Zstd {
		args = append(args, "--long=30")
	}
	if op == Create {
		return append(args, "-o", archive, tarFile)
	}
	return append(args, "-o", tarFile, archive)
}

// normalizePath rewrites path separators to forward slashes. The archive
// tools expect POSIX-style separators regardless of host OS, and the
// transformation is idempotent.
func normalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
