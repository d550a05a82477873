package tarball

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/mcdonaldj/tarcache/internal/ports"
)

// CompressionMethod identifies the codec paired with the tar tool. It is
// derived once per process from the installed zstd version and reused
// across all operations within a run.
type CompressionMethod int

const (
	// Gzip is the universally available fallback codec.
	Gzip CompressionMethod = iota
	// Zstd enables long-distance matching (--long=30, a 1 GiB window
	// that still works on 32-bit hosts).
	Zstd
	// ZstdWithoutLong is used for zstd releases older than 1.3.2,
	// which lack long-distance matching.
	ZstdWithoutLong
)

// String returns a human-readable name for the compression method.
func (m CompressionMethod) String() string {
	switch m {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case ZstdWithoutLong:
		return "zstd-without-long"
	}
	return fmt.Sprintf("CompressionMethod(%d)", int(m))
}

// minLongRangeVersion is the zstd release that introduced long-distance
// matching.
const minLongRangeVersion = "v1.3.2"

// zstdBannerMarker identifies the real zstd CLI in its version banner,
// e.g. "*** zstd command line interface 64-bits v1.5.5, by Yann Collet ***".
const zstdBannerMarker = "zstd command line interface"

var zstdVersionRe = regexp.MustCompile(`v(\d+\.\d+\.\d+)`)

// ResolveCompression determines the usable compression codec by probing
// the installed zstd command. It never fails: a missing binary, a banner
// that does not identify the zstd CLI, or an unparseable version all
// degrade to Gzip.
func ResolveCompression(runner ports.CommandRunner, loc ports.Locator) CompressionMethod {
	if _, err := loc.LookPath("zstd"); err != nil {
		return Gzip
	}
	return probeZstd("zstd", runner)
}

// ResolveCompressionAt probes an explicitly configured zstd binary,
// with the same gzip degradation as ResolveCompression.
func ResolveCompressionAt(path string, runner ports.CommandRunner) CompressionMethod {
	return probeZstd(path, runner)
}

func probeZstd(bin string, runner ports.CommandRunner) CompressionMethod {
	banner, err := runner.Output(bin, []string{"--version"}, "")
	if err != nil {
		return Gzip
	}
	version := parseZstdVersion(banner)
	if version == "" {
		return Gzip
	}
	if semver.Compare(version, minLongRangeVersion) < 0 {
		return ZstdWithoutLong
	}
	return Zstd
}

// parseZstdVersion extracts a canonical "vX.Y.Z" version from the zstd
// version banner, or "" if the banner is not recognizable.
func parseZstdVersion(banner string) string {
	if !strings.Contains(banner, zstdBannerMarker) {
		return ""
	}
	match := zstdVersionRe.FindStringSubmatch(banner)
	if match == nil {
		return ""
	}
	version := "v" + match[1]
	if !semver.IsValid(version) {
		return ""
	}
	return version
}
