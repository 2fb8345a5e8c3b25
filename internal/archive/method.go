package archive

import (
	"archive/zip"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/Fuabioo/zipdir/internal/errors"
)

// Method is a zip compression method id.
type Method uint16

const (
	Stored   Method = Method(zip.Store)
	Deflated Method = Method(zip.Deflate)
	Bzip2    Method = 12
	Zstd     Method = 93 // WinZip assignment, as used by 7-Zip and libzip
)

// Levels holds per-method compression levels. Zero selects the library default
// for bzip2 and zstd; deflate uses -1 for its default.
type Levels struct {
	Deflate int
	Bzip2   int
	Zstd    int
}

// DefaultLevels returns the library default levels.
func DefaultLevels() Levels {
	return Levels{Deflate: -1}
}

// compressors holds the methods compiled into this build. Each non-stored
// method registers itself from a file guarded by a zipdir_no_<method> build tag.
var compressors = map[Method]func(Levels) zip.Compressor{}

func register(m Method, factory func(Levels) zip.Compressor) {
	compressors[m] = factory
}

// DefaultCandidates returns the fixed priority list of methods.
func DefaultCandidates() []Method {
	return []Method{Stored, Deflated, Bzip2, Zstd}
}

// Available reports whether m is compiled into this build.
func Available(m Method) bool {
	if m == Stored {
		return true
	}
	_, ok := compressors[m]
	return ok
}

// Enabled returns the available methods of candidates, in order and without duplicates.
func Enabled(candidates []Method) []Method {
	return lo.Filter(lo.Uniq(candidates), func(m Method, _ int) bool {
		return Available(m)
	})
}

// compressor returns the factory output for m, or nil for stored and
// methods that are not compiled in.
func (m Method) compressor(levels Levels) zip.Compressor {
	factory, ok := compressors[m]
	if !ok {
		return nil
	}
	return factory(levels)
}

func (m Method) String() string {
	switch m {
	case Stored:
		return "stored"
	case Deflated:
		return "deflate"
	case Bzip2:
		return "bzip2"
	case Zstd:
		return "zstd"
	default:
		return "method(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMethod parses a method name. Matching is case-insensitive.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "stored", "store", "none":
		return Stored, nil
	case "deflate", "deflated":
		return Deflated, nil
	case "bzip2", "bz2":
		return Bzip2, nil
	case "zstd", "zstandard":
		return Zstd, nil
	default:
		return 0, errors.InvalidMethod(name)
	}
}

// ParseMethods parses an ordered list of method names.
func ParseMethods(names []string) ([]Method, error) {
	methods := make([]Method, 0, len(names))
	for _, name := range names {
		m, err := ParseMethod(name)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// MethodInfo describes one candidate for listing.
type MethodInfo struct {
	Name      string `json:"name"`
	ID        uint16 `json:"id"`
	Priority  int    `json:"priority"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
}

// Describe reports availability for each candidate in priority order and
// marks the one a run would use.
func Describe(candidates []Method) []MethodInfo {
	enabled := Enabled(candidates)
	infos := make([]MethodInfo, 0, len(candidates))
	for i, m := range lo.Uniq(candidates) {
		infos = append(infos, MethodInfo{
			Name:      m.String(),
			ID:        uint16(m),
			Priority:  i + 1,
			Available: Available(m),
			Selected:  len(enabled) > 0 && enabled[0] == m,
		})
	}
	return infos
}
