package bdrom

// Category names one of the semantic directories of a BDMV structure.
type Category int

const (
	CategoryBDMV Category = iota
	CategoryClipInfo
	CategoryPlaylist
	CategoryStream
	CategorySSIF
	CategoryBDJO
	CategoryMeta

	categoryCount
)

// Categories lists every category in planning order.
var Categories = []Category{
	CategorySSIF,
	CategoryStream,
	CategoryBDMV,
	CategoryClipInfo,
	CategoryPlaylist,
	CategoryBDJO,
	CategoryMeta,
}

var categoryNames = [categoryCount]string{
	CategoryBDMV:     "BDMV",
	CategoryClipInfo: "CLIPINF",
	CategoryPlaylist: "PLAYLIST",
	CategoryStream:   "STREAM",
	CategorySSIF:     "SSIF",
	CategoryBDJO:     "BDJO",
	CategoryMeta:     "META",
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return "UNKNOWN"
	}
	return categoryNames[c]
}

// Capped reports whether files of the category are truncated to the sample
// cap. Only the stream containers are.
func (c Category) Capped() bool {
	return c == CategoryStream || c == CategorySSIF
}

// Stream container extensions.
const (
	StreamExtension = ".m2ts"
	SSIFExtension   = ".ssif"
)
