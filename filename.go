package docrag

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// MaxFilenameLength is the longest URL-derived name kept verbatim.
const MaxFilenameLength = 200

var filenameReplacer = strings.NewReplacer("/", "_", "?", "_", "&", "_", ":", "_")

// URLToFilename converts a page URL into a flat file name ending in ".html".
// The scheme is dropped and path or query separators become underscores.
// Names longer than MaxFilenameLength become "{domain}_{hash}.html".
func URLToFilename(rawURL string) string {
	name := strings.ReplaceAll(rawURL, "https://", "")
	name = strings.ReplaceAll(name, "http://", "")
	name = filenameReplacer.Replace(name)

	if len(name) > MaxFilenameLength {
		domain, _, _ := strings.Cut(name, "_")
		return fmt.Sprintf("%s_%016x.html", domain, xxhash.Sum64String(rawURL))
	}
	return name + ".html"
}
