// Package table renders the version manifest as an HTML fragment.
package table

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/versions-page/models"
)

// Heading is the title placed above the versions table.
const Heading = "Older versions"

// Render builds the versions table. Rows follow manifest order, numbered
// from 1. Version and URL values are inserted verbatim.
func Render(manifest models.VersionManifest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>%s</h2>", Heading)
	b.WriteString("<table class='table'>")
	b.WriteString("<thead><tr><th>#</th><th>Version</th><th>URL</th></tr></thead>")
	b.WriteString("<tbody>")
	for i, entry := range manifest {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td><a href='%s'>%s</a></td></tr>",
			i+1, entry.Version, entry.URL, entry.URL)
	}
	b.WriteString("</tbody></table>")

	return b.String()
}
