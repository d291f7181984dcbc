package table

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/versions-page/models"
)

type row struct {
	index   string
	version string
	href    string
	label   string
}

func parseRows(t *testing.T, fragment string) (*goquery.Document, []row) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)

	var rows []row
	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		a := cells.Eq(2).Find("a")
		href, _ := a.Attr("href")
		rows = append(rows, row{
			index:   cells.Eq(0).Text(),
			version: cells.Eq(1).Text(),
			href:    href,
			label:   a.Text(),
		})
	})
	return doc, rows
}

func TestRenderTwoVersions(t *testing.T) {
	manifest := models.VersionManifest{
		{Version: "1.0", URL: "v1/"},
		{Version: "2.0", URL: "v2/"},
	}

	doc, rows := parseRows(t, Render(manifest))

	assert.Equal(t, Heading, doc.Find("h2").Text())
	assert.Equal(t, []row{
		{index: "1", version: "1.0", href: "v1/", label: "v1/"},
		{index: "2", version: "2.0", href: "v2/", label: "v2/"},
	}, rows)
}

func TestRenderHeader(t *testing.T) {
	doc, _ := parseRows(t, Render(nil))

	var headers []string
	doc.Find("table thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	assert.Equal(t, []string{"#", "Version", "URL"}, headers)
	assert.True(t, doc.Find("table").HasClass("table"))
}

func TestRenderEmptyManifest(t *testing.T) {
	for _, manifest := range []models.VersionManifest{nil, {}} {
		doc, rows := parseRows(t, Render(manifest))
		assert.Empty(t, rows)
		assert.Equal(t, 1, doc.Find("table thead tr").Length())
		assert.Equal(t, 1, doc.Find("table tbody").Length())
	}
}

func TestRenderRowCountAndOrder(t *testing.T) {
	for _, n := range []int{0, 1, 7, 40} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			manifest := make(models.VersionManifest, n)
			for i := range manifest {
				manifest[i] = models.VersionEntry{
					Version: fmt.Sprintf("0.%d", n-i),
					URL:     fmt.Sprintf("https://docs.example.com/version/0.%d/", n-i),
				}
			}

			_, rows := parseRows(t, Render(manifest))
			require.Len(t, rows, n)
			for i, r := range rows {
				assert.Equal(t, strconv.Itoa(i+1), r.index)
				assert.Equal(t, manifest[i].Version, r.version)
				assert.Equal(t, manifest[i].URL, r.href)
				assert.Equal(t, manifest[i].URL, r.label)
			}
		})
	}
}

func TestRenderMissingFields(t *testing.T) {
	_, rows := parseRows(t, Render(models.VersionManifest{{}, {Version: "3.1"}}))

	require.Len(t, rows, 2)
	assert.Equal(t, row{index: "1"}, rows[0])
	assert.Equal(t, row{index: "2", version: "3.1"}, rows[1])
}

func TestRenderDeterministic(t *testing.T) {
	manifest := models.VersionManifest{
		{Version: "8.1", URL: "version/8.1/"},
		{Version: "8.1", URL: "version/8.1/"},
		{Version: "7.0", URL: "version/7.0/"},
	}
	assert.Equal(t, Render(manifest), Render(manifest))
}

func TestRenderURLVerbatim(t *testing.T) {
	manifest := models.VersionManifest{{Version: "0.1", URL: "https://docs.example.com/version/0.1/?a=1&b=2"}}

	out := Render(manifest)
	assert.Contains(t, out, "href='https://docs.example.com/version/0.1/?a=1&b=2'")
	assert.Contains(t, out, ">https://docs.example.com/version/0.1/?a=1&b=2</a>")
}
