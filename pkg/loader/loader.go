// Package loader retrieves the shell document and the version manifest.
package loader

import (
	"context"
	"encoding/json"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/versions-page/internal/common"
	"github.com/dtnitsch/versions-page/models"
	"github.com/dtnitsch/versions-page/pkg/fetcher"
)

// Resources names the two documents to load, relative to the page location.
type Resources struct {
	Shell    string
	Manifest string
}

// DefaultResources returns index.html and versions.json.
func DefaultResources() Resources {
	return Resources{Shell: models.DefaultShellResource, Manifest: models.DefaultManifestResource}
}

// Content is what the loader hands to the renderer.
type Content struct {
	Shell    string
	Manifest models.VersionManifest
}

// Load issues both retrievals at once and waits for both to settle.
//
// A non-2xx shell response fails with *models.FetchError and the manifest is
// discarded. The manifest status is not checked; its body is decoded as JSON
// and a bad body fails with *models.ParseError.
func Load(ctx context.Context, location *url.URL, res Resources, retrieve fetcher.RetrieveFunc) (*Content, error) {
	shellURL, err := common.ResolveResource(location, res.Shell)
	if err != nil {
		return nil, err
	}
	manifestURL, err := common.ResolveResource(location, res.Manifest)
	if err != nil {
		return nil, err
	}

	var shellResp, manifestResp *fetcher.Response

	// Plain group: one failing retrieval does not cancel the other, both settle.
	var g errgroup.Group
	g.Go(func() error {
		resp, err := retrieve(ctx, shellURL)
		if err != nil {
			return &models.FetchError{URL: shellURL, Err: err}
		}
		shellResp = resp
		return nil
	})
	g.Go(func() error {
		resp, err := retrieve(ctx, manifestURL)
		if err != nil {
			return &models.FetchError{URL: manifestURL, Err: err}
		}
		manifestResp = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !shellResp.OK() {
		return nil, &models.FetchError{URL: shellURL, StatusCode: shellResp.StatusCode}
	}

	manifest, err := ParseManifest(manifestResp.Body)
	if err != nil {
		return nil, &models.ParseError{URL: manifestURL, Err: err}
	}

	return &Content{Shell: string(shellResp.Body), Manifest: manifest}, nil
}

// ParseManifest decodes a versions.json body. A JSON null decodes to an
// empty manifest.
func ParseManifest(body []byte) (models.VersionManifest, error) {
	var manifest models.VersionManifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}
