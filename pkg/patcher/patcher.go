// Package patcher applies the shell and the versions table to a live page.
package patcher

import (
	"github.com/dtnitsch/versions-page/models"
	"github.com/dtnitsch/versions-page/pkg/page"
)

// ReleaseTag names the element that replaces the primary content.
const ReleaseTag = "release"

// Element names used in ElementNotFoundError.
const (
	PrimaryContent      = "primary content"
	SecondaryNavigation = "secondary navigation"
)

// Selectors locates the two shell elements the patcher touches.
type Selectors struct {
	Primary    string
	Navigation string
}

// DefaultSelectors returns the pydata-sphinx-theme layout selectors.
func DefaultSelectors() Selectors {
	return Selectors{
		Primary:    models.DefaultPrimarySelector,
		Navigation: models.DefaultNavigationSelector,
	}
}

// Patcher mutates a page. Steps are not reversible; callers run them in
// order and stop at the first error.
type Patcher struct {
	selectors Selectors
}

func New(selectors Selectors) *Patcher {
	return &Patcher{selectors: selectors}
}

// LoadShell replaces the page's entire content with the shell document.
func (pt *Patcher) LoadShell(p *page.Page, shell string) error {
	return p.ReplaceRoot(shell)
}

// ReplacePrimary swaps the primary-content element for a release element
// holding fragment, keeping its parent and sibling position.
func (pt *Patcher) ReplacePrimary(p *page.Page, fragment string) error {
	article, ok := p.Query(pt.selectors.Primary)
	if !ok {
		return &models.ElementNotFoundError{Element: PrimaryContent, Selector: pt.selectors.Primary}
	}
	release := p.CreateElement(ReleaseTag, fragment)
	article.ReplaceWithSelection(release)
	return nil
}

// RemoveNavigation deletes the secondary navigation element.
func (pt *Patcher) RemoveNavigation(p *page.Page) error {
	sidebar, ok := p.Query(pt.selectors.Navigation)
	if !ok {
		return &models.ElementNotFoundError{Element: SecondaryNavigation, Selector: pt.selectors.Navigation}
	}
	sidebar.Remove()
	return nil
}
