package renderer

// State is the progress of a render through its mutation steps.
type State string

const (
	StateNotStarted      State = "not_started"
	StateShellLoaded     State = "shell_loaded"
	StateArticleReplaced State = "article_replaced"
	StateSidebarRemoved  State = "sidebar_removed"
	StateFailed          State = "failed"
)

// Stage names the step that was running when a render failed.
type Stage string

const (
	StageLoad           Stage = "load"
	StageShell          Stage = "shell"
	StageReplaceArticle Stage = "replace_article"
	StageRemoveSidebar  Stage = "remove_sidebar"
)

// PageTouched reports whether a render failing at this stage had already
// replaced the page content.
func (s Stage) PageTouched() bool {
	return s == StageReplaceArticle || s == StageRemoveSidebar
}
