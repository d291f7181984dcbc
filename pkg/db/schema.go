package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

-- One row per render of a versions page
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_url TEXT NOT NULL,
    shell_url TEXT,
    manifest_url TEXT,
    state TEXT NOT NULL,          -- not_started, shell_loaded, article_replaced, sidebar_removed, failed
    failed_stage TEXT,            -- load, shell, replace_article, remove_sidebar
    error_kind TEXT,              -- fetch_error, parse_error, element_not_found, unknown_error
    error_message TEXT,
    page_touched BOOLEAN DEFAULT 0, -- shell already on the page when the run failed
    version_count INTEGER DEFAULT 0,
    output_path TEXT,
    output_hash TEXT,             -- sha256 of the written page
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_page ON runs(page_url);
CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
