package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	raw_data    TEXT NOT NULL DEFAULT '{}',
	updated_at  DATETIME NOT NULL,
	fetched_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id         INTEGER PRIMARY KEY,
	project_id INTEGER NOT NULL,
	title      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'TODO',
	priority   TEXT NOT NULL DEFAULT 'MEDIUM',
	raw_data   TEXT NOT NULL DEFAULT '{}',
	updated_at DATETIME NOT NULL,
	fetched_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
