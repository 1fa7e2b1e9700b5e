package pgstore

// {schema}. is replaced by the quoted schema name, if any
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS {schema}.content (
		pk        TEXT PRIMARY KEY,
		type      TEXT NOT NULL,
		data_type TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.content_artifacts (
		pk              TEXT PRIMARY KEY,
		content_pk      TEXT NOT NULL,
		relative_path   TEXT NOT NULL,
		artifact_digest TEXT NOT NULL DEFAULT '',
		UNIQUE (content_pk, relative_path)
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.remote_artifacts (
		pk                  TEXT PRIMARY KEY,
		content_artifact_pk TEXT NOT NULL,
		remote_pk           TEXT NOT NULL,
		url                 TEXT NOT NULL,
		size                BIGINT NOT NULL DEFAULT 0,
		digests             TEXT NOT NULL DEFAULT '{}',
		UNIQUE (content_artifact_pk, remote_pk)
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.packages (
		pk            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		epoch         TEXT NOT NULL,
		version       TEXT NOT NULL,
		release       TEXT NOT NULL,
		arch          TEXT NOT NULL,
		pkg_id        TEXT NOT NULL,
		checksum_type TEXT NOT NULL,
		summary       TEXT NOT NULL DEFAULT '',
		location_base TEXT NOT NULL DEFAULT '',
		location_href TEXT NOT NULL DEFAULT '',
		modular       BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS packages_name_version ON {schema}.packages (name, version)`,
	`CREATE TABLE IF NOT EXISTS {schema}.modulemds (
		pk           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		stream       TEXT NOT NULL,
		version      TEXT NOT NULL,
		context      TEXT NOT NULL,
		arch         TEXT NOT NULL,
		dependencies TEXT NOT NULL,
		artifacts    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.modulemd_defaults (
		pk       TEXT PRIMARY KEY,
		module   TEXT NOT NULL,
		stream   TEXT NOT NULL,
		profiles TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.modulemd_packages (
		modulemd_pk TEXT NOT NULL,
		package_pk  TEXT NOT NULL,
		PRIMARY KEY (modulemd_pk, package_pk)
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.update_records (
		pk           TEXT PRIMARY KEY,
		digest       TEXT NOT NULL UNIQUE,
		id           TEXT NOT NULL,
		updated_date TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		issued_date  TEXT NOT NULL DEFAULT '',
		fromstr      TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT '',
		title        TEXT NOT NULL DEFAULT '',
		summary      TEXT NOT NULL DEFAULT '',
		version      TEXT NOT NULL DEFAULT '',
		type         TEXT NOT NULL DEFAULT '',
		severity     TEXT NOT NULL DEFAULT '',
		solution     TEXT NOT NULL DEFAULT '',
		release      TEXT NOT NULL DEFAULT '',
		rights       TEXT NOT NULL DEFAULT '',
		pushcount    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS update_records_id ON {schema}.update_records (id)`,
	`CREATE TABLE IF NOT EXISTS {schema}.update_collections (
		update_record_pk TEXT NOT NULL,
		position         INTEGER NOT NULL,
		name             TEXT NOT NULL,
		shortname        TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (update_record_pk, position)
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.update_collection_packages (
		update_record_pk    TEXT NOT NULL,
		collection_position INTEGER NOT NULL,
		position            INTEGER NOT NULL,
		name                TEXT NOT NULL,
		epoch               TEXT NOT NULL,
		version             TEXT NOT NULL,
		release             TEXT NOT NULL,
		arch                TEXT NOT NULL,
		filename            TEXT NOT NULL DEFAULT '',
		sum                 TEXT NOT NULL DEFAULT '',
		sum_type            TEXT NOT NULL DEFAULT '',
		src                 TEXT NOT NULL DEFAULT '',
		reboot_suggested    BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (update_record_pk, collection_position, position)
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.update_references (
		update_record_pk TEXT NOT NULL,
		position         INTEGER NOT NULL,
		href             TEXT NOT NULL,
		ref_id           TEXT NOT NULL DEFAULT '',
		title            TEXT NOT NULL DEFAULT '',
		ref_type         TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (update_record_pk, position)
	)`,
	`CREATE TABLE IF NOT EXISTS {schema}.remotes (
		pk     TEXT PRIMARY KEY,
		name   TEXT NOT NULL UNIQUE,
		type   TEXT NOT NULL,
		url    TEXT NOT NULL,
		policy TEXT NOT NULL DEFAULT ''
	)`,
}
