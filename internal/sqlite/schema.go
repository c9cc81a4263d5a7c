package sqlite

// Records table DDL. Every record lives in one table regardless of type;
// the typed field bag is stored as JSON text. Timestamps are RFC 3339 text.
const createRecords = `CREATE TABLE IF NOT EXISTS records (
    scope TEXT NOT NULL,
    record_id TEXT NOT NULL,
    record_type TEXT NOT NULL,
    creator_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    fields TEXT NOT NULL,
    PRIMARY KEY (scope, record_id)
);`

// Index DDL for type and creator queries.
const (
	idxRecordsType    = `CREATE INDEX IF NOT EXISTS idx_records_type ON records(scope, record_type);`
	idxRecordsCreator = `CREATE INDEX IF NOT EXISTS idx_records_creator ON records(scope, record_type, creator_id);`
)

// schemaDDL lists all statements applied on open.
var schemaDDL = []string{
	createRecords,
	idxRecordsType,
	idxRecordsCreator,
}
