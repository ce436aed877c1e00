package constants

type (
	JoinStatus  string
	UpsertOp    string
	APIStatus   string
	CachePrefix string
)

const (
	JoinStatusMatched    JoinStatus = "Matched"
	JoinStatusMissingMTR JoinStatus = "Missing MTR"

	UpsertCreated UpsertOp = "created"
	UpsertUpdated UpsertOp = "updated"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixJoinedView CachePrefix = "JOINED_"
)

const (
	// WriteLockName serializes imports and upserts across instances.
	WriteLockName = "mtr-ledger:write"

	// InventoryInsertBatchSize caps rows per INSERT. The effective batch is further
	// limited so rows*columns stays under MaxSQLVariables.
	InventoryInsertBatchSize = 500
	// MaxSQLVariables is SQLite's bound-parameter limit, the lowest of the supported drivers.
	MaxSQLVariables = 32766
)
