package dtos

// --- Controller endpoints ----

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// ImportResult is returned by an inventory import.
type ImportResult struct {
	ImportedCount int    `json:"imported_count"`
	SourceFile    string `json:"source_file"`
	ImportBatchID string `json:"import_batch_id"`
}

// UpsertResult reports which record an MTR upsert touched and how.
type UpsertResult struct {
	ID        uint   `json:"id"`
	Operation string `json:"operation"`
}

// BatchUpsertItem is the outcome of one element of a batch upsert.
type BatchUpsertItem struct {
	Index  int           `json:"index"`
	Result *UpsertResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type BatchUpsertResult struct {
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Items   []BatchUpsertItem `json:"items"`
}

// StatsResponse summarizes both tables and the current join.
type StatsResponse struct {
	MtrCount       int64  `json:"mtr_count"`
	MtrHeatCount   int64  `json:"mtr_heat_count"`
	InventoryCount int64  `json:"inventory_count"`
	SourceFile     string `json:"source_file,omitempty"`
	Matched        int    `json:"matched"`
	MissingMTR     int    `json:"missing_mtr"`
}
