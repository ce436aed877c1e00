package constants

// Fingerprint of both tables. Any write changes at least one column, which is what
// invalidates cached joined views.
const DataFingerprint = `
	SELECT
		(SELECT COUNT(*) FROM mtr_data) AS mtr_count,
		(SELECT COALESCE(MAX(id), 0) FROM mtr_data) AS mtr_max_id,
		(SELECT COALESCE(CAST(MAX(uploaded_at) AS TEXT), '') FROM mtr_data) AS mtr_last_upload,
		(SELECT COUNT(*) FROM inventory) AS inventory_count,
		(SELECT COALESCE(MAX(id), 0) FROM inventory) AS inventory_max_id,
		(SELECT COALESCE(MIN(import_batch_id), '') FROM inventory) AS import_batch_id
	`

const TableCounts = `
	SELECT
		(SELECT COUNT(*) FROM mtr_data) AS mtr_count,
		(SELECT COUNT(DISTINCT heat_number) FROM mtr_data) AS mtr_heat_count,
		(SELECT COUNT(*) FROM inventory) AS inventory_count,
		(SELECT COALESCE(MIN(source_file), '') FROM inventory) AS source_file
	`
