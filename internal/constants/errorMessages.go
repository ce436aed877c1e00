package constants

const (
	MsgUploadFile     = "Please upload a file."
	MsgNoDataRows     = "No data rows were found in the file."
	MsgPayloadNotMap  = "Payload must be a JSON object."
	MsgPayloadNotList = "Payload must be a JSON array of objects."
	MsgKeysRequired   = "heat_number and batch_number are required."
	MsgWriteBusy      = "Another import or upsert is in progress, try again shortly."
	MsgImportComplete = "Import Complete"
	MsgUpsertComplete = "MTR saved"
	MsgMtrNotFound    = "MTR record not found"
	MsgInvalidStatus  = "status must be 'Matched' or 'Missing MTR'"
)
