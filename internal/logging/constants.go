package logging

// Standardized field names for structured logging.
const (
	FieldFile          = "file_path"
	FieldParser        = "parser"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldKeyword       = "keyword"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldCount         = "count"
	FieldDelimiter     = "delimiter"
	FieldEncoding      = "encoding"
	FieldLine          = "line"
	FieldBackup        = "backup_file"
	FieldFingerprint   = "fingerprint"
	FieldComponent     = "component"
)
