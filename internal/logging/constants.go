package logging

// Standard field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldSource     = "source"
	FieldLine       = "line"
	FieldField      = "field"
	FieldValue      = "value"
	FieldOperator   = "operator"
	FieldReason     = "reason"
	FieldCount      = "count"
	FieldWarnings   = "warnings"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldFormat     = "format"
)
