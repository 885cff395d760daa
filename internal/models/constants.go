package models

// Currency marker used by every supported operator.
const CurrencyTsh = "Tsh"

// DatetimeLayout is the fixed message timestamp format, DD/MM/YYYY HH:MM.
const DatetimeLayout = "02/01/2006 15:04"

// PermissionDirectory is used for directories created for output files.
const PermissionDirectory = 0750
