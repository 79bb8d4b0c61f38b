package constants

// Transfer

const (
	ProgressEveryDefault            = 10
	StatsCaptureFrequencySeconds    = 5
	StatsDumpFrequencySecondsDflt   = 5
	EventChanSize                   = 0    // unbuffered: the engine blocks until the consumer pulls each event.
	EventDeliveryGraceMillis        = 1000 // wait for a consumer after the run's context is done.
	RunRetentionMinutes             = 60   // finished runs are dropped from the registry after this.
	TimeFormatYearSeconds           = "20060102T150405"
	TimeFormatYearSecondsTZ         = "20060102T150405-0700"
	DefaultDbUser                   = "SYSDBA"
	DefaultDbPassword               = "masterkey"
	DefaultExcludeColumns           = "EVENTSID" // identity column generated by the destination.
	DefaultFirebirdPort             = 3050
	DefaultCharset                  = "WIN1251"
	DefaultTableName                = "EVENTS"
	DefaultSourceCondition          = "EVENTSDATE >= '01.01.2026'"
	DefaultCheckColumns             = "READERID, EVENTSCODE, EVENTSDATE, CARDNUM"
	EnvVarPrefix                    = "MGDB" // prefixed for environment variables in env mode.
	EnvVarEnvMode                   = EnvVarPrefix + "_ENV_MODE"
	EnvVarDbUser                    = EnvVarPrefix + "_DB_USER"
	EnvVarDbPassword                = EnvVarPrefix + "_DB_PASSWORD"
	EnvVarExcludeColumns            = EnvVarPrefix + "_EXCLUDE_COLUMNS"
	SettingsKeyLastTransfer         = "lastTransfer"
	ContentTypeNdJson               = "application/x-ndjson"
	HeaderTransferId                = "X-Transfer-Id"
	ConnectionTypeFirebird          = "firebird"
	ConnectionTypeSqlite            = "sqlite"
	ConnectionTypeSqlServer         = "sqlserver"
	ConnectionTypePostgres          = "postgres"
	ConnectionTypeNetezza           = "netezza"
	ConnectionTypeSnowflake         = "snowflake"
	ConnectionTypeDefault           = ConnectionTypeFirebird
	MessageConnectingToSource       = "Connecting to source database..."
	MessageNoRecordsFound           = "No records found in source database matching criteria."
	MessageCheckColumnsRequired     = "At least one unique column must be specified."
	MessageFoundRecordsTemplate     = "Found %v records. Starting transfer..."
	MessageTransferCompleteTemplate = "Transfer Complete. Inserted: %v, Skipped: %v"
)

// Charsets offered for Firebird connections.
var SupportedCharsets = []string{"WIN1251", "UTF8", "NONE"}
