package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultCasesPath is the default directory holding case sources
	DefaultCasesPath = "cases"
	// DefaultRecordsDir is the default directory for case records
	DefaultRecordsDir = "records"
	// DefaultIndexFile is the default run index file name
	DefaultIndexFile = "last-run.json"
	// DefaultWorkers is the default number of concurrent browser sessions
	DefaultWorkers = 2
	// DefaultConfigFile is the optional per-project config file name
	DefaultConfigFile = "btt.yaml"
)

// DefaultSkipDirs are the default directories to ignore when scanning for case sources
var DefaultSkipDirs = []string{
	"archive",
	"drafts",
	"node_modules",
	"records",
	"vendor",
}
