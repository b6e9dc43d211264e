package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	DatasetsDir       string
	RulesFile         string
	ExportDir         string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	MinSupport        float64
	Once              bool

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
