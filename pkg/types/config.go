package types

// ProjectConfig is the root of finmart.yaml.
type ProjectConfig struct {
	Region    string          `yaml:"region,omitempty"`
	Source    SourceConfig    `yaml:"source"`
	Events    EventsConfig    `yaml:"events"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Stream    StreamConfig    `yaml:"stream"`
	Job       JobConfig       `yaml:"job"`
}

// SourceConfig locates the raw relational tables. Exactly one of DSN or
// SecretARN must be set; a secret holds the connection parts as JSON.
type SourceConfig struct {
	PostgresDSN string `yaml:"postgresDSN,omitempty"`
	SecretARN   string `yaml:"secretARN,omitempty"`
}

// EventsConfig locates the transaction event feed. S3URI points at a prefix
// of JSON Lines objects; the Mongo fields point at a DocumentDB-compatible
// collection. S3 wins when both are set.
type EventsConfig struct {
	S3URI           string `yaml:"s3URI,omitempty"`
	MongoURI        string `yaml:"mongoURI,omitempty"`
	MongoDatabase   string `yaml:"mongoDatabase,omitempty"`
	MongoCollection string `yaml:"mongoCollection,omitempty"`
}

// WarehouseConfig controls where the analytic datasets land and how orphaned
// transactions are treated during fact construction.
type WarehouseConfig struct {
	// Output is either an s3://bucket/prefix URI or a local directory.
	Output     string     `yaml:"output"`
	JoinPolicy JoinPolicy `yaml:"joinPolicy,omitempty"`
}

// StreamConfig configures the producer and the classifier's record store.
type StreamConfig struct {
	QueueURL  string `yaml:"queueURL,omitempty"`
	TableName string `yaml:"tableName,omitempty"`
	// RequireAmount makes a missing amount a per-record error instead of
	// defaulting to zero.
	RequireAmount bool `yaml:"requireAmount,omitempty"`
}

// JobConfig names the managed batch job that runs the transform when the
// engine is not local.
type JobConfig struct {
	Engine Engine `yaml:"engine,omitempty"`

	// Glue
	GlueJobName string            `yaml:"glueJobName,omitempty"`
	Arguments   map[string]string `yaml:"arguments,omitempty"`

	// EMR (step on an existing cluster)
	EMRClusterID string `yaml:"emrClusterID,omitempty"`
	EMRStepName  string `yaml:"emrStepName,omitempty"`
	EMRJarPath   string `yaml:"emrJarPath,omitempty"`

	// EMR Serverless
	ApplicationID string `yaml:"applicationID,omitempty"`
	JobName       string `yaml:"jobName,omitempty"`

	// LogGroup overrides the CloudWatch log group consulted by job-logs.
	LogGroup string `yaml:"logGroup,omitempty"`
}
