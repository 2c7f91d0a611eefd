package spec

type S3Spec struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type SinkSpec struct {
	Kind string `yaml:"kind"` // "local" (default) or "s3"
	S3   S3Spec `yaml:"s3"`
}

type KafkaSpec struct {
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic"`
	RequiredAcks int16    `yaml:"required_acks"`
	Version      string   `yaml:"version"`
}

type NotifySpec struct {
	Kind         string    `yaml:"kind"` // "", "none", "stdout" or "kafka"
	PrintCounter bool      `yaml:"print_counter"`
	Kafka        KafkaSpec `yaml:"kafka"`
}

type ProcessorSpec struct {
	Kind   string `yaml:"kind"`   // "svg"
	Config string `yaml:"config"` // options file, relative to the pipeline file
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	// BaseDir holds the sources, DestDir receives the assets. Relative
	// paths resolve against the pipeline file's directory.
	BaseDir string `yaml:"basedir"`
	DestDir string `yaml:"dest_dir"`

	Concurrency int `yaml:"concurrency"`

	Processor ProcessorSpec `yaml:"processor"`
	Sink      SinkSpec      `yaml:"sink"`
	Notify    NotifySpec    `yaml:"notify"`
}
