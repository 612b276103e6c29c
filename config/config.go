package config

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`
	RateLimitPerSecond            float64  `env:"RATE_LIMIT_PER_SECOND" env-default:"20"`
	RateLimitBurst                int      `env:"RATE_LIMIT_BURST" env-default:"40"`
	TracingEnabled                bool     `env:"TRACING_ENABLED" env-default:"false"`
	TracingEndpoint               string   `env:"TRACING_ENDPOINT" env-default:"localhost:4317"`
	TracingInsecure               bool     `env:"TRACING_INSECURE" env-default:"true"`

	// Deduplication engine
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" env-default:"0.85"`
	DefaultResolution   string  `env:"DEFAULT_RESOLUTION" env-default:"merge"`
	MergeWorkerCount    int     `env:"MERGE_WORKER_COUNT" env-default:"4"`

	// Gap analysis
	GapThresholdHours  float64 `env:"GAP_THRESHOLD_HOURS" env-default:"24"`
	ExpectedFrequency  string  `env:"EXPECTED_FREQUENCY" env-default:"medium"`
	AnalysisPeriodDays int     `env:"ANALYSIS_PERIOD_DAYS" env-default:"30"`

	// Kafka Consumer (parsed record batches from upstream parsers)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaInputTopic      string   `env:"KAFKA_INPUT_TOPIC" env-default:"parsed-records"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"fern-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka Producer (dedup results for the storage writer)
	KafkaOutputTopic  string `env:"KAFKA_OUTPUT_TOPIC" env-default:"dedup-results"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy"`
}
