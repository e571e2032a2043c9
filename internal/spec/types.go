package spec

// Config is the top-level settings document for a comparison run.
type Config struct {
	Version    int              `yaml:"version" toml:"version"`
	Results    ResultsConfig    `yaml:"results" toml:"results"`
	Models     []ModelConfig    `yaml:"models" toml:"models"`
	Format     FormatConfig     `yaml:"format" toml:"format"`
	Classifier ClassifierConfig `yaml:"classifier" toml:"classifier"`
	Patterns   []PatternConfig  `yaml:"patterns" toml:"patterns"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
	S3         S3Config         `yaml:"s3" toml:"s3"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
}

// ResultsConfig locates the per-model run artifacts.
type ResultsConfig struct {
	Root              string `yaml:"root" toml:"root"`
	Benchmark         string `yaml:"benchmark" toml:"benchmark"`
	ExpectedQuestions int    `yaml:"expected_questions" toml:"expected_questions"`
}

// ModelConfig declares one roster entry. Size orders models by capacity.
type ModelConfig struct {
	ID        string  `yaml:"id" toml:"id"`
	Size      float64 `yaml:"size" toml:"size"`
	Reference bool    `yaml:"reference" toml:"reference"`
}

// FormatConfig describes how a report document is laid out.
type FormatConfig struct {
	SectionDelimiter string   `yaml:"section_delimiter" toml:"section_delimiter"`
	SectionMarker    string   `yaml:"section_marker" toml:"section_marker"`
	ExtractedMarker  string   `yaml:"extracted_marker" toml:"extracted_marker"`
	ScoreMarker      string   `yaml:"score_marker" toml:"score_marker"`
	BlockPattern     string   `yaml:"block_pattern" toml:"block_pattern"`
	Labels           []string `yaml:"labels" toml:"labels"`
	NoAnswer         string   `yaml:"no_answer" toml:"no_answer"`
}

// ClassifierConfig tunes the failure heuristics.
type ClassifierConfig struct {
	TailWindow       int `yaml:"tail_window" toml:"tail_window"`
	TailWords        int `yaml:"tail_words" toml:"tail_words"`
	MinWindowWords   int `yaml:"min_window_words" toml:"min_window_words"`
	RepeatThreshold  int `yaml:"repeat_threshold" toml:"repeat_threshold"`
	MinLoopLength    int `yaml:"min_loop_length" toml:"min_loop_length"`
	TruncationLength int `yaml:"truncation_length" toml:"truncation_length"`
}

// PatternConfig is a named predicate over the per-question correctness vector.
type PatternConfig struct {
	Name       string   `yaml:"name" toml:"name"`
	Kind       string   `yaml:"kind" toml:"kind"`
	Correct    []string `yaml:"correct" toml:"correct"`
	Wrong      []string `yaml:"wrong" toml:"wrong"`
	Surprising bool     `yaml:"surprising" toml:"surprising"`
}

// OutputConfig lists export destinations. Empty paths disable a sink.
type OutputConfig struct {
	JSON     string `yaml:"json" toml:"json"`
	Failures string `yaml:"failures" toml:"failures"`
	HTML     string `yaml:"html" toml:"html"`
	XLSX     string `yaml:"xlsx" toml:"xlsx"`
	DuckDB   string `yaml:"duckdb" toml:"duckdb"`
}

// S3Config configures the object-store artifact source.
type S3Config struct {
	Region    string `yaml:"region" toml:"region"`
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	PathStyle bool   `yaml:"path_style" toml:"path_style"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}
