// Package config holds the service configuration and its viper wiring.
package config

// Config is the full redlist configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	NER       NERConfig       `mapstructure:"ner"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Screening ScreeningConfig `mapstructure:"screening"`
	Events    EventsConfig    `mapstructure:"events"`
}

// APIConfig configures the HTTP API server.
type APIConfig struct {
	// Listen is the address the API server binds (e.g. ":8080").
	Listen string `mapstructure:"listen"`
}

// StorageConfig configures the durable record store.
type StorageConfig struct {
	// SQLitePath is the path to the watchlist database.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// EmbeddingConfig configures the embedding provider client.
type EmbeddingConfig struct {
	URL        string `mapstructure:"url"`
	ModelURI   string `mapstructure:"model_uri"`
	APIKey     string `mapstructure:"api_key"`
	Dimensions int    `mapstructure:"dimensions"`
}

// NERConfig configures the entity extraction client.
type NERConfig struct {
	URL string `mapstructure:"url"`
}

// FetchConfig configures the document text-fetch client.
type FetchConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ScreeningConfig configures resolution behavior.
type ScreeningConfig struct {
	// FullData emits low-confidence diagnostic entries for accepted names.
	FullData bool `mapstructure:"full_data"`
}

// EventsConfig configures the watchlist event stream. Empty Brokers
// disables publishing.
type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// NewDefaultConfig returns the default configuration. It is the single
// source of truth for defaults; viper and flags layer on top of it.
func NewDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Listen: ":8080",
		},
		Storage: StorageConfig{
			SQLitePath: "redlist.sqlite",
		},
		Embedding: EmbeddingConfig{
			Dimensions: 256,
		},
		Screening: ScreeningConfig{
			FullData: false,
		},
		Events: EventsConfig{
			Topic: "redlist.watchlist",
		},
	}
}
