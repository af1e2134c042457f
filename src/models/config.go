package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Analysis   MAnalysisConfig   `yaml:"analysis"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RetentionDays      int    `yaml:"retention_days"`
}

type MNetworkConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Proxies            []string `yaml:"proxies"`
	RequestTimeout     int      `yaml:"timeout"`
	MaxRetries         int      `yaml:"retries"`
	ConcurrentRequests int      `yaml:"concurrent_requests"`
	UserAgent          string   `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	Provider        string `yaml:"provider"`
	APIKey          string `yaml:"api_key"` // Optional
	LookbackDays    int    `yaml:"lookback_days"`
	CacheMaxSymbols int    `yaml:"cache_max_symbols"`
}

type MAnalysisConfig struct {
	Simulations        MBoundedInt `yaml:"simulations"`
	HorizonDays        MBoundedInt `yaml:"horizon_days"`
	FrontierCandidates int         `yaml:"frontier_candidates"`
	Workers            int         `yaml:"workers"`
	Seed               int64       `yaml:"seed"` // 0 means time-based
}

// MBoundedInt is a user-tunable parameter with allowed bounds.
type MBoundedInt struct {
	Min     int `yaml:"min" json:"min"`
	Max     int `yaml:"max" json:"max"`
	Default int `yaml:"default" json:"default"`
}
