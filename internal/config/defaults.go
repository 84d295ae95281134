package config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CatalogPath:  "",
		TemplatesDir: "",
		WatchCatalog: true,
		Variables: map[string]string{
			"product": "The Inner Architect System",
			"price":   "$497",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
		LogLevel: "info",
	}
}
