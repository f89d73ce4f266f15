package config

import "os"

const EnvMetricsLabelMapPath = "FITSCORE_METRICS_LABEL_MAP_PATH"

// MetricsConfig holds metric domain parameters.
type MetricsConfig struct {
	// LabelMapPath points at a YAML label map overriding the embedded
	// default. Empty means the embedded map.
	LabelMapPath string `toml:"label_map_path"`
}

// Finalize applies environment variable overrides. The empty default is
// valid: it selects the embedded label map.
func (c *MetricsConfig) Finalize() error {
	c.loadEnv()
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *MetricsConfig) Merge(overlay *MetricsConfig) {
	if overlay.LabelMapPath != "" {
		c.LabelMapPath = overlay.LabelMapPath
	}
}

func (c *MetricsConfig) loadEnv() {
	if v := os.Getenv(EnvMetricsLabelMapPath); v != "" {
		c.LabelMapPath = v
	}
}
