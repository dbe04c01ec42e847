package metrics

// Config contains the configuration for gtos-lite's own metric collection.
// Unlike the upstream client this strips the InfluxDB reporter options:
// nothing in this module ships a metrics sink, only the in-process
// counters read back by GET /state (§4.17).
type Config struct {
	Enabled bool `toml:",omitempty"`
}

// DefaultConfig is the default metrics config: counting enabled, no
// external reporter.
var DefaultConfig = Config{Enabled: true}
