package config

// Storage backend names accepted in config files.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Settings is the typed view of a scheduler/driver configuration.
type Settings struct {
	// Steps is the total number of time steps; revolver.FromSettings
	// rejects values below one.
	Steps int
	// Snaps is the snapshot budget; zero lets Adjust pick one.
	Snaps int
	// SnapsRAM is the RAM-tier slot count read from "snaps_ram".
	// revolver.FromSettings does not use it.
	SnapsRAM int
	// Heuristic is the "heuristic" flag for the arevolve online tail.
	// revolver.FromSettings, which builds offline schedules only, does
	// not use it.
	Heuristic bool
	// Verbosity is the scheduler diagnostic level read from
	// "verbosity". revolver.FromSettings does not use it.
	Verbosity int
	// Storage names the snapshot backend: "memory" or "sqlite".
	Storage string
	// StoragePath is the sqlite database path.
	StoragePath string
	// Compress wraps the backend with zstd compression.
	Compress bool
}

// Defaults returns the default settings: offline scheduling with an
// in-memory store.
func Defaults() Settings {
	return Settings{
		Storage:     StorageMemory,
		StoragePath: "snapshots.db",
	}
}

// SettingsFrom extracts typed settings from a Config, filling gaps
// with defaults.
func SettingsFrom(c Config) Settings {
	d := Defaults()
	return Settings{
		Steps:       c.Int("steps", d.Steps),
		Snaps:       c.Int("snaps", d.Snaps),
		SnapsRAM:    c.Int("snaps_ram", d.SnapsRAM),
		Heuristic:   c.Bool("heuristic", d.Heuristic),
		Verbosity:   c.Int("verbosity", d.Verbosity),
		Storage:     c.String("storage", d.Storage),
		StoragePath: c.String("storage_path", d.StoragePath),
		Compress:    c.Bool("compress", d.Compress),
	}
}
