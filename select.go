package multistorage

import "fmt"

// selectBackend picks the backend for cfg: the host's own storage when one
// exists, else an in-memory map for session stores, else the durable driver.
func selectBackend(cfg Config) (Backend, error) {
	if b, ok, err := hostBackend(cfg); ok {
		return b, err
	}
	if cfg.Session {
		return NewMemory(), nil
	}
	return openDurable(cfg)
}

func openDurable(cfg Config) (Backend, error) {
	switch cfg.Driver {
	case DriverFile:
		return NewFile(cfg.FilePath)
	case DriverBolt, DriverSQLite:
		return openDriver(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
