//go:build !js

package multistorage

// hostBackend reports ok=false: outside js/wasm there is no host storage.
func hostBackend(Config) (Backend, bool, error) {
	return nil, false, nil
}

func openDriver(cfg Config) (Backend, error) {
	if cfg.Driver == DriverBolt {
		return OpenBolt(cfg.FilePath)
	}
	return OpenSQLite(cfg.FilePath)
}
