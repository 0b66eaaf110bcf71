package config

const (
	defaultSourceDir     = "~/slotter/images"
	defaultOutputDir     = "~/slotter/dist"
	defaultLogDir        = "~/.local/share/slotter/logs"
	defaultCacheDir      = "~/.cache/slotter"
	defaultMinHexWidth   = 1
	defaultEncodeFormat  = "jpeg"
	defaultEncodeQuality = 85
	defaultCopyExtension = ".jpg"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			CacheDir:  defaultCacheDir,
		},
		Keyspace: Keyspace{
			MinHexWidth: defaultMinHexWidth,
		},
		Encode: Encode{
			Reencode:  true,
			Format:    defaultEncodeFormat,
			Quality:   defaultEncodeQuality,
			Extension: defaultCopyExtension,
		},
		Publish: Publish{
			Mode: ModeDirect,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
