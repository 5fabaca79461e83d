package config

const (
	defaultLibraryDir         = "~/library"
	defaultLogDir             = "~/.local/share/curator/logs"
	defaultAPIBind            = "127.0.0.1:7787"
	defaultMoviesDir          = "Movies"
	defaultTVDir              = "TV Shows"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBLanguage       = "en-US"
	defaultQueryDelayMS       = 200
	defaultProgressFlushFiles = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Library: Library{
			MoviesDir: defaultMoviesDir,
			TVDir:     defaultTVDir,
		},
		Scan: Scan{
			QueryDelayMS:       defaultQueryDelayMS,
			ProgressFlushFiles: defaultProgressFlushFiles,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
