package repository

import "github.com/okian/pitwall/pkg/logger"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithDriversFile overrides the drivers file name, relative to the data directory.
func WithDriversFile(name string) Option {
	return func(s *FileStore) {
		if name != "" {
			s.driversFile = name
		}
	}
}

// WithConstructorsFile overrides the constructors file name.
func WithConstructorsFile(name string) Option {
	return func(s *FileStore) {
		if name != "" {
			s.constructorsFile = name
		}
	}
}

// WithForecastFile overrides the forecast file name.
func WithForecastFile(name string) Option {
	return func(s *FileStore) {
		if name != "" {
			s.forecastFile = name
		}
	}
}

// WithLogger sets the logger used to report degraded forecast files.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}
