package config

import "time"

// File represents the structure of the .sitepulse configuration file.
type File struct {
	APIKey       string        `yaml:"apiKey,omitempty"`
	Endpoint     string        `yaml:"endpoint,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	ProxyAddress string        `yaml:"proxy,omitempty"`
	Concurrency  int           `yaml:"concurrency,omitempty"`

	Store  StoreFile  `yaml:"store,omitempty"`
	Server ServerFile `yaml:"server,omitempty"`
	Export ExportFile `yaml:"export,omitempty"`
}

// StoreFile is the store section of the configuration file.
type StoreFile struct {
	Driver      string `yaml:"driver,omitempty"`
	Dir         string `yaml:"dir,omitempty"`
	DatabaseURL string `yaml:"databaseURL,omitempty"`
}

// ServerFile is the server section of the configuration file.
type ServerFile struct {
	Listen         string   `yaml:"listen,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// ExportFile is the export section of the configuration file.
type ExportFile struct {
	S3 S3File `yaml:"s3,omitempty"`
}

// S3File configures the S3-compatible export sink.
type S3File struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
	UseSSL    *bool  `yaml:"useSSL,omitempty"`
}

// Apply copies every value set in the file onto c. Zero values leave the
// corresponding field untouched.
func (f *File) Apply(c *Config) {
	setString(&c.APIKey, f.APIKey)
	setString(&c.Endpoint, f.Endpoint)
	setString(&c.ProxyAddress, f.ProxyAddress)
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.Concurrency > 0 {
		c.Concurrency = f.Concurrency
	}

	setString(&c.StoreDriver, f.Store.Driver)
	setString(&c.DBDir, f.Store.Dir)
	setString(&c.DatabaseURL, f.Store.DatabaseURL)

	setString(&c.ListenAddr, f.Server.Listen)
	if len(f.Server.AllowedOrigins) > 0 {
		c.AllowedOrigins = append([]string(nil), f.Server.AllowedOrigins...)
	}

	s3 := f.Export.S3
	setString(&c.Export.Endpoint, s3.Endpoint)
	setString(&c.Export.Bucket, s3.Bucket)
	setString(&c.Export.Region, s3.Region)
	setString(&c.Export.AccessKey, s3.AccessKey)
	setString(&c.Export.SecretKey, s3.SecretKey)
	if s3.UseSSL != nil {
		c.Export.UseSSL = *s3.UseSSL
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
