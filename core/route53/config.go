package route53

// Config holds the Route53 connection settings.
type Config struct {
	// Region is the API region. Route53 is global; us-east-1 is its home region.
	Region string `mapstructure:"region" default:"us-east-1"`
	// AccessKey is an optional static access key ID. When empty the default AWS
	// credential chain (environment, shared config, instance role) is used.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret matching AccessKey.
	SecretKey string `mapstructure:"secret_key" default:""`
	// Endpoint overrides the API endpoint, for testing against local emulators.
	Endpoint string `mapstructure:"endpoint" default:""`
}
