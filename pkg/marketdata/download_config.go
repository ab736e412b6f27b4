package marketdata

import (
	"fmt"
	"os"
	"reflect"
	"slices"

	"github.com/erikbryant/aes"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-optchain/pkg/errors"
)

// Environment variables that override values from the config file.
const (
	EnvApiToken        = "OPTCHAIN_API_TOKEN"
	EnvTradierApiToken = "TRADIER_API_TOKEN"
	EnvPolygonApiKey   = "POLYGON_API_KEY"
	EnvDumpPath        = "OPTCHAIN_DUMP_PATH"
)

// DownloadConfig is the file form of a download request.
type DownloadConfig struct {
	ApiToken          string  `yaml:"apiToken" json:"apiToken,omitempty" jsonschema:"title=API Token,description=Bearer token (Tradier) or API key (Polygon)" keychain:"true"`
	EncryptedApiToken string  `yaml:"encryptedApiToken" json:"encryptedApiToken,omitempty" jsonschema:"title=Encrypted API Token,description=API token encrypted with a passphrase"`
	Symbol            string  `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Underlying ticker (e.g. SPY),required" validate:"required"`
	Year              int     `yaml:"year" json:"year" jsonschema:"title=Year,description=Calendar year to download,required,minimum=1970" validate:"required,min=1970,max=9999"`
	StrikeMargin      float64 `yaml:"strikeMargin" json:"strikeMargin" jsonschema:"title=Strike Margin,description=Fraction the monthly range is widened by on each side,default=0.1,minimum=0,exclusiveMaximum=1" validate:"gte=0,lt=1"`
	DumpPath          string  `yaml:"dumpPath" json:"dumpPath" jsonschema:"title=Dump Path,description=Cache root directory,default=Opt_Chain" validate:"required"`
	Provider          string  `yaml:"provider" json:"provider" jsonschema:"title=Provider,description=Market data provider,default=tradier,enum=tradier,enum=polygon" validate:"required,oneof=tradier polygon"`
	Format            string  `yaml:"format" json:"format" jsonschema:"title=Format,description=Cache file format,default=csv,enum=csv,enum=parquet" validate:"required,oneof=csv parquet"`
	BaseURL           string  `yaml:"baseUrl" json:"baseUrl,omitempty" jsonschema:"title=Base URL,description=Override for the provider API root" validate:"omitempty,url"`
}

// DefaultDownloadConfig returns a config with every optional field at its default.
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		StrikeMargin: DefaultStrikeMargin,
		DumpPath:     DefaultDumpPath,
		Provider:     string(ProviderTradier),
		Format:       string(FormatCSV),
	}
}

// LoadDownloadConfig reads a YAML config from path on top of the defaults and applies
// environment overrides. An empty path only applies defaults and the environment.
func LoadDownloadConfig(path string) (*DownloadConfig, error) {
	config := DefaultDownloadConfig()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := yaml.Unmarshal(content, &config); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}
	}

	config.applyEnv()

	return &config, nil
}

func (c *DownloadConfig) applyEnv() {
	if token := os.Getenv(EnvApiToken); token != "" {
		c.ApiToken = token
	} else if token := os.Getenv(providerTokenEnv(c.Provider)); token != "" && c.ApiToken == "" {
		c.ApiToken = token
	}

	if dumpPath := os.Getenv(EnvDumpPath); dumpPath != "" {
		c.DumpPath = dumpPath
	}
}

func providerTokenEnv(providerName string) string {
	info, err := GetProviderInfo(providerName)
	if err != nil || info.TokenEnv == "" {
		return EnvTradierApiToken
	}

	return info.TokenEnv
}

// ResolveToken decrypts EncryptedApiToken with passphrase when no plain token is set.
func (c *DownloadConfig) ResolveToken(passphrase string) error {
	if c.ApiToken != "" || c.EncryptedApiToken == "" {
		return nil
	}

	if passphrase == "" {
		return errors.New(errors.ErrCodeMissingParameter, "a passphrase is required to decrypt encryptedApiToken")
	}

	token, err := aes.Decrypt(c.EncryptedApiToken, passphrase)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to decrypt encryptedApiToken", err)
	}

	c.ApiToken = token

	return nil
}

// Validate validates the DownloadConfig.
func (c *DownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if c.ApiToken == "" {
		return errors.New(errors.ErrCodeMissingParameter, "an API token is required")
	}

	return nil
}

// ToClientConfig converts a DownloadConfig to ClientConfig.
func (c *DownloadConfig) ToClientConfig() ClientConfig {
	return ClientConfig{
		ProviderType: ProviderType(c.Provider),
		Format:       Format(c.Format),
		DumpPath:     c.DumpPath,
		ApiToken:     c.ApiToken,
		BaseURL:      c.BaseURL,
	}
}

// ToDownloadParams converts a DownloadConfig to DownloadParams.
func (c *DownloadConfig) ToDownloadParams() DownloadParams {
	return DownloadParams{
		Symbol:       c.Symbol,
		Year:         c.Year,
		StrikeMargin: c.StrikeMargin,
	}
}

// String implements fmt.Stringer. Keychain fields are only reported as set.
func (c DownloadConfig) String() string {
	out := fmt.Sprintf("%s %d (margin %v, provider %s, format %s, dump %s)",
		c.Symbol, c.Year, c.StrikeMargin, c.Provider, c.Format, c.DumpPath)

	secrets := GetDownloadKeychainFields()
	v := reflect.ValueOf(c)
	for i := range v.NumField() {
		name := v.Type().Field(i).Tag.Get("yaml")
		if !slices.Contains(secrets, name) || v.Field(i).IsZero() {
			continue
		}

		out += fmt.Sprintf(" %s=***", name)
	}

	return out
}
