package marketdata

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
	TokenEnv     string `json:"tokenEnv"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderTradier: {
		Name:         string(ProviderTradier),
		DisplayName:  "Tradier",
		Description:  "US equity and option daily history through the Tradier markets API",
		RequiresAuth: true,
		TokenEnv:     EnvTradierApiToken,
	},
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock and option aggregates with historical OHLCV data",
		RequiresAuth: true,
		TokenEnv:     EnvPolygonApiKey,
	},
}

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, fmt.Errorf("unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema of DownloadConfig.
func GetDownloadConfigSchema() (string, error) {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return toJSONSchema(DownloadConfig{})
}

// GetDownloadKeychainFields returns the JSON names of DownloadConfig fields that hold secrets.
func GetDownloadKeychainFields() []string {
	var fields []string

	t := reflect.TypeOf(DownloadConfig{})
	for i := range t.NumField() {
		field := t.Field(i)
		if field.Tag.Get("keychain") != "true" {
			continue
		}

		fields = append(fields, field.Tag.Get("yaml"))
	}

	return fields
}

func toJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
