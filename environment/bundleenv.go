package environment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/modelops/contracts"
)

// DefaultEnvironment is the environment name used when none is given.
const DefaultEnvironment = "dev"

var registryProviders = map[string]bool{
	"docker": true, "acr": true, "ecr": true, "gcr": true, "ghcr": true,
}

var storageProviders = map[string]bool{
	"azure": true, "s3": true, "gcs": true, "azurite": true, "minio": true,
}

// RegistryConfig is the OCI registry half of a bundle environment.
type RegistryConfig struct {
	Provider     string `yaml:"provider"`
	LoginServer  string `yaml:"login_server"`
	Username     string `yaml:"username,omitempty"`
	Password     string `yaml:"password,omitempty"`
	RequiresAuth bool   `yaml:"requires_auth"`
}

// StorageConfig is the blob storage half of a bundle environment.
type StorageConfig struct {
	Provider         string `yaml:"provider"`
	Container        string `yaml:"container"`
	ConnectionString string `yaml:"connection_string,omitempty"`
	Endpoint         string `yaml:"endpoint,omitempty"`
	AccessKey        string `yaml:"access_key,omitempty"`
	SecretKey        string `yaml:"secret_key,omitempty"`
}

// BundleEnvironment is the complete configuration a named environment
// needs for bundle push and pull: registry plus storage.
type BundleEnvironment struct {
	Environment string         `yaml:"environment"`
	Registry    RegistryConfig `yaml:"registry"`
	Storage     StorageConfig  `yaml:"storage"`
	Timestamp   string         `yaml:"timestamp,omitempty"`
}

// Validate normalizes the environment name and checks both provider
// fields against the supported sets.
func (e *BundleEnvironment) Validate() error {
	const op = "environment.Validate"

	name := strings.ToLower(strings.TrimSpace(e.Environment))
	if name == "" {
		return contracts.NewValidationError(op, fmt.Errorf("environment name cannot be empty"))
	}
	e.Environment = name

	if !registryProviders[e.Registry.Provider] {
		return contracts.NewValidationError(op,
			fmt.Errorf("registry provider %q must be one of %s", e.Registry.Provider, providerList(registryProviders)))
	}
	if !storageProviders[e.Storage.Provider] {
		return contracts.NewValidationError(op,
			fmt.Errorf("storage provider %q must be one of %s", e.Storage.Provider, providerList(storageProviders)))
	}
	return nil
}

func providerList(providers map[string]bool) string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// DefaultDir returns the standard environments directory,
// ~/.modelops/bundle-env.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("environment: cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".modelops", "bundle-env"), nil
}

// Load reads the named environment from dir. An empty dir means the
// default directory and an empty name means DefaultEnvironment. When
// the environment does not exist, the error lists what is available.
func Load(dir, name string) (*BundleEnvironment, error) {
	var err error
	if dir == "" {
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if name == "" {
		name = DefaultEnvironment
	}

	path := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(path); err != nil {
		available := List(dir)
		if len(available) > 0 {
			return nil, fmt.Errorf("environment: %q not found at %s, available: %s",
				name, path, strings.Join(available, ", "))
		}
		return nil, fmt.Errorf("environment: no bundle environments found in %s", dir)
	}
	return FromYAMLFile(path)
}

// FromYAMLFile loads and validates a bundle environment from a file.
func FromYAMLFile(path string) (*BundleEnvironment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("environment: failed to read %s: %w", path, err)
	}
	return FromYAML(data)
}

// FromYAML parses and validates a bundle environment from YAML bytes.
func FromYAML(data []byte) (*BundleEnvironment, error) {
	var env BundleEnvironment
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("environment: failed to parse: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// Save validates and writes the environment under dir (default
// directory when empty), creating it as needed. Configurations may
// carry credentials, so the file is written with 0600 permissions.
// It returns the written path.
func (e *BundleEnvironment) Save(dir string) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	var err error
	if dir == "" {
		if dir, err = DefaultDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("environment: failed to create %s: %w", dir, err)
	}

	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := yaml.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("environment: failed to marshal: %w", err)
	}

	path := filepath.Join(dir, e.Environment+".yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("environment: failed to write %s: %w", path, err)
	}
	return path, nil
}

// List returns the names of the valid environments under dir, sorted.
// Files that fail to parse or validate are skipped.
func List(dir string) []string {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		if _, err := FromYAMLFile(filepath.Join(dir, entry.Name())); err != nil {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
