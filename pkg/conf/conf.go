package conf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is where the cluster configuration is read from when
	// no --config flag is given
	DefaultPath = "/etc/osdprep/config.yaml"

	// DefaultCluster is the cluster name used when the configuration
	// does not set one
	DefaultCluster = "ceph"
)

// ClusterConfig holds the cluster-wide settings osdprep needs. The fsid is
// read once at startup and passed explicitly through every call; nothing
// else reads ambient configuration state.
type ClusterConfig struct {
	// Cluster is the cluster name, used for naming the OSD data
	// directory and the admin CLI invocations
	Cluster string `yaml:"cluster"`

	// FSID is the UUID identifying the cluster
	FSID string `yaml:"fsid"`

	// BootstrapKeyring is the credential used to register new OSDs
	// and fetch the monitor map
	BootstrapKeyring string `yaml:"bootstrap_keyring"`
}

// Load reads and validates the cluster configuration file
func Load(path string) (*ClusterConfig, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster config %s: %w", path, err)
	}

	var cfg ClusterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse cluster config %s: %w", path, err)
	}

	if cfg.FSID == "" {
		return nil, fmt.Errorf("cluster config %s does not set an fsid", path)
	}
	if cfg.Cluster == "" {
		cfg.Cluster = DefaultCluster
	}

	return &cfg, nil
}
