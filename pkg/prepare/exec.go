package prepare

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/osdkit/osdprep/pkg/conf"
	"github.com/osdkit/osdprep/pkg/runner"
)

const (
	// DefaultOSDBasePath is where per-OSD working directories live
	DefaultOSDBasePath = "/var/lib/ceph/osd"

	bootstrapName = "client.bootstrap-osd"
	monmapName    = "activate.monmap"
)

// ExecPrimitives implements Primitives with the host filesystem tools and
// the cluster admin CLI
type ExecPrimitives struct {
	runner           runner.Runner
	cluster          string
	basePath         string
	bootstrapKeyring string
}

// NewExecPrimitives creates the production primitives for the given cluster
func NewExecPrimitives(r runner.Runner, cfg *conf.ClusterConfig) *ExecPrimitives {
	keyring := cfg.BootstrapKeyring
	if keyring == "" {
		keyring = filepath.Join("/var/lib/ceph/bootstrap-osd", cfg.Cluster+".keyring")
	}
	return &ExecPrimitives{
		runner:           r,
		cluster:          cfg.Cluster,
		basePath:         DefaultOSDBasePath,
		bootstrapKeyring: keyring,
	}
}

// OSDPath returns the working directory for an OSD id
func (e *ExecPrimitives) OSDPath(osdID string) string {
	return filepath.Join(e.basePath, e.cluster+"-"+osdID)
}

// CreateOSDPath creates the per-OSD working directory, mounting tmpfs over
// it when requested
func (e *ExecPrimitives) CreateOSDPath(ctx context.Context, osdID string, tmpfs bool) error {
	path := e.OSDPath(osdID)
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create osd directory %s: %w", path, err)
	}
	if tmpfs {
		if _, err := e.runner.Run(ctx, "mount", "-t", "tmpfs", "tmpfs", path); err != nil {
			return err
		}
	}
	return nil
}

// FormatDevice formats the data device with xfs
func (e *ExecPrimitives) FormatDevice(ctx context.Context, device string) error {
	_, err := e.runner.Run(ctx, "mkfs", "-t", "xfs", "-f", "-i", "size=2048", device)
	return err
}

// MountOSD mounts the data device at the OSD working directory
func (e *ExecPrimitives) MountOSD(ctx context.Context, device, osdID string) error {
	_, err := e.runner.Run(ctx, "mount", "-t", "xfs", "-o", "rw,noatime,inode64", device, e.OSDPath(osdID))
	return err
}

// LinkJournal links the journal device into the working directory
func (e *ExecPrimitives) LinkJournal(ctx context.Context, device, osdID string) error {
	return e.link(device, osdID, "journal")
}

// LinkBlock links the block device into the working directory
func (e *ExecPrimitives) LinkBlock(ctx context.Context, device, osdID string) error {
	return e.link(device, osdID, "block")
}

// LinkWAL links the write-ahead-log device into the working directory
func (e *ExecPrimitives) LinkWAL(ctx context.Context, device, osdID string) error {
	return e.link(device, osdID, "block.wal")
}

// LinkDB links the metadata-db device into the working directory
func (e *ExecPrimitives) LinkDB(ctx context.Context, device, osdID string) error {
	return e.link(device, osdID, "block.db")
}

func (e *ExecPrimitives) link(device, osdID, name string) error {
	target := filepath.Join(e.OSDPath(osdID), name)
	if err := os.Symlink(device, target); err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", device, target, err)
	}
	return nil
}

// GetMonmap fetches the current monitor map into the working directory
func (e *ExecPrimitives) GetMonmap(ctx context.Context, osdID string) error {
	monmap := filepath.Join(e.OSDPath(osdID), monmapName)
	_, err := e.runner.Run(ctx, "ceph",
		"--cluster", e.cluster,
		"--name", bootstrapName,
		"--keyring", e.bootstrapKeyring,
		"mon", "getmap", "-o", monmap)
	return err
}

// MkfsFilestore initializes the filestore on-disk structures
func (e *ExecPrimitives) MkfsFilestore(ctx context.Context, osdID, osdFSID string) error {
	path := e.OSDPath(osdID)
	_, err := e.runner.Run(ctx, "ceph-osd",
		"--cluster", e.cluster,
		"--osd-objectstore", "filestore",
		"--mkfs", "-i", osdID,
		"--monmap", filepath.Join(path, monmapName),
		"--osd-data", path,
		"--osd-journal", filepath.Join(path, "journal"),
		"--osd-uuid", osdFSID,
		"--setuser", "ceph", "--setgroup", "ceph")
	return err
}

// MkfsBluestore initializes the bluestore on-disk structures. The secret is
// fed on stdin, never placed on the command line.
func (e *ExecPrimitives) MkfsBluestore(ctx context.Context, osdID, osdFSID, secret string) error {
	path := e.OSDPath(osdID)
	_, err := e.runner.RunInput(ctx, secret, "ceph-osd",
		"--cluster", e.cluster,
		"--osd-objectstore", "bluestore",
		"--mkfs", "-i", osdID,
		"--monmap", filepath.Join(path, monmapName),
		"--osd-data", path,
		"--osd-uuid", osdFSID,
		"--keyfile", "-",
		"--setuser", "ceph", "--setgroup", "ceph")
	return err
}

// HasKeyring reports whether a keyring file already exists for this id
func (e *ExecPrimitives) HasKeyring(osdID string) bool {
	_, err := os.Stat(filepath.Join(e.OSDPath(osdID), "keyring"))
	return err == nil
}

// WriteKeyring persists the auth credential for this id
func (e *ExecPrimitives) WriteKeyring(ctx context.Context, osdID, secret string) error {
	keyring := filepath.Join(e.OSDPath(osdID), "keyring")
	if _, err := e.runner.Run(ctx, "ceph-authtool", keyring,
		"--create-keyring", "--name", "osd."+osdID, "--add-key", secret); err != nil {
		return err
	}
	if err := os.Chmod(keyring, 0600); err != nil {
		return fmt.Errorf("failed to restrict keyring permissions: %w", err)
	}
	return nil
}

// ClusterRegistrar obtains new OSD ids from the cluster monitors via the
// admin CLI, submitting the secrets bundle on stdin
type ClusterRegistrar struct {
	runner           runner.Runner
	cluster          string
	bootstrapKeyring string
}

// NewClusterRegistrar creates the production registrar for the given
// cluster
func NewClusterRegistrar(r runner.Runner, cfg *conf.ClusterConfig) *ClusterRegistrar {
	keyring := cfg.BootstrapKeyring
	if keyring == "" {
		keyring = filepath.Join("/var/lib/ceph/bootstrap-osd", cfg.Cluster+".keyring")
	}
	return &ClusterRegistrar{
		runner:           r,
		cluster:          cfg.Cluster,
		bootstrapKeyring: keyring,
	}
}

// CreateID registers the fsid with the cluster and returns the assigned
// numeric id
func (c *ClusterRegistrar) CreateID(ctx context.Context, fsid, payload string) (string, error) {
	out, err := c.runner.RunInput(ctx, payload, "ceph",
		"--cluster", c.cluster,
		"--name", bootstrapName,
		"--keyring", c.bootstrapKeyring,
		"-i", "-",
		"osd", "new", fsid)
	if err != nil {
		return "", err
	}

	osdID := strings.TrimSpace(out)
	if osdID == "" {
		return "", fmt.Errorf("cluster returned no osd id for fsid %s", fsid)
	}
	return osdID, nil
}
