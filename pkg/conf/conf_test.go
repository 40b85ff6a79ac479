package conf

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "cluster: ceph\nfsid: 22bc1b6a-87b9-4e22-9ce1-8f2d1b5d3a0f\nbootstrap_keyring: /var/lib/ceph/bootstrap-osd/ceph.keyring\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.FSID != "22bc1b6a-87b9-4e22-9ce1-8f2d1b5d3a0f" {
		t.Errorf("FSID = %v, want 22bc1b6a-87b9-4e22-9ce1-8f2d1b5d3a0f", cfg.FSID)
	}
	if cfg.Cluster != "ceph" {
		t.Errorf("Cluster = %v, want ceph", cfg.Cluster)
	}
	if cfg.BootstrapKeyring != "/var/lib/ceph/bootstrap-osd/ceph.keyring" {
		t.Errorf("BootstrapKeyring = %v", cfg.BootstrapKeyring)
	}
}

func TestLoad_DefaultClusterName(t *testing.T) {
	path := writeConfig(t, "fsid: 22bc1b6a-87b9-4e22-9ce1-8f2d1b5d3a0f\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cluster != DefaultCluster {
		t.Errorf("Cluster = %v, want %v", cfg.Cluster, DefaultCluster)
	}
}

func TestLoad_MissingFSID(t *testing.T) {
	path := writeConfig(t, "cluster: ceph\n")

	if _, err := Load(path); err == nil {
		t.Error("Load() without fsid should return error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() on missing file should return error")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "fsid: [unclosed\n")

	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed yaml should return error")
	}
}
