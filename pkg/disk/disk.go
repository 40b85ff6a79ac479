package disk

import (
	"context"
	"strings"

	"github.com/osdkit/osdprep/pkg/log"
	"github.com/osdkit/osdprep/pkg/runner"
)

// Prober answers questions about raw block devices
type Prober interface {
	// PartUUID returns the stable partition UUID for a device, or ""
	// when none is discoverable
	PartUUID(ctx context.Context, device string) string

	// IsPartition reports whether the device is a partition
	IsPartition(ctx context.Context, device string) bool

	// IsDevice reports whether the device is a whole disk
	IsDevice(ctx context.Context, device string) bool
}

// CLI implements Prober by shelling out to blkid and lsblk
type CLI struct {
	runner runner.Runner
}

// NewCLI creates a prober backed by the host block-device tools
func NewCLI(r runner.Runner) *CLI {
	return &CLI{runner: r}
}

// PartUUID queries blkid for the device PARTUUID. blkid exits non-zero when
// the device carries no identifier; that is reported as "" and left to the
// caller to reject.
func (c *CLI) PartUUID(ctx context.Context, device string) string {
	out, err := c.runner.Run(ctx, "blkid", "-s", "PARTUUID", "-o", "value", device)
	if err != nil {
		logger := log.WithComponent("disk")
		logger.Debug().Str("device", device).Err(err).Msg("blkid probe failed")
		return ""
	}
	return strings.TrimSpace(out)
}

// IsPartition reports whether lsblk classifies the device as a partition
func (c *CLI) IsPartition(ctx context.Context, device string) bool {
	return c.kind(ctx, device) == "part"
}

// IsDevice reports whether lsblk classifies the device as a whole disk
func (c *CLI) IsDevice(ctx context.Context, device string) bool {
	return c.kind(ctx, device) == "disk"
}

func (c *CLI) kind(ctx context.Context, device string) string {
	out, err := c.runner.Run(ctx, "lsblk", "--nodeps", "--noheadings", "-o", "TYPE", device)
	if err != nil {
		logger := log.WithComponent("disk")
		logger.Debug().Str("device", device).Err(err).Msg("lsblk probe failed")
		return ""
	}
	return strings.TrimSpace(out)
}
