package lvm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/osdkit/osdprep/pkg/log"
	"github.com/osdkit/osdprep/pkg/runner"
)

// Volume is one logical volume as reported by the LVM tooling
type Volume struct {
	Name   string
	VGName string
	Path   string
	UUID   string
	Tags   map[string]string
}

// QualifiedName returns the vg/lv form of the volume name
func (v *Volume) QualifiedName() string {
	return v.VGName + "/" + v.Name
}

// VolumeGroup is one LVM volume group
type VolumeGroup struct {
	Name string
}

// LookupState classifies the outcome of resolving a device argument
// against LVM
type LookupState int

const (
	// FoundVolume means the argument named an existing logical volume
	FoundVolume LookupState = iota

	// NoSuchVolume means the argument used vg/lv syntax but no such
	// volume exists
	NoSuchVolume

	// NotVolumeSyntax means the argument is not a vg/lv reference at
	// all and should be treated as a raw device path
	NotVolumeSyntax
)

// LookupResult is the tagged outcome of a volume lookup. Callers branch on
// State instead of inspecting error types.
type LookupResult struct {
	State  LookupState
	Volume *Volume
}

// ParseName splits a two-part vg/lv reference. ok is false when the
// argument does not use that syntax.
func ParseName(arg string) (vg, lv string, ok bool) {
	parts := strings.Split(arg, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Service is the LVM control surface consumed by provisioning code
type Service interface {
	// Lookup resolves a device argument to an existing logical volume
	Lookup(ctx context.Context, arg string) LookupResult

	// GetVG returns the named volume group, or nil when it does not
	// exist
	GetVG(ctx context.Context, name string) *VolumeGroup

	// CreateVG creates a volume group backed by the given device
	CreateVG(ctx context.Context, name, device string) (*VolumeGroup, error)

	// CreateLV creates a logical volume consuming the whole group and
	// applies the given tags to it
	CreateLV(ctx context.Context, name, vgName string, tags map[string]string) (*Volume, error)

	// SetTags persists the given tags on the volume in one tooling
	// invocation
	SetTags(ctx context.Context, vol *Volume, tags map[string]string) error
}

// reportFields is the lvs column set the CLI parses
const reportFields = "lv_name,vg_name,lv_path,lv_uuid,lv_tags"

// CLI implements Service by shelling out to the LVM userspace tools
type CLI struct {
	runner runner.Runner
}

// NewCLI creates an LVM service backed by the lvs/vgs/lvcreate/vgcreate/
// lvchange tools
func NewCLI(r runner.Runner) *CLI {
	return &CLI{runner: r}
}

// Lookup resolves a device argument to an existing logical volume
func (c *CLI) Lookup(ctx context.Context, arg string) LookupResult {
	vgName, lvName, ok := ParseName(arg)
	if !ok {
		return LookupResult{State: NotVolumeSyntax}
	}

	out, err := c.runner.Run(ctx, "lvs", "--noheadings", "--separator", ";",
		"-o", reportFields, vgName+"/"+lvName)
	if err != nil {
		// lvs exits non-zero when the volume does not exist
		logger := log.WithComponent("lvm")
		logger.Debug().Str("volume", arg).Err(err).Msg("lvs lookup failed")
		return LookupResult{State: NoSuchVolume}
	}

	vol := parseReportLine(out)
	if vol == nil {
		return LookupResult{State: NoSuchVolume}
	}
	return LookupResult{State: FoundVolume, Volume: vol}
}

// GetVG returns the named volume group, or nil when it does not exist
func (c *CLI) GetVG(ctx context.Context, name string) *VolumeGroup {
	out, err := c.runner.Run(ctx, "vgs", "--noheadings", "-o", "vg_name", name)
	if err != nil || strings.TrimSpace(out) == "" {
		return nil
	}
	return &VolumeGroup{Name: strings.TrimSpace(out)}
}

// CreateVG creates a volume group backed by the given device
func (c *CLI) CreateVG(ctx context.Context, name, device string) (*VolumeGroup, error) {
	if _, err := c.runner.Run(ctx, "vgcreate", "--force", "--yes", name, device); err != nil {
		return nil, fmt.Errorf("failed to create volume group %s on %s: %w", name, device, err)
	}

	logger := log.WithComponent("lvm")
	logger.Info().Str("vg", name).Str("device", device).Msg("volume group created")
	return &VolumeGroup{Name: name}, nil
}

// CreateLV creates a logical volume consuming the whole group and applies
// the given tags
func (c *CLI) CreateLV(ctx context.Context, name, vgName string, tags map[string]string) (*Volume, error) {
	if _, err := c.runner.Run(ctx, "lvcreate", "--yes", "-l", "100%FREE", "-n", name, vgName); err != nil {
		return nil, fmt.Errorf("failed to create logical volume %s/%s: %w", vgName, name, err)
	}

	res := c.Lookup(ctx, vgName+"/"+name)
	if res.State != FoundVolume {
		return nil, fmt.Errorf("logical volume %s/%s not found after creation", vgName, name)
	}

	if err := c.SetTags(ctx, res.Volume, tags); err != nil {
		return nil, err
	}

	logger := log.WithComponent("lvm")
	logger.Info().Str("lv", vgName+"/"+name).Msg("logical volume created")
	return res.Volume, nil
}

// SetTags persists the given tags on the volume. All pairs go into a single
// lvchange invocation; overwriting an already-present tag value is handled
// by the tooling and is idempotent.
func (c *CLI) SetTags(ctx context.Context, vol *Volume, tags map[string]string) error {
	if len(tags) == 0 {
		return nil
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, 2*len(tags)+1)
	for _, k := range keys {
		args = append(args, "--addtag", k+"="+tags[k])
	}
	args = append(args, vol.Path)

	if _, err := c.runner.Run(ctx, "lvchange", args...); err != nil {
		return fmt.Errorf("failed to set tags on %s: %w", vol.Path, err)
	}

	if vol.Tags == nil {
		vol.Tags = make(map[string]string, len(tags))
	}
	for k, v := range tags {
		vol.Tags[k] = v
	}
	return nil
}

// parseReportLine parses one semicolon-separated lvs report line
func parseReportLine(line string) *Volume {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	fields := strings.Split(line, ";")
	if len(fields) < 4 {
		return nil
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	vol := &Volume{
		Name:   fields[0],
		VGName: fields[1],
		Path:   fields[2],
		UUID:   fields[3],
		Tags:   map[string]string{},
	}
	if len(fields) > 4 {
		vol.Tags = parseTags(fields[4])
	}
	return vol
}

// parseTags parses the comma-separated k=v list lvs reports for lv_tags
func parseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		tags[kv[0]] = kv[1]
	}
	return tags
}
