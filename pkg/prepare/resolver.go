package prepare

import (
	"context"

	"github.com/google/uuid"

	"github.com/osdkit/osdprep/pkg/disk"
	"github.com/osdkit/osdprep/pkg/log"
	"github.com/osdkit/osdprep/pkg/lvm"
	"github.com/osdkit/osdprep/pkg/types"
)

// resolver classifies device arguments and records their role metadata
type resolver struct {
	lvm  lvm.Service
	disk disk.Prober
}

// resolve handles one optional role argument. An empty argument means the
// role is absent and leaves the tag set untouched. A vg/lv reference must
// name an existing logical volume, which is tagged immediately; a raw
// device must expose a stable PARTUUID or it is rejected.
func (r *resolver) resolve(ctx context.Context, role types.DeviceRole, arg string, tags *tagSet) (string, string, error) {
	if arg == "" {
		return "", "", nil
	}

	res := r.lvm.Lookup(ctx, arg)
	switch res.State {
	case lvm.FoundVolume:
		vol := res.Volume
		tags.setRole(role, vol.Path, vol.UUID)
		if err := r.lvm.SetTags(ctx, vol, tags.flatten(role)); err != nil {
			return "", "", &PrimitiveError{Op: "tag " + string(role) + " volume", Err: err}
		}
		return vol.Path, vol.UUID, nil
	case lvm.NoSuchVolume:
		// a dangling vg/lv reference is never treated as a raw device
		return "", "", &ResolutionError{Device: arg, Reason: "no such logical volume"}
	}

	ptuuid := r.disk.PartUUID(ctx, arg)
	if ptuuid == "" {
		return "", "", &ResolutionError{Device: arg, Reason: "blkid could not detect a PARTUUID"}
	}
	tags.setRole(role, arg, ptuuid)
	return arg, ptuuid, nil
}

// resolveBlock resolves the mandatory bluestore data argument. When it
// names a usable raw partition or whole device, a volume group and a single
// block volume are provisioned on it.
func (r *resolver) resolveBlock(ctx context.Context, arg string, id *types.OSDIdentity) (*lvm.Volume, error) {
	res := r.lvm.Lookup(ctx, arg)
	switch res.State {
	case lvm.FoundVolume:
		return res.Volume, nil
	case lvm.NoSuchVolume:
		return nil, &ResolutionError{Device: arg, Reason: "no such logical volume"}
	}

	if !r.disk.IsPartition(ctx, arg) && !r.disk.IsDevice(ctx, arg) {
		return nil, &ResolutionError{Device: arg, Reason: "cannot use for bluestore, a vg/lv path or an existing device is needed"}
	}

	// The group name is derived from the cluster fsid so repeated
	// provisioning on one host converges on one group. Checking and
	// creating are separate tooling calls; two concurrent prepares can
	// still race on the deterministic name.
	vgName := "ceph-" + id.ClusterFSID
	if r.lvm.GetVG(ctx, vgName) != nil {
		// the deterministic group exists and may belong to another
		// OSD, never silently reuse it
		vgName = "ceph-" + uuid.New().String()
		logger := log.WithComponent("prepare")
		logger.Debug().Str("vg", vgName).Msg("deterministic group name taken, using fallback")
	}

	if _, err := r.lvm.CreateVG(ctx, vgName, arg); err != nil {
		return nil, &PrimitiveError{Op: "create volume group " + vgName, Err: err}
	}

	vol, err := r.lvm.CreateLV(ctx, "osd-block-"+id.FSID, vgName, map[string]string{
		tagNamespace + "type": string(types.RoleBlock),
	})
	if err != nil {
		return nil, &PrimitiveError{Op: "create block volume", Err: err}
	}
	return vol, nil
}
