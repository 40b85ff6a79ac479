package prepare

import "github.com/osdkit/osdprep/pkg/types"

// tagNamespace prefixes every persisted tag key
const tagNamespace = "ceph."

// deviceRef records the resolved path and stable uuid for one role
type deviceRef struct {
	path string
	uuid string
}

// tagSet accumulates the identity and role metadata for one prepare
// invocation. It stays a structured record in memory and is serialized to
// flat ceph.* key/value pairs only at the LVM boundary. The tags written to
// the data/block volume are the sole durable catalog of role assignment;
// there is no separate index.
type tagSet struct {
	osdID       string
	osdFSID     string
	clusterFSID string
	refs        map[types.DeviceRole]deviceRef
}

func newTagSet(id *types.OSDIdentity) *tagSet {
	return &tagSet{
		osdID:       id.ID,
		osdFSID:     id.FSID,
		clusterFSID: id.ClusterFSID,
		refs:        make(map[types.DeviceRole]deviceRef),
	}
}

// setRole records the resolved device for a role
func (t *tagSet) setRole(role types.DeviceRole, path, uuid string) {
	t.refs[role] = deviceRef{path: path, uuid: uuid}
}

// flatten serializes the set for persisting on one volume. The ceph.type
// key carries the role that volume itself plays, so every tagged volume is
// self-describing regardless of which volume is read first at activation.
func (t *tagSet) flatten(typ types.DeviceRole) map[string]string {
	out := map[string]string{
		tagNamespace + "osd_id":       t.osdID,
		tagNamespace + "osd_fsid":     t.osdFSID,
		tagNamespace + "cluster_fsid": t.clusterFSID,
		tagNamespace + "type":         string(typ),
	}
	for role, ref := range t.refs {
		out[tagNamespace+string(role)+"_device"] = ref.path
		out[tagNamespace+string(role)+"_uuid"] = ref.uuid
	}
	return out
}
