package prepare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osdkit/osdprep/pkg/types"
)

func TestTagSetFlatten(t *testing.T) {
	tags := newTagSet(testIdentity())
	tags.setRole(types.RoleData, "/dev/vgdata/lvdata", "lv-uuid-1")
	tags.setRole(types.RoleJournal, "/dev/sdb1", "part-uuid-1")

	assert.Equal(t, map[string]string{
		"ceph.osd_id":         "1",
		"ceph.osd_fsid":       "osd-fsid-1",
		"ceph.cluster_fsid":   "C1",
		"ceph.type":           "data",
		"ceph.data_device":    "/dev/vgdata/lvdata",
		"ceph.data_uuid":      "lv-uuid-1",
		"ceph.journal_device": "/dev/sdb1",
		"ceph.journal_uuid":   "part-uuid-1",
	}, tags.flatten(types.RoleData))
}

func TestTagSetFlatten_TypePerVolume(t *testing.T) {
	tags := newTagSet(testIdentity())
	tags.setRole(types.RoleData, "/dev/vgdata/lvdata", "lv-uuid-1")
	tags.setRole(types.RoleJournal, "/dev/sdb1", "part-uuid-1")

	// the same accumulated set serializes with a per-volume type key
	assert.Equal(t, "journal", tags.flatten(types.RoleJournal)["ceph.type"])
	assert.Equal(t, "data", tags.flatten(types.RoleData)["ceph.type"])
}

func TestTagSetFlatten_RoleOverwrite(t *testing.T) {
	tags := newTagSet(testIdentity())
	tags.setRole(types.RoleBlock, "/dev/a", "u1")
	tags.setRole(types.RoleBlock, "/dev/b", "u2")

	flat := tags.flatten(types.RoleBlock)
	assert.Equal(t, "/dev/b", flat["ceph.block_device"])
	assert.Equal(t, "u2", flat["ceph.block_uuid"])
}
