/*
Package prepare implements OSD preparation: assigning an identity to a new
storage daemon, arranging its devices into roles, persisting the role
assignment as LVM tags, and driving the on-disk initialization sequence.

# Flow

	CLI arguments
	      │
	      ▼
	AllocateIdentity ── id/fsid reuse on resume, fresh cephx secret always
	      │
	      ▼
	resolver ────────── one call per role (data/journal or block/wal/db):
	      │             existing lv, raw device with PARTUUID, or
	      │             auto-provisioned vg+lv for a bluestore data disk
	      ▼
	tagSet ──────────── structured record, flushed to the data/block
	      │             volume as flat ceph.* tags once all roles resolved
	      ▼
	Primitives ──────── mkdir, format, mount, link, monmap, mkfs, keyring

The tag set written to the data/block volume is the only durable catalog of
which device plays which role; activation later discovers the OSD by reading
those tags back.

# Failure model

Everything is synchronous and fatal-on-failure. The privilege gate and
argument validation run before any side effect; after that, a failed step
leaves directories, mounts and tags in place and the operator retries by
re-invoking prepare with the same --osd-id/--osd-fsid. There is no rollback.

Error classification: ConfigurationError (bad arguments), ResolutionError
(unusable device input), PrivilegeError (not root), PrimitiveError (an
underlying tool call failed). All propagate unchanged to the process
boundary.
*/
package prepare
