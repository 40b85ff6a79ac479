package types

// Backend selects the on-disk object-store layout for an OSD
type Backend string

const (
	BackendFilestore Backend = "filestore"
	BackendBluestore Backend = "bluestore"
)

// DeviceRole identifies the function a device plays within an OSD
type DeviceRole string

const (
	RoleData    DeviceRole = "data"
	RoleJournal DeviceRole = "journal"
	RoleBlock   DeviceRole = "block"
	RoleWAL     DeviceRole = "wal"
	RoleDB      DeviceRole = "db"
)

// DeviceKind distinguishes resolved device references
type DeviceKind string

const (
	KindLogicalVolume DeviceKind = "lv"
	KindRawDevice     DeviceKind = "raw"
)

// OSDIdentity is the identity assigned to one OSD during preparation.
// Once the keyring is written and the identity fields are persisted as
// volume tags, the identity is externally-owned state and never mutated.
type OSDIdentity struct {
	ID          string // numeric id assigned by the cluster
	FSID        string // per-OSD UUID
	ClusterFSID string // UUID of the cluster this OSD joins
	CephxSecret string // freshly generated auth key, never reused
}

// ResumeToken carries the identity fields of a previous prepare attempt.
// Empty fields mean "allocate fresh". Passing the id/fsid of a failed
// attempt lets an operator re-run preparation without registering a
// duplicate OSD with the cluster.
type ResumeToken struct {
	OSDID   string
	OSDFSID string
}

// Empty reports whether the token carries no resumable state
func (t ResumeToken) Empty() bool {
	return t.OSDID == "" && t.OSDFSID == ""
}
