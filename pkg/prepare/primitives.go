package prepare

import "context"

// Primitives is the set of system-level initialization steps the prepare
// sequence drives. Every call blocks until the underlying operation
// completes. A failure aborts the whole preparation where it happened; no
// step compensates for earlier ones, and recovery is a re-invocation with
// the same id/fsid.
type Primitives interface {
	// CreateOSDPath creates the per-OSD working directory, tmpfs-backed
	// when requested
	CreateOSDPath(ctx context.Context, osdID string, tmpfs bool) error

	// FormatDevice writes the OSD filesystem onto the data device
	FormatDevice(ctx context.Context, device string) error

	// MountOSD mounts the data device at the OSD working directory
	MountOSD(ctx context.Context, device, osdID string) error

	// LinkJournal links the journal device into the working directory
	LinkJournal(ctx context.Context, device, osdID string) error

	// LinkBlock links the block device into the working directory
	LinkBlock(ctx context.Context, device, osdID string) error

	// LinkWAL links the write-ahead-log device into the working directory
	LinkWAL(ctx context.Context, device, osdID string) error

	// LinkDB links the metadata-db device into the working directory
	LinkDB(ctx context.Context, device, osdID string) error

	// GetMonmap fetches the current monitor map into the working
	// directory
	GetMonmap(ctx context.Context, osdID string) error

	// MkfsFilestore initializes the filestore on-disk structures
	MkfsFilestore(ctx context.Context, osdID, osdFSID string) error

	// MkfsBluestore initializes the bluestore on-disk structures
	MkfsBluestore(ctx context.Context, osdID, osdFSID, secret string) error

	// HasKeyring reports whether a keyring already exists for this id
	HasKeyring(osdID string) bool

	// WriteKeyring persists the auth credential for this id
	WriteKeyring(ctx context.Context, osdID, secret string) error
}
