package prepare

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/osdkit/osdprep/pkg/disk"
	"github.com/osdkit/osdprep/pkg/log"
	"github.com/osdkit/osdprep/pkg/lvm"
	"github.com/osdkit/osdprep/pkg/types"
)

// Options describe one prepare invocation
type Options struct {
	// Backend selects the on-disk layout, filestore or bluestore
	Backend types.Backend

	// Data is the primary device argument: a vg/lv reference, or for
	// bluestore also a raw partition or whole device
	Data string

	// Journal is the filestore journal device (mandatory for filestore)
	Journal string

	// BlockWAL and BlockDB are the optional bluestore auxiliary devices
	BlockWAL string
	BlockDB  string

	// Resume carries the id/fsid of an earlier failed attempt
	Resume types.ResumeToken

	// ClusterFSID is the UUID of the cluster this OSD joins, passed
	// explicitly from the loaded configuration
	ClusterFSID string
}

// Prepare drives the full preparation sequence for one OSD
type Prepare struct {
	lvm    lvm.Service
	disk   disk.Prober
	prim   Primitives
	reg    Registrar
	euid   func() int
	logger zerolog.Logger
}

// New creates a Prepare wired to the given collaborators
func New(lvmSvc lvm.Service, prober disk.Prober, prim Primitives, reg Registrar) *Prepare {
	return &Prepare{
		lvm:    lvmSvc,
		disk:   prober,
		prim:   prim,
		reg:    reg,
		euid:   os.Geteuid,
		logger: log.WithComponent("prepare"),
	}
}

// Run executes one preparation. The privilege gate and argument validation
// run before anything mutates; afterwards each step is fatal-on-failure
// with no rollback, and the only recovery is re-running with the same
// id/fsid.
func (p *Prepare) Run(ctx context.Context, opts Options) error {
	if p.euid() != 0 {
		return &PrivilegeError{}
	}

	if err := validate(opts); err != nil {
		return err
	}

	switch opts.Backend {
	case types.BackendFilestore:
		return p.filestore(ctx, opts)
	default:
		return p.bluestore(ctx, opts)
	}
}

// validate rejects bad argument combinations before any side effect
func validate(opts Options) error {
	if opts.ClusterFSID == "" {
		return &ConfigurationError{Reason: "cluster fsid is not set"}
	}
	if opts.Backend != types.BackendFilestore && opts.Backend != types.BackendBluestore {
		return &ConfigurationError{Reason: "one of --filestore or --bluestore is required"}
	}
	if opts.Data == "" {
		return &ConfigurationError{Reason: "--data is required"}
	}
	if opts.Backend == types.BackendFilestore {
		if opts.Journal == "" {
			return &ConfigurationError{Reason: "--journal is required when using --filestore"}
		}
		if opts.BlockWAL != "" || opts.BlockDB != "" {
			return &ConfigurationError{Reason: "--block-wal and --block-db are only valid with --bluestore"}
		}
	} else if opts.Journal != "" {
		return &ConfigurationError{Reason: "--journal is only valid with --filestore"}
	}
	return nil
}

func (p *Prepare) filestore(ctx context.Context, opts Options) error {
	id, err := AllocateIdentity(ctx, opts.Resume, opts.ClusterFSID, p.reg)
	if err != nil {
		return err
	}
	logger := p.logger.With().Str("osd_id", id.ID).Str("osd_fsid", id.FSID).Logger()

	// filestore data must already be a logical volume
	res := p.lvm.Lookup(ctx, opts.Data)
	if res.State != lvm.FoundVolume {
		return &ResolutionError{Device: opts.Data, Reason: "no data logical volume found"}
	}
	dataLV := res.Volume

	tags := newTagSet(id)
	tags.setRole(types.RoleData, dataLV.Path, dataLV.UUID)

	r := &resolver{lvm: p.lvm, disk: p.disk}
	journalPath, _, err := r.resolve(ctx, types.RoleJournal, opts.Journal, tags)
	if err != nil {
		return err
	}

	// single flush: the data volume becomes the discovery entry point
	// only once every role is recorded
	if err := p.lvm.SetTags(ctx, dataLV, tags.flatten(types.RoleData)); err != nil {
		return &PrimitiveError{Op: "tag data volume", Err: err}
	}

	logger.Info().Str("data", dataLV.Path).Str("journal", journalPath).Msg("initializing filestore osd")

	if err := p.prim.CreateOSDPath(ctx, id.ID, false); err != nil {
		return &PrimitiveError{Op: "create osd directory", Err: err}
	}
	if err := p.prim.FormatDevice(ctx, dataLV.Path); err != nil {
		return &PrimitiveError{Op: "format data device", Err: err}
	}
	if err := p.prim.MountOSD(ctx, dataLV.Path, id.ID); err != nil {
		return &PrimitiveError{Op: "mount data device", Err: err}
	}
	if err := p.prim.LinkJournal(ctx, journalPath, id.ID); err != nil {
		return &PrimitiveError{Op: "link journal", Err: err}
	}
	if err := p.prim.GetMonmap(ctx, id.ID); err != nil {
		return &PrimitiveError{Op: "fetch monmap", Err: err}
	}
	if err := p.prim.MkfsFilestore(ctx, id.ID, id.FSID); err != nil {
		return &PrimitiveError{Op: "mkfs filestore", Err: err}
	}
	if err := p.writeKeyring(ctx, id); err != nil {
		return err
	}

	logger.Info().Msg("osd prepared, ready for activation")
	return nil
}

func (p *Prepare) bluestore(ctx context.Context, opts Options) error {
	id, err := AllocateIdentity(ctx, opts.Resume, opts.ClusterFSID, p.reg)
	if err != nil {
		return err
	}
	logger := p.logger.With().Str("osd_id", id.ID).Str("osd_fsid", id.FSID).Logger()

	r := &resolver{lvm: p.lvm, disk: p.disk}

	blockLV, err := r.resolveBlock(ctx, opts.Data, id)
	if err != nil {
		return err
	}

	tags := newTagSet(id)
	tags.setRole(types.RoleBlock, blockLV.Path, blockLV.UUID)

	walPath, _, err := r.resolve(ctx, types.RoleWAL, opts.BlockWAL, tags)
	if err != nil {
		return err
	}
	dbPath, _, err := r.resolve(ctx, types.RoleDB, opts.BlockDB, tags)
	if err != nil {
		return err
	}

	if err := p.lvm.SetTags(ctx, blockLV, tags.flatten(types.RoleBlock)); err != nil {
		return &PrimitiveError{Op: "tag block volume", Err: err}
	}

	logger.Info().Str("block", blockLV.Path).Msg("initializing bluestore osd")

	// bluestore keeps nothing durable in the directory itself, so it is
	// tmpfs-backed
	if err := p.prim.CreateOSDPath(ctx, id.ID, true); err != nil {
		return &PrimitiveError{Op: "create osd directory", Err: err}
	}
	if err := p.prim.LinkBlock(ctx, blockLV.Path, id.ID); err != nil {
		return &PrimitiveError{Op: "link block", Err: err}
	}
	if walPath != "" {
		if err := p.prim.LinkWAL(ctx, walPath, id.ID); err != nil {
			return &PrimitiveError{Op: "link wal", Err: err}
		}
	}
	if dbPath != "" {
		if err := p.prim.LinkDB(ctx, dbPath, id.ID); err != nil {
			return &PrimitiveError{Op: "link db", Err: err}
		}
	}
	if err := p.prim.GetMonmap(ctx, id.ID); err != nil {
		return &PrimitiveError{Op: "fetch monmap", Err: err}
	}
	if err := p.writeKeyring(ctx, id); err != nil {
		return err
	}
	if err := p.prim.MkfsBluestore(ctx, id.ID, id.FSID, id.CephxSecret); err != nil {
		return &PrimitiveError{Op: "mkfs bluestore", Err: err}
	}

	logger.Info().Msg("osd prepared, ready for activation")
	return nil
}

// writeKeyring persists the auth credential unless one already exists for
// this id, so a retried prepare keeps the keyring of the attempt that wrote
// it first
func (p *Prepare) writeKeyring(ctx context.Context, id *types.OSDIdentity) error {
	if p.prim.HasKeyring(id.ID) {
		p.logger.Debug().Str("osd_id", id.ID).Msg("keyring already present, not overwritten")
		return nil
	}
	if err := p.prim.WriteKeyring(ctx, id.ID, id.CephxSecret); err != nil {
		return &PrimitiveError{Op: "write keyring", Err: err}
	}
	return nil
}
