package prepare

import (
	"context"

	"github.com/google/uuid"

	"github.com/osdkit/osdprep/pkg/cephx"
	"github.com/osdkit/osdprep/pkg/log"
	"github.com/osdkit/osdprep/pkg/types"
)

// Registrar registers a new OSD with the cluster. CreateID submits the OSD
// fsid together with the serialized secrets bundle and returns the numeric
// id the cluster assigned.
type Registrar interface {
	CreateID(ctx context.Context, fsid, payload string) (string, error)
}

// AllocateIdentity produces the identity for one prepare attempt. The
// resume token lets an operator re-run preparation after a failure with the
// id/fsid of the earlier attempt so the OSD is not registered twice; empty
// token fields are allocated fresh.
//
// The cephx secret is regenerated on every call, resumed or not. Reusing
// the secret of a previous attempt is not supported; a resumed prepare
// overwrites the keyring material in the registration payload. Known
// limitation.
func AllocateIdentity(ctx context.Context, resume types.ResumeToken, clusterFSID string, reg Registrar) (*types.OSDIdentity, error) {
	secret, err := cephx.CreateKey()
	if err != nil {
		return nil, err
	}

	payload, err := cephx.Secrets{"cephx_secret": secret}.JSON()
	if err != nil {
		return nil, err
	}

	fsid := resume.OSDFSID
	if fsid == "" {
		fsid = uuid.New().String()
	}

	osdID := resume.OSDID
	if osdID == "" {
		osdID, err = reg.CreateID(ctx, fsid, payload)
		if err != nil {
			return nil, &PrimitiveError{Op: "register osd " + fsid, Err: err}
		}
	}

	logger := log.WithComponent("prepare")
	logger.Debug().
		Str("osd_id", osdID).
		Str("osd_fsid", fsid).
		Bool("resumed", !resume.Empty()).
		Msg("osd identity allocated")

	return &types.OSDIdentity{
		ID:          osdID,
		FSID:        fsid,
		ClusterFSID: clusterFSID,
		CephxSecret: secret,
	}, nil
}
