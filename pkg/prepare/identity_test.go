package prepare

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/osdkit/osdprep/pkg/types"
)

func TestAllocateIdentity_Resume(t *testing.T) {
	reg := &fakeRegistrar{nextID: "9"}
	resume := types.ResumeToken{OSDID: "3", OSDFSID: "f0714c7a-2a82-4633-bd33-a47747eeff19"}

	id, err := AllocateIdentity(context.Background(), resume, "C1", reg)
	if err != nil {
		t.Fatalf("AllocateIdentity() error = %v", err)
	}

	if id.ID != "3" {
		t.Errorf("ID = %v, want 3", id.ID)
	}
	if id.FSID != "f0714c7a-2a82-4633-bd33-a47747eeff19" {
		t.Errorf("FSID = %v, want resumed fsid", id.FSID)
	}
	if id.ClusterFSID != "C1" {
		t.Errorf("ClusterFSID = %v, want C1", id.ClusterFSID)
	}

	// a resumed id means no duplicate registration
	if len(reg.fsids) != 0 {
		t.Errorf("registrar called %d times for resumed id, want 0", len(reg.fsids))
	}

	if id.CephxSecret == "" {
		t.Error("CephxSecret is empty, want fresh key")
	}
}

func TestAllocateIdentity_Fresh(t *testing.T) {
	reg := &fakeRegistrar{nextID: "0"}

	first, err := AllocateIdentity(context.Background(), types.ResumeToken{}, "C1", reg)
	if err != nil {
		t.Fatalf("AllocateIdentity() error = %v", err)
	}
	second, err := AllocateIdentity(context.Background(), types.ResumeToken{}, "C1", reg)
	if err != nil {
		t.Fatalf("AllocateIdentity() error = %v", err)
	}

	if first.FSID == second.FSID {
		t.Errorf("two fresh allocations produced the same fsid %v", first.FSID)
	}

	// each fsid reached the registrar before the id was assigned
	if len(reg.fsids) != 2 {
		t.Fatalf("registrar called %d times, want 2", len(reg.fsids))
	}
	if reg.fsids[0] != first.FSID || reg.fsids[1] != second.FSID {
		t.Errorf("registered fsids %v do not match allocated %v/%v", reg.fsids, first.FSID, second.FSID)
	}
}

func TestAllocateIdentity_SecretAlwaysFresh(t *testing.T) {
	reg := &fakeRegistrar{nextID: "0"}
	resume := types.ResumeToken{OSDID: "3", OSDFSID: "f0714c7a-2a82-4633-bd33-a47747eeff19"}

	first, err := AllocateIdentity(context.Background(), resume, "C1", reg)
	if err != nil {
		t.Fatalf("AllocateIdentity() error = %v", err)
	}
	second, err := AllocateIdentity(context.Background(), resume, "C1", reg)
	if err != nil {
		t.Fatalf("AllocateIdentity() error = %v", err)
	}

	if first.CephxSecret == second.CephxSecret {
		t.Error("resumed allocations reused the cephx secret")
	}
}

func TestAllocateIdentity_RegistrationPayload(t *testing.T) {
	reg := &fakeRegistrar{nextID: "4"}

	id, err := AllocateIdentity(context.Background(), types.ResumeToken{}, "C1", reg)
	if err != nil {
		t.Fatalf("AllocateIdentity() error = %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(reg.payloads[0]), &payload); err != nil {
		t.Fatalf("registration payload is not json: %v", err)
	}
	if payload["cephx_secret"] != id.CephxSecret {
		t.Errorf("payload secret = %v, want %v", payload["cephx_secret"], id.CephxSecret)
	}
}

func TestAllocateIdentity_RegistrationFailure(t *testing.T) {
	reg := &fakeRegistrar{err: errors.New("monitors unreachable")}

	_, err := AllocateIdentity(context.Background(), types.ResumeToken{}, "C1", reg)

	var primErr *PrimitiveError
	if !errors.As(err, &primErr) {
		t.Fatalf("AllocateIdentity() error = %v, want PrimitiveError", err)
	}
	if !errors.Is(err, reg.err) {
		t.Error("registration failure was not propagated unchanged")
	}
}
