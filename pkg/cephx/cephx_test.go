package cephx

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"testing"
)

func TestCreateKey(t *testing.T) {
	key, err := CreateKey()
	if err != nil {
		t.Fatalf("CreateKey() error = %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		t.Fatalf("CreateKey() returned invalid base64: %v", err)
	}

	// 2-byte type + 4+4 byte timestamp + 2-byte length + 16-byte secret
	if len(raw) != 28 {
		t.Errorf("decoded key length = %d, want 28", len(raw))
	}

	if typ := binary.LittleEndian.Uint16(raw[0:2]); typ != keyType {
		t.Errorf("key type = %d, want %d", typ, keyType)
	}
	if l := binary.LittleEndian.Uint16(raw[10:12]); l != keyLen {
		t.Errorf("payload length = %d, want %d", l, keyLen)
	}
}

func TestCreateKey_Unique(t *testing.T) {
	first, err := CreateKey()
	if err != nil {
		t.Fatalf("CreateKey() error = %v", err)
	}
	second, err := CreateKey()
	if err != nil {
		t.Fatalf("CreateKey() error = %v", err)
	}

	if first == second {
		t.Error("CreateKey() returned the same key twice")
	}
}

func TestSecretsJSON(t *testing.T) {
	s := Secrets{"cephx_secret": "AQBsomekey=="}

	payload, err := s.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("JSON() produced invalid json: %v", err)
	}
	if decoded["cephx_secret"] != "AQBsomekey==" {
		t.Errorf("cephx_secret = %v, want AQBsomekey==", decoded["cephx_secret"])
	}
}
