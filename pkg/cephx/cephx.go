package cephx

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

const (
	// keyType identifies an AES cephx key in the serialized blob
	keyType = 1

	// keyLen is the raw secret length in bytes
	keyLen = 16
)

// CreateKey generates a fresh cephx secret and returns it base64-encoded in
// the wire format the cluster expects: a little-endian header carrying the
// key type, creation timestamp and payload length, followed by the random
// key material. A new key is generated on every call; there is no path for
// reusing the secret of a previous prepare attempt.
func CreateKey() (string, error) {
	secret := make([]byte, keyLen)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}

	now := time.Now()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint16(keyType))
	binary.Write(&buf, binary.LittleEndian, uint32(now.Unix()))
	binary.Write(&buf, binary.LittleEndian, uint32(now.Nanosecond()))
	binary.Write(&buf, binary.LittleEndian, uint16(keyLen))
	buf.Write(secret)

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Secrets is the bundle of credentials handed to the cluster when a new OSD
// id is registered
type Secrets map[string]string

// JSON serializes the bundle for the registration payload
func (s Secrets) JSON() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to serialize secrets: %w", err)
	}
	return string(data), nil
}
