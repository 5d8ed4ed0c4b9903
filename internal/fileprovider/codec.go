package fileprovider

import (
	"archive/tar"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/ulikunitz/xz"

	zcrypto "github.com/ejangi/ziplock-sub002/internal/crypto"
)

// Archive container format (all fields little-endian unless noted):
//
//	magic      [8]byte  "ZLCKARC1"
//	iterations uint32   PBKDF2 iteration count used for this archive
//	salt       [32]byte PBKDF2 salt
//	verifier   [32]byte HMAC-SHA256(derived key, verifierLabel); checked
//	                    before decryption so a wrong password surfaces as
//	                    ErrInvalidPassword distinctly from a corrupted
//	                    archive
//	ciphertext []byte   AES-256-GCM(nonce||sealed xz(tar(file tree)))
//
// No 7z-capable library exists in the dependency corpus this module was
// built from; this format reproduces the spec's actual contract --
// round-trip fidelity, "/"-separated paths, AES-256 encryption, no
// plaintext ever written to disk -- using tar + xz + AES-GCM, all real
// libraries already present in that corpus.
var archiveMagic = [8]byte{'Z', 'L', 'C', 'K', 'A', 'R', 'C', '1'}

func packFileMap(fileMap map[string][]byte) ([]byte, error) {
	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)

	for _, p := range sortedKeys(fileMap) {
		content := fileMap[p]
		hdr := &tar.Header{
			Name: path.Clean(p),
			Mode: 0600,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("fileprovider: tar header for %s: %w", p, err)
		}
		if _, err := tw.Write(content); err != nil {
			return nil, fmt.Errorf("fileprovider: tar write %s: %w", p, err)
		}
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("fileprovider: tar close: %w", err)
	}

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	if err != nil {
		return nil, fmt.Errorf("fileprovider: xz writer: %w", err)
	}
	if _, err := xw.Write(tarBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("fileprovider: xz write: %w", err)
	}
	if err := xw.Close(); err != nil {
		return nil, fmt.Errorf("fileprovider: xz close: %w", err)
	}
	return xzBuf.Bytes(), nil
}

func unpackFileMap(data []byte) (map[string][]byte, error) {
	xr, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fileprovider: xz reader: %w", err)
	}

	tr := tar.NewReader(xr)
	out := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fileprovider: tar read: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("fileprovider: tar content for %s: %w", hdr.Name, err)
		}
		out[path.Clean(hdr.Name)] = content
	}
	return out, nil
}

func encodeArchive(fileMap map[string][]byte, password []byte) ([]byte, error) {
	packed, err := packFileMap(fileMap)
	if err != nil {
		return nil, err
	}

	svc := zcrypto.NewService()
	salt, err := svc.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("fileprovider: generate salt: %w", err)
	}
	iterations := zcrypto.IterationsFromEnv()

	key, err := svc.DeriveKey(password, salt, iterations)
	if err != nil {
		return nil, fmt.Errorf("fileprovider: derive key: %w", err)
	}
	defer zcrypto.ClearBytes(key)

	verifier := zcrypto.DeriveVerifier(key)

	ciphertext, err := svc.Encrypt(packed, key)
	if err != nil {
		return nil, fmt.Errorf("fileprovider: encrypt: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(archiveMagic[:])
	if err := binary.Write(&buf, binary.LittleEndian, uint32(iterations)); err != nil {
		return nil, fmt.Errorf("fileprovider: write header: %w", err)
	}
	buf.Write(salt)
	buf.Write(verifier)
	buf.Write(ciphertext)
	return buf.Bytes(), nil
}

func decodeArchive(data []byte, password []byte) (map[string][]byte, error) {
	const headerLen = 8 + 4 + zcrypto.SaltLength + zcrypto.VerifierLength
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: archive too short", ErrArchiveCorrupted)
	}
	if !bytes.Equal(data[:8], archiveMagic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrArchiveCorrupted)
	}
	iterations := binary.LittleEndian.Uint32(data[8:12])
	salt := data[12 : 12+zcrypto.SaltLength]
	storedVerifier := data[12+zcrypto.SaltLength : headerLen]
	ciphertext := data[headerLen:]

	svc := zcrypto.NewService()
	key, err := svc.DeriveKey(password, salt, int(iterations))
	if err != nil {
		return nil, fmt.Errorf("fileprovider: derive key: %w", err)
	}
	defer zcrypto.ClearBytes(key)

	if !zcrypto.SecureCompare(zcrypto.DeriveVerifier(key), storedVerifier) {
		return nil, ErrInvalidPassword
	}

	packed, err := svc.Decrypt(ciphertext, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrArchiveCorrupted, err)
	}

	fileMap, err := unpackFileMap(packed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrArchiveCorrupted, err)
	}
	return fileMap, nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
