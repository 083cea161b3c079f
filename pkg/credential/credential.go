package credential

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrConfiguration is returned when the server-wide secret is not set.
var ErrConfiguration = errors.New("credential: hash secret is not configured")

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("credential: malformed hash")

type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

var DefaultParams = Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 2,
	KeyLen:  32,
	SaltLen: 16,
}

// Hasher hashes passwords with argon2id keyed by a server-wide secret.
type Hasher struct {
	params Params
	secret []byte
}

func NewHasher(secret string, params Params) *Hasher {
	if params.SaltLen == 0 {
		params.SaltLen = DefaultParams.SaltLen
	}
	return &Hasher{params: params, secret: []byte(secret)}
}

// ParamsFrom builds Params from integer settings, substituting defaults for
// non-positive values.
func ParamsFrom(time, memoryKiB, threads, keyLen int) Params {
	p := DefaultParams
	if time > 0 {
		p.Time = uint32(time)
	}
	if memoryKiB > 0 {
		p.Memory = uint32(memoryKiB)
	}
	if threads > 0 && threads <= 255 {
		p.Threads = uint8(threads)
	}
	if keyLen > 0 {
		p.KeyLen = uint32(keyLen)
	}
	return p
}

// keyed mixes the secret into the password since argon2.IDKey has no
// secret parameter.
func (h *Hasher) keyed(password string) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

// Hash returns an encoded $argon2id$ string with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	if len(h.secret) == 0 {
		return "", ErrConfiguration
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey(h.keyed(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify reports whether password matches encoded. A mismatch is (false, nil).
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	if len(h.secret) == 0 {
		return false, ErrConfiguration
	}

	params, salt, want, err := decode(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey(h.keyed(password), salt, params.Time, params.Memory, params.Threads, params.KeyLen)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// Dummy returns a valid hash of a random password. Verifying against it costs
// the same as a real verify.
func (h *Hasher) Dummy() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	encoded, err := h.Hash(base64.RawStdEncoding.EncodeToString(buf))
	if err != nil {
		return ""
	}
	return encoded
}

func decode(encoded string) (Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrMalformedHash
	}

	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return Params{}, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrMalformedHash, parts[2])
	}

	var p Params
	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &threads); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if threads == 0 || threads > 255 {
		return Params{}, nil, nil, ErrMalformedHash
	}
	p.Threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}
	p.KeyLen = uint32(len(key))
	p.SaltLen = uint32(len(salt))

	return p, salt, key, nil
}
