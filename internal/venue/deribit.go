package venue

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/ndrandal/fixengine/internal/fixfield"
)

// Deribit signs the prehash string "<timestamp>.<nonce>" with HMAC-SHA256
// over the API secret, carrying "<timestamp>.<base64 signature>" in
// Password (554) and the nonce in RawData (96), alongside the API key in
// Username (553).
type Deribit struct{}

func (Deribit) RegisterFields(reg *fixfield.Registry) error {
	for _, d := range []fixfield.Descriptor{
		fixfield.StringDescriptor(fixfield.TagUsername, "Username"),
		fixfield.StringDescriptor(fixfield.TagPassword, "Password"),
		fixfield.StringDescriptor(fixfield.TagRawData, "RawData"),
		fixfield.IntDescriptor(fixfield.TagRawDataLength, "RawDataLength"),
	} {
		if err := registerIfAbsent(reg, d); err != nil {
			return fmt.Errorf("venue/deribit: register %s: %w", d.Name, err)
		}
	}
	return nil
}

func (Deribit) LogonFields(cfg Config, now time.Time) ([]fixfield.Field, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("venue/deribit: APIKey and APISecret are required")
	}
	nonce := fmt.Sprintf("%d", now.UnixNano())
	timestamp := fmt.Sprintf("%d", now.UnixMilli())
	prehash := timestamp + "." + nonce

	sig := signHMACSHA256(cfg.APISecret, prehash)

	return []fixfield.Field{
		fixfield.StringField(fixfield.TagUsername, "Username", cfg.APIKey),
		fixfield.StringField(fixfield.TagRawData, "RawData", nonce),
		fixfield.IntField(fixfield.TagRawDataLength, "RawDataLength", int64(len(nonce))),
		fixfield.StringField(fixfield.TagPassword, "Password", timestamp+"."+sig),
	}, nil
}

// signHMACSHA256 computes the base64-standard-encoded HMAC-SHA256 of msg
// keyed by secret. Base64 encoding is deliberately adapter-local: the
// core field/registry layer never knows about it.
func signHMACSHA256(secret, msg string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
