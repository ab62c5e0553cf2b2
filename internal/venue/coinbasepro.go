package venue

import (
	"fmt"
	"time"

	"github.com/ndrandal/fixengine/internal/fixfield"
)

// CoinbasePro signs the prehash string "<timestamp>FIX<passphrase><key>"
// with HMAC-SHA256 keyed by the API secret as given, carrying the
// base64 signature in Password (554) and the timestamp in RawData (96).
type CoinbasePro struct{}

func (CoinbasePro) RegisterFields(reg *fixfield.Registry) error {
	for _, d := range []fixfield.Descriptor{
		fixfield.StringDescriptor(fixfield.TagUsername, "Username"),
		fixfield.StringDescriptor(fixfield.TagPassword, "Password"),
		fixfield.StringDescriptor(fixfield.TagRawData, "RawData"),
		fixfield.IntDescriptor(fixfield.TagRawDataLength, "RawDataLength"),
	} {
		if err := registerIfAbsent(reg, d); err != nil {
			return fmt.Errorf("venue/coinbasepro: register %s: %w", d.Name, err)
		}
	}
	return nil
}

func (CoinbasePro) LogonFields(cfg Config, now time.Time) ([]fixfield.Field, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" || cfg.Passphrase == "" {
		return nil, fmt.Errorf("venue/coinbasepro: APIKey, APISecret, and Passphrase are required")
	}
	timestamp := fmt.Sprintf("%d", now.Unix())
	prehash := timestamp + "FIX" + cfg.Passphrase + cfg.APIKey

	sig := signHMACSHA256(cfg.APISecret, prehash)

	fields := []fixfield.Field{
		fixfield.StringField(fixfield.TagUsername, "Username", cfg.APIKey),
		fixfield.StringField(fixfield.TagRawData, "RawData", timestamp),
		fixfield.IntField(fixfield.TagRawDataLength, "RawDataLength", int64(len(timestamp))),
		fixfield.StringField(fixfield.TagPassword, "Password", sig),
	}
	if cfg.SubAccount != "" {
		fields = append(fields, fixfield.StringField(fixfield.TagAccount, "Account", cfg.SubAccount))
	}
	return fields, nil
}
