package venue

import (
	"fmt"
	"time"

	"github.com/ndrandal/fixengine/internal/fixfield"
)

// FTX signs "<timestamp>GET/realtime" (FTX's websocket auth convention,
// carried over to its FIX gateway) with HMAC-SHA256 using a secret
// delivered out-of-band over the venue's websocket channel rather than
// configured statically, since FTX rotates it per session.
type FTX struct {
	// WSSecret is the session-scoped secret obtained over the companion
	// websocket channel before Logon is sent.
	WSSecret string
}

func (FTX) RegisterFields(reg *fixfield.Registry) error {
	for _, d := range []fixfield.Descriptor{
		fixfield.StringDescriptor(fixfield.TagUsername, "Username"),
		fixfield.StringDescriptor(fixfield.TagPassword, "Password"),
		fixfield.StringDescriptor(fixfield.TagRawData, "RawData"),
		fixfield.IntDescriptor(fixfield.TagRawDataLength, "RawDataLength"),
	} {
		if err := registerIfAbsent(reg, d); err != nil {
			return fmt.Errorf("venue/ftx: register %s: %w", d.Name, err)
		}
	}
	return nil
}

func (f FTX) LogonFields(cfg Config, now time.Time) ([]fixfield.Field, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("venue/ftx: APIKey is required")
	}
	if f.WSSecret == "" {
		return nil, fmt.Errorf("venue/ftx: WSSecret not yet obtained over the websocket channel")
	}
	timestamp := fmt.Sprintf("%d", now.UnixMilli())
	prehash := timestamp + "GET/realtime"

	sig := signHMACSHA256(f.WSSecret, prehash)

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
