package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds everything a fixcli process needs to bring up one session:
// which venue to speak, how to authenticate with it, session timing, and
// the addresses of the ambient services (Mongo journal, monitor dashboard).
type Config struct {
	// Venue selects the Adapter: "deribit", "coinbasepro", or "ftx".
	Venue string

	// Transport
	Host string
	Port int

	// FIX session identity
	SenderCompID string
	TargetCompID string
	BeginString  string

	// Session timing
	HeartBtInt      time.Duration
	ResetSeqNumFlag bool
	HistoryCapacity int

	// Credentials, fed into venue.Config
	APIKey     string
	APISecret  string
	Passphrase string
	SubAccount string

	// PRNG seed for TestReqID/ClOrdID generation and reconnect jitter
	Seed int64

	// Journal (MongoDB audit trail)
	MongoURI      string
	RetentionDays int

	// Monitor (WebSocket dashboard fan-out)
	MonitorHost string
	MonitorPort int
}

func Load() *Config {
	c := &Config{}

	flag.StringVar(&c.Venue, "venue", envStr("FIX_VENUE", "deribit"), "Venue adapter: deribit, coinbasepro, ftx")

	flag.StringVar(&c.Host, "host", envStr("FIX_HOST", "localhost"), "Venue FIX gateway host")
	flag.IntVar(&c.Port, "port", envInt("FIX_PORT", 9881), "Venue FIX gateway port")

	flag.StringVar(&c.SenderCompID, "sender-comp-id", envStr("FIX_SENDER_COMP_ID", ""), "SenderCompID")
	flag.StringVar(&c.TargetCompID, "target-comp-id", envStr("FIX_TARGET_COMP_ID", ""), "TargetCompID")
	flag.StringVar(&c.BeginString, "begin-string", envStr("FIX_BEGIN_STRING", "FIX.4.4"), "BeginString")

	heartBtSec := flag.Int("heartbeat-sec", envInt("FIX_HEARTBT_SEC", 30), "HeartBtInt in seconds")
	flag.BoolVar(&c.ResetSeqNumFlag, "reset-seq-num", envBool("FIX_RESET_SEQ_NUM", true), "Set ResetSeqNumFlag=Y on Logon")
	flag.IntVar(&c.HistoryCapacity, "history-capacity", envInt("FIX_HISTORY_CAPACITY", 4096), "Resend cache capacity")

	flag.StringVar(&c.APIKey, "api-key", envStr("FIX_API_KEY", ""), "Venue API key")
	flag.StringVar(&c.APISecret, "api-secret", envStr("FIX_API_SECRET", ""), "Venue API secret")
	flag.StringVar(&c.Passphrase, "passphrase", envStr("FIX_PASSPHRASE", ""), "Venue API passphrase (CoinbasePro)")
	flag.StringVar(&c.SubAccount, "sub-account", envStr("FIX_SUB_ACCOUNT", ""), "Venue sub-account")

	flag.Int64Var(&c.Seed, "seed", envInt64("FIX_SEED", 0), "PRNG seed (0 = time-derived)")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("FIX_MONGO_URI", "mongodb://localhost:27017/fixengine"), "MongoDB URI for the audit journal")
	flag.IntVar(&c.RetentionDays, "retention-days", envInt("FIX_RETENTION_DAYS", 30), "Journal retention in days (0 = keep forever)")

	flag.StringVar(&c.MonitorHost, "monitor-host", envStr("FIX_MONITOR_HOST", "0.0.0.0"), "Monitor dashboard bind host")
	flag.IntVar(&c.MonitorPort, "monitor-port", envInt("FIX_MONITOR_PORT", 8180), "Monitor dashboard bind port")

	flag.Parse()

	c.HeartBtInt = time.Duration(*heartBtSec) * time.Second
	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
