// Command fixcli brings up one FIX session against a configured venue,
// mirrors its lifecycle and wire traffic to the monitor dashboard and the
// audit journal, and lets an operator drive it from stdin.
//
// Usage:
//
//	fixcli -venue deribit -api-key ... -api-secret ...
//	fixcli -venue coinbasepro -api-key ... -api-secret ... -passphrase ...
//
// Once connected, type at the prompt:
//
//	order BUY BTC-PERP 1.5 63500.25     # NewOrderSingle, limit
//	order SELL ETH-PERP 2 market        # NewOrderSingle, market
//	mdreq BTC-PERP                      # MarketDataRequest, full book snapshot+updates
//	quit
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ndrandal/fixengine/internal/config"
	"github.com/ndrandal/fixengine/internal/connector"
	"github.com/ndrandal/fixengine/internal/fixcodec"
	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixsession"
	"github.com/ndrandal/fixengine/internal/fixtypes"
	"github.com/ndrandal/fixengine/internal/fixutil"
	"github.com/ndrandal/fixengine/internal/journal"
	"github.com/ndrandal/fixengine/internal/monitor"
	"github.com/ndrandal/fixengine/internal/venue"
)

func main() {
	cfg := config.Load()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("fixcli starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	adapter, err := selectAdapter(cfg.Venue)
	if err != nil {
		log.Fatalf("venue: %v", err)
	}

	reg := fixfield.BuildCoreRegistry()
	if err := adapter.RegisterFields(reg); err != nil {
		log.Fatalf("venue: register fields: %v", err)
	}
	reg.Seal()

	rng := fixutil.NewRNG(cfg.Seed)

	venueCfg := venue.Config{
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
		Passphrase: cfg.Passphrase,
		SubAccount: cfg.SubAccount,
	}
	logonFields, err := adapter.LogonFields(venueCfg, time.Now())
	if err != nil {
		log.Fatalf("venue: build logon fields: %v", err)
	}

	var store *journal.Store
	var jrnl *journal.Journal
	store, err = journal.NewStore(ctx, cfg.MongoURI)
	if err != nil {
		log.Printf("warning: journal disabled, could not connect to %s: %v", cfg.MongoURI, err)
	} else {
		defer store.Close(context.Background())
		if err := store.Migrate(ctx); err != nil {
			log.Printf("warning: journal migration failed: %v", err)
		}
		jrnl = journal.New(store)
		go journal.RunRetention(ctx, store, cfg.RetentionDays)
	}

	mgr := monitor.NewManager(256)

	sessionID := cfg.SenderCompID + "->" + cfg.TargetCompID
	sessEvents := make(chan fixsession.Event, 64)
	connEvents := make(chan connector.Event, 64)
	wireEvents := make(chan fixsession.WireEvent, 256)
	go bridgeSessionEvents(sessionID, sessEvents, mgr, jrnl)
	go bridgeConnectorEvents(sessionID, connEvents, mgr, jrnl)
	go bridgeWireEvents(wireEvents, mgr, jrnl)

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dial := func(ctx context.Context) (io.ReadWriteCloser, string, error) {
		d := net.Dialer{Timeout: 10 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", addr)
		return conn, addr, err
	}

	conn := connector.New(connector.Config{
		Dial: dial,
		Session: fixsession.Config{
			SenderCompID:     cfg.SenderCompID,
			TargetCompID:     cfg.TargetCompID,
			BeginString:      cfg.BeginString,
			HeartBtInt:       cfg.HeartBtInt,
			ResetSeqNumFlag:  cfg.ResetSeqNumFlag,
			ExtraLogonFields: logonFields,
			HistoryCapacity:  cfg.HistoryCapacity,
			Registry:         reg,
			RNG:              rng,
			Events:           sessEvents,
			WireEvents:       wireEvents,
		},
		RNG:    rng,
		Events: connEvents,
	})

	done := make(chan error, 1)
	go func() { done <- conn.Run(ctx) }()

	mux := http.NewServeMux()
	mux.HandleFunc("/monitor", monitor.Handler(mgr))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","clients":%d}`, mgr.ClientCount())
	})
	monitorAddr := net.JoinHostPort(cfg.MonitorHost, strconv.Itoa(cfg.MonitorPort))
	srv := &http.Server{Addr: monitorAddr, Handler: mux}
	go func() {
		log.Printf("monitor dashboard listening on ws://%s/monitor", monitorAddr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("monitor server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	go runREPL(ctx, reg)

	log.Printf("connecting to %s as %s, venue=%s", addr, sessionID, cfg.Venue)
	if err := <-done; err != nil && err != context.Canceled {
		log.Printf("connector stopped: %v", err)
	}
	log.Println("fixcli stopped")
}

func selectAdapter(name string) (venue.Adapter, error) {
	switch strings.ToLower(name) {
	case "deribit":
		return venue.Deribit{}, nil
	case "coinbasepro":
		return venue.CoinbasePro{}, nil
	case "ftx":
		return venue.FTX{}, nil
	default:
		return nil, fmt.Errorf("unknown venue %q (want deribit, coinbasepro, or ftx)", name)
	}
}

func bridgeSessionEvents(sessionID string, in <-chan fixsession.Event, mgr *monitor.Manager, jrnl *journal.Journal) {
	for ev := range in {
		lc := monitor.LifecycleEvent{
			SessionID: sessionID,
			Source:    "session",
			Kind:      ev.Kind.String(),
			Reason:    ev.Reason,
			At:        ev.At,
		}
		mgr.PublishLifecycle(lc)
		if jrnl != nil {
			rec := journal.LifecycleRecord{SessionID: sessionID, Source: "session", Kind: ev.Kind.String(), Reason: ev.Reason, At: ev.At}
			if err := jrnl.RecordLifecycle(context.Background(), rec); err != nil {
				log.Printf("journal: record lifecycle: %v", err)
			}
		}
	}
}

func bridgeConnectorEvents(sessionID string, in <-chan connector.Event, mgr *monitor.Manager, jrnl *journal.Journal) {
	for ev := range in {
		lc := monitor.LifecycleEvent{
			SessionID: sessionID,
			Source:    "connector",
			Kind:      ev.Kind.String(),
			Reason:    ev.Reason,
			At:        ev.At,
		}
		mgr.PublishLifecycle(lc)
		if jrnl != nil {
			rec := journal.LifecycleRecord{SessionID: sessionID, Source: "connector", Kind: ev.Kind.String(), Reason: ev.Reason, At: ev.At}
			if err := jrnl.RecordLifecycle(context.Background(), rec); err != nil {
				log.Printf("journal: record lifecycle: %v", err)
			}
		}
	}
}

// bridgeWireEvents journals and dashboard-broadcasts every sent or
// received FIX message. The session engine emits a neutral WireEvent so
// it never has to import the journal or monitor packages itself.
func bridgeWireEvents(in <-chan fixsession.WireEvent, mgr *monitor.Manager, jrnl *journal.Journal) {
	for ev := range in {
		mgr.PublishMessage(monitor.MirrorMessage(ev.SessionID, monitor.Direction(ev.Direction), ev.Msg, ev.At))
		if jrnl != nil {
			wm := journal.MessageFromMirror(ev.SessionID, string(ev.Direction), ev.SeqNum, ev.Msg, ev.Raw, ev.At)
			if err := jrnl.RecordMessage(context.Background(), wm); err != nil {
				log.Printf("journal: record message: %v", err)
			}
		}
	}
}

// runREPL reads operator commands from stdin and prints the
// NewOrderSingle or MarketDataRequest message each one builds. It has no
// handle on the live Session (which is re-created on every reconnect by the
// connector), so the built messages are printed, not sent.
func runREPL(ctx context.Context, reg *fixfield.Registry) {
	fmt.Println(`fixcli ready. Commands: "order SIDE SYMBOL QTY PRICE|market", "mdreq SYMBOL", "quit"`)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return
		case "order":
			if msg, err := buildNewOrderSingle(fields[1:]); err != nil {
				fmt.Println("error:", err)
			} else {
				fmt.Println("built (not yet wired to a live session):", describeMessage(msg))
			}
		case "mdreq":
			if msg, err := buildMarketDataRequest(fields[1:]); err != nil {
				fmt.Println("error:", err)
			} else {
				fmt.Println("built (not yet wired to a live session):", describeMessage(msg))
			}
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func buildNewOrderSingle(args []string) (*fixcodec.Message, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("usage: order SIDE SYMBOL QTY [PRICE|market]")
	}
	side, err := fixtypes.ParseSide(sideWireCode(args[0]))
	if err != nil {
		return nil, err
	}
	symbol := args[1]
	qty, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return nil, fmt.Errorf("bad qty: %w", err)
	}

	msg := fixcodec.NewMessage(fixtypes.MsgTypeNewOrderSingle)
	msg.Add(fixfield.StringField(fixfield.TagClOrdID, "ClOrdID", fixutil.NewRNG(time.Now().UnixNano()).NextID("ORD")))
	msg.Add(fixfield.EnumField(fixfield.TagSide, "Side", string(side)))
	msg.Add(fixfield.StringField(fixfield.TagSymbol, "Symbol", symbol))
	msg.Add(fixfield.FloatField(fixfield.TagOrderQty, "OrderQty", qty))

	if len(args) >= 4 && strings.EqualFold(args[3], "market") {
		msg.Add(fixfield.EnumField(fixfield.TagOrdType, "OrdType", string(fixtypes.OrdTypeMarket)))
	} else if len(args) >= 4 {
		price, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return nil, fmt.Errorf("bad price: %w", err)
		}
		msg.Add(fixfield.EnumField(fixfield.TagOrdType, "OrdType", string(fixtypes.OrdTypeLimit)))
		msg.Add(fixfield.FloatField(fixfield.TagPrice, "Price", price))
	} else {
		return nil, fmt.Errorf("missing price or \"market\"")
	}

	msg.Add(fixfield.UTCTimestampField(fixfield.TagTransactTime, "TransactTime", fixtypes.NewUTCTimestamp(time.Now())))
	return msg, nil
}

func buildMarketDataRequest(args []string) (*fixcodec.Message, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: mdreq SYMBOL")
	}
	msg := fixcodec.NewMessage(fixtypes.MsgTypeMarketDataReq)
	msg.Add(fixfield.StringField(fixfield.TagMDReqID, "MDReqID", fixutil.NewRNG(time.Now().UnixNano()).NextID("MDR")))
	msg.Add(fixfield.StringField(fixfield.TagSubscriptionReqType, "SubscriptionRequestType", "1"))
	msg.Add(fixfield.IntField(fixfield.TagMarketDepth, "MarketDepth", 0))
	msg.Add(fixfield.StringField(fixfield.TagSymbol, "Symbol", args[0]))
	return msg, nil
}

func sideWireCode(s string) string {
	switch strings.ToUpper(s) {
	case "BUY", "B":
		return string(fixtypes.SideBuy)
	case "SELL", "S":
		return string(fixtypes.SideSell)
	default:
		return s
	}
}

func describeMessage(msg *fixcodec.Message) string {
	symbol, _ := msg.Get(fixfield.TagSymbol)
	return symbol.Raw()
}
