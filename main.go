package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/secaudit/avc-audit/avc"
	"github.com/secaudit/avc-audit/config"
	"github.com/secaudit/avc-audit/database"
	"github.com/secaudit/avc-audit/debuglog"
	"github.com/secaudit/avc-audit/metrics"
	"github.com/secaudit/avc-audit/policy"
	"github.com/secaudit/avc-audit/selinux"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: avc-audit [--config FILE] analyze <context>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Example:")
	fmt.Fprintln(os.Stderr, "    avc-audit analyze my_app_t")
}

func main() {
	flags := flag.NewFlagSet("avc-audit", flag.ExitOnError)
	configPath := flags.String("config", "", "path to a config file (optional)")
	flags.Usage = usage
	flags.Parse(os.Args[1:])

	args := flags.Args()
	if len(args) != 2 || args[0] != "analyze" {
		usage()
		os.Exit(2)
	}
	context := args[1]

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := debuglog.New(cfg.DebugLog)
	logger.Log("=== AVC audit session started ===", map[string]interface{}{"context": context})

	// Extract policy rules before touching the kernel; without them there
	// is nothing to audit.
	fmt.Printf("Extracting policy rules for context: %s\n", context)
	rules, err := policy.Extract(context)
	if err != nil {
		fmt.Printf("Error extracting policy rules: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Found %d allow rules\n", len(rules))
	for _, rule := range rules {
		logger.Log(fmt.Sprintf("Policy rule: %s -> %s:%s", rule.Source, rule.Target, rule.Class),
			map[string]interface{}{"permissions": rule.Permissions})
	}

	decoder, err := selinux.NewDecoder(cfg.DecodeCacheSize)
	if err != nil {
		fmt.Printf("Failed to create decoder: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Starting eBPF AVC probes...")
	reader, mirror, cleanup, err := InitBPF()
	if err != nil {
		fmt.Printf("Failed to initialize BPF: %v\n", err)
		os.Exit(1)
	}
	// Instrumentation teardown happens exactly once, before the report.
	var cleanupOnce sync.Once
	teardown := func() { cleanupOnce.Do(cleanup) }
	defer teardown()

	filter := avc.NewPidFilter(mirror)
	if added := filter.AddAll(pidsForContext(context)); len(added) > 0 {
		fmt.Printf("Filtering for PIDs: %v\n", added)
	}

	session := &session{
		context:    context,
		cfg:        cfg,
		logger:     logger,
		filter:     filter,
		normalizer: avc.NewNormalizer(decoder),
		correlator: avc.NewCorrelator(cfg.PendingMaxAge),
		aggregator: avc.NewAggregator(),
		startedAt:  time.Now(),
	}

	if cfg.StatusAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.StatusAddr, session.statusInfo); err != nil {
				fmt.Printf("Status server error: %v\n", err)
			}
		}()
		fmt.Printf("Metrics and status available at http://localhost%s\n", cfg.StatusAddr)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println()
	fmt.Println("MONITORING ACTIVE")
	fmt.Println("Run your application now.")
	fmt.Println("Press Ctrl+C when done to generate the report.")
	fmt.Println()

	session.run(reader, sig)

	teardown()
	session.printStats()

	events := session.aggregator.Events()
	rep := policy.BuildReport(context, len(events), rules, policy.BuildUsage(events, rules))
	policy.Print(os.Stdout, rep)

	if cfg.DataDir != "" {
		persist(cfg.DataDir, context, events, rep)
	}

	logger.Log("Analysis complete", map[string]interface{}{
		"events":           len(events),
		"used_permissions": rep.UsedPermissions,
	})
	logger.Summary(os.Stdout)
}

// session holds the state the monitor loop threads through one capture.
type session struct {
	context    string
	cfg        *config.Config
	logger     *debuglog.Logger
	filter     *avc.PidFilter
	normalizer *avc.Normalizer
	correlator *avc.Correlator
	aggregator *avc.Aggregator
	startedAt  time.Time
}

// run is the single-threaded monitor loop: bounded poll, process, and an
// inline periodic pid rescan. It returns once a stop signal has arrived
// and the in-flight poll finished.
func (s *session) run(reader PerfReader, sig <-chan os.Signal) {
	lastPidScan := time.Now()

	for {
		select {
		case <-sig:
			fmt.Println("\n\nReceived interrupt signal, stopping...")
			return
		default:
		}

		if s.filter.WarnIfEmpty() {
			fmt.Println("  (Waiting for a process with the target context to start...)")
		}

		reader.SetDeadline(time.Now().Add(s.cfg.PollTimeout))
		record, err := reader.Read()
		switch {
		case err == nil:
			s.handleRecord(record)
		case errors.Is(err, os.ErrDeadlineExceeded):
			// Idle poll; fall through to the periodic work.
		case strings.Contains(err.Error(), "closed"):
			return
		default:
			fmt.Printf("Error reading perf buffer: %v\n", err)
		}

		if time.Since(lastPidScan) >= s.cfg.PidScanInterval {
			lastPidScan = time.Now()
			if added := s.filter.AddAll(pidsForContext(s.context)); len(added) > 0 {
				fmt.Printf("  Added new target PIDs to filter: %v\n", added)
			}
			if dropped := s.correlator.Sweep(time.Now()); dropped > 0 {
				s.logger.Log("Evicted stale pending checks", map[string]interface{}{"count": dropped})
			}
			metrics.PendingChecks.Set(float64(s.correlator.PendingCount()))
		}
	}
}

func (s *session) handleRecord(record Record) {
	if record.LostSamples != 0 {
		metrics.LostSamples.Add(float64(record.LostSamples))
		fmt.Printf("Lost %d samples\n", record.LostSamples)
		return
	}

	var wire avc.WireEvent
	if err := binary.Read(bytes.NewReader(record.RawSample), binary.LittleEndian, &wire); err != nil {
		fmt.Printf("Error parsing event: %v\n", err)
		return
	}

	// The kernel filter already scopes fast-path records; re-check here so
	// records emitted before a pid was mirrored do not slip through.
	if !s.filter.Contains(wire.Pid) {
		return
	}

	raw := avc.ClassifyWire(&wire)
	if raw.Hook == avc.HookAVCCheck {
		merged, ok := s.correlator.Observe(raw)
		if !ok {
			return
		}
		raw = merged
	}

	ev, ok := s.normalizer.Normalize(raw)
	if !ok {
		return
	}
	s.aggregator.Add(ev)

	count := s.aggregator.Stats().TotalEvents
	if count <= 5 {
		s.logger.Log("AVC event sample", map[string]interface{}{
			"pid":       ev.Pid,
			"comm":      ev.Comm,
			"class":     ev.Class,
			"perms":     ev.Permissions,
			"fast_path": ev.FastPath,
		})
	}
	if count%10 == 0 {
		fmt.Printf("Captured %d events from target PIDs...\n", count)
	}
}

// statusInfo feeds the /status endpoint. It runs on the HTTP goroutine, so
// it only exposes values fixed at session start; live counters are on
// /metrics.
func (s *session) statusInfo() interface{} {
	return map[string]interface{}{
		"context":    s.context,
		"started_at": s.startedAt.Format(time.RFC3339),
	}
}

func (s *session) printStats() {
	stats := s.aggregator.Stats()

	fmt.Println("\n~ Monitoring stopped")
	fmt.Println()
	fmt.Println("MONITORING STATISTICS")
	fmt.Printf("Total events captured: %d\n", stats.TotalEvents)
	fmt.Printf("  Slow path (AVC):     %d\n", stats.SlowPath)
	fmt.Printf("  Fast path (Cached):  %d\n", stats.FastPath)
	if len(stats.ByClass) > 0 {
		fmt.Println("\nEvents by object class:")
		for _, class := range sortedKeys(stats.ByClass) {
			fmt.Printf("  %s: %d events\n", class, stats.ByClass[class])
		}
	}
}

func persist(dataDir, context string, events []avc.PermissionEvent, rep policy.Report) {
	db, err := database.NewDB(dataDir)
	if err != nil {
		fmt.Printf("Warning: failed to open session database: %v\n", err)
		return
	}
	defer db.Close()

	sessionID, err := db.BeginSession(context)
	if err != nil {
		fmt.Printf("Warning: failed to record session: %v\n", err)
		return
	}
	if err := db.InsertEvents(sessionID, events); err != nil {
		fmt.Printf("Warning: failed to store events: %v\n", err)
	}
	if err := db.InsertReport(sessionID, rep); err != nil {
		fmt.Printf("Warning: failed to store report: %v\n", err)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
