package printers

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/pingware/portping/probe"
	"github.com/pingware/portping/statistics"
)

const (
	eventTypeProbe      = "probe"
	eventTypeStatistics = "statistics"
)

const (
	tableSchema = `CREATE TABLE %s (
    id INTEGER PRIMARY KEY,
    event_type TEXT NOT NULL, -- "probe" or "statistics"
    timestamp DATETIME,
    hostname TEXT,
    ip_address TEXT,
    port INTEGER,

    seq INTEGER,
    success INTEGER,
    rtt_ms REAL,
    local_addr TEXT,
    failure_reason TEXT,

    transmitted INTEGER,
    received INTEGER,
    loss_percent REAL,
    rtt_min REAL,
    rtt_avg REAL,
    rtt_max REAL,
    rtt_median REAL,
    rtt_stddev REAL,
    rtt_jitter REAL,
    start_time DATETIME,
    end_time DATETIME
	);`

	probeSaveSchema = `INSERT INTO %s (
	event_type,
	timestamp,
	hostname,
	ip_address,
	port,
	seq,
	success,
	rtt_ms,
	local_addr,
	failure_reason) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	statSaveSchema = `INSERT INTO %s (
	event_type,
	timestamp,
	hostname,
	ip_address,
	port,
	transmitted,
	received,
	loss_percent,
	rtt_min,
	rtt_avg,
	rtt_max,
	rtt_median,
	rtt_stddev,
	rtt_jitter,
	start_time,
	end_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
)

// DatabasePrinter stores probe results in a SQLite database, one table per
// run. The interactive lines stay on stdout only as a short notice.
type DatabasePrinter struct {
	Conn      *sqlite.Conn
	DbPath    string
	TableName string
}

// NewDatabasePrinter opens (or creates) the database file and creates the
// per-run data table.
func NewDatabasePrinter(target, port, dbPath string) (*DatabasePrinter, error) {
	filename := addDbExtension(dbPath)

	conn, err := sqlite.OpenConn(filename, sqlite.OpenCreate, sqlite.OpenReadWrite)
	if err != nil {
		return nil, fmt.Errorf("create database %q: %w", filename, err)
	}

	tableName := sanitizeTableName(target, port)

	err = sqlitex.Execute(conn, fmt.Sprintf(tableSchema, tableName), &sqlitex.ExecOptions{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create data table: %w", err)
	}

	return &DatabasePrinter{conn, filename, tableName}, nil
}

func addDbExtension(filename string) string {
	if strings.HasSuffix(filename, ".db") {
		return filename
	}
	return filename + ".db"
}

// sanitizeTableName will return the sanitized and correctly formatted table
// name, formatted as "example_com_port__year_month_day_hour_minute_sec".
// Table names can't have '.', '-' and can't start with numbers.
func sanitizeTableName(hostname, port string) string {
	sanitizedHost := strings.ReplaceAll(hostname, ".", "_")
	sanitizedHost = strings.ReplaceAll(sanitizedHost, "-", "_")
	sanitizedHost = strings.ReplaceAll(sanitizedHost, ":", "_")

	sanitizedTime := strings.ReplaceAll(time.Now().Format(time.DateTime), "-", "_")
	sanitizedTime = strings.ReplaceAll(sanitizedTime, ":", "_")
	sanitizedTime = strings.ReplaceAll(sanitizedTime, " ", "_")

	tableName := fmt.Sprintf("%s_%s__%s", sanitizedHost, port, sanitizedTime)

	if unicode.IsNumber(rune(tableName[0])) {
		tableName = "_" + tableName
	}

	return tableName
}

// PrintStart prints a short notice naming the database file; everything else
// goes into the table.
func (p *DatabasePrinter) PrintStart(s *statistics.Statistics) {
	fmt.Printf("TCP pinging %s on port %d - saving results to: %s\n", s.Hostname, s.Port, p.DbPath)
}

// PrintProbeSuccess stores one successful probe event.
func (p *DatabasePrinter) PrintProbeSuccess(s *statistics.Statistics, seq uint, r probe.Result) {
	p.saveProbe(s, seq, r)
}

// PrintProbeFailure stores one failed probe event.
func (p *DatabasePrinter) PrintProbeFailure(s *statistics.Statistics, seq uint, r probe.Result) {
	p.saveProbe(s, seq, r)
}

func (p *DatabasePrinter) saveProbe(s *statistics.Statistics, seq uint, r probe.Result) {
	success := 0
	var rttMs float64
	var localAddr, failureReason string

	if r.OK {
		success = 1
		rttMs = statistics.ToMilliseconds(r.RTT)
		if r.LocalAddr != nil {
			localAddr = r.LocalAddr.String()
		}
	} else {
		failureReason = r.Reason.String()
	}

	args := []any{
		eventTypeProbe,
		time.Now().Format(time.DateTime),
		s.Hostname,
		s.IP.String(),
		int(s.Port),
		int(seq),
		success,
		rttMs,
		localAddr,
		failureReason,
	}

	err := sqlitex.Execute(p.Conn, fmt.Sprintf(probeSaveSchema, p.TableName), &sqlitex.ExecOptions{Args: args})
	if err != nil {
		p.PrintError("save probe event: %v", err)
	}
}

// PrintStatistics stores the end-of-run summary row.
func (p *DatabasePrinter) PrintStatistics(s *statistics.Statistics) {
	avg, _ := s.Average()
	median, _ := s.Median()
	stddev, _ := s.StdDev()
	jitter, _ := s.Jitter()

	args := []any{
		eventTypeStatistics,
		time.Now().Format(time.DateTime),
		s.Hostname,
		s.IP.String(),
		int(s.Port),
		int(s.Transmitted),
		int(s.Received),
		s.LossPercent(),
		statistics.ToMilliseconds(s.MinRTT),
		statistics.ToMilliseconds(avg),
		statistics.ToMilliseconds(s.MaxRTT),
		statistics.ToMilliseconds(median),
		statistics.ToMilliseconds(stddev),
		statistics.ToMilliseconds(jitter),
		s.StartTime.Format(time.DateTime),
		s.EndTime.Format(time.DateTime),
	}

	err := sqlitex.Execute(p.Conn, fmt.Sprintf(statSaveSchema, p.TableName), &sqlitex.ExecOptions{Args: args})
	if err != nil {
		p.PrintError("save statistics: %v", err)
		return
	}

	fmt.Printf("\nstatistics for %s saved to %s\n", s.Hostname, p.DbPath)
}

// PrintError prints an error message to stderr.
func (p *DatabasePrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Done closes the database connection.
func (p *DatabasePrinter) Done() error {
	return p.Conn.Close()
}
