package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/studyhub/internal/config"
	"github.com/ziadkadry99/studyhub/internal/logging"
	"github.com/ziadkadry99/studyhub/internal/progress"
)

// sheetCount is the number of tables fetched per load.
const sheetCount = 6

// Gateway fetches the six tables from a sheet-backed HTTP API, one GET per
// sheet at <api_url>/<sheet_id>/<sheet_name>.
type Gateway struct {
	apiURL   string
	sheetID  string
	sheets   config.SheetNames
	client   *http.Client
	reporter progress.Reporter
	logger   *zap.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) { g.client = c }
}

// WithReporter reports per-sheet progress.
func WithReporter(r progress.Reporter) GatewayOption {
	return func(g *Gateway) { g.reporter = r }
}

// WithLogger sets the gateway logger.
func WithLogger(l *zap.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = logging.OrNop(l) }
}

// NewGateway creates a Gateway for the given API base and spreadsheet.
func NewGateway(apiURL, sheetID string, sheets config.SheetNames, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		apiURL:   strings.TrimRight(apiURL, "/"),
		sheetID:  sheetID,
		sheets:   sheets,
		client:   &http.Client{Timeout: 30 * time.Second},
		reporter: progress.Nop{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGatewayFromConfig builds a Gateway from the loaded configuration.
func NewGatewayFromConfig(cfg *config.Config, opts ...GatewayOption) *Gateway {
	base := []GatewayOption{}
	if t := cfg.FetchTimeout(); t > 0 {
		base = append(base, WithHTTPClient(&http.Client{Timeout: t}))
	}
	return NewGateway(cfg.APIURL, cfg.SheetID, cfg.Sheets, append(base, opts...)...)
}

// SheetURL returns the endpoint for one sheet.
func (g *Gateway) SheetURL(sheet string) string {
	return g.apiURL + "/" + url.PathEscape(g.sheetID) + "/" + url.PathEscape(sheet)
}

// FetchAll loads all six tables concurrently. The first failure cancels the
// outstanding requests and fails the whole load with ErrDataLoad; there is no
// partial result.
func (g *Gateway) FetchAll(ctx context.Context) (*Tables, error) {
	var (
		t    Tables
		mu   sync.Mutex
		done int
	)

	g.reporter.Start(sheetCount)
	defer g.reporter.Finish()

	eg, egCtx := errgroup.WithContext(ctx)
	fetch := func(sheet string, assign func([]row)) {
		eg.Go(func() error {
			rows, err := g.fetchRows(egCtx, sheet)
			if err != nil {
				return err
			}
			mu.Lock()
			assign(rows)
			done++
			g.reporter.Update(done, "Loaded "+sheet)
			mu.Unlock()
			g.logger.Debug("sheet loaded", zap.String("sheet", sheet), zap.Int("rows", len(rows)))
			return nil
		})
	}

	fetch(g.sheets.Courses, func(rows []row) { t.Courses = decodeCourses(rows) })
	fetch(g.sheets.Branches, func(rows []row) { t.Branches = decodeBranches(rows) })
	fetch(g.sheets.Semesters, func(rows []row) { t.Semesters = decodeSemesters(rows) })
	fetch(g.sheets.Subjects, func(rows []row) { t.Subjects = decodeSubjects(rows) })
	fetch(g.sheets.Resources, func(rows []row) { t.Resources = decodeResources(rows) })
	fetch(g.sheets.Universities, func(rows []row) { t.Universities = decodeUniversities(rows) })

	if err := eg.Wait(); err != nil {
		g.logger.Error("loading sheets", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDataLoad, err)
	}

	g.logger.Info("all sheets loaded",
		zap.Int("courses", len(t.Courses)),
		zap.Int("branches", len(t.Branches)),
		zap.Int("semesters", len(t.Semesters)),
		zap.Int("subjects", len(t.Subjects)),
		zap.Int("resources", len(t.Resources)),
		zap.Int("universities", len(t.Universities)),
	)
	return &t, nil
}

func (g *Gateway) fetchRows(ctx context.Context, sheet string) ([]row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.SheetURL(sheet), nil)
	if err != nil {
		return nil, &SheetError{Sheet: sheet, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &SheetError{Sheet: sheet, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &SheetError{Sheet: sheet, Status: resp.StatusCode}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rows []row
	if err := dec.Decode(&rows); err != nil {
		return nil, &SheetError{Sheet: sheet, Err: fmt.Errorf("decoding rows: %w", err)}
	}
	return rows, nil
}
