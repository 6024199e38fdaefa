package console

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"fleetadmin/internal/apiclient"
	"fleetadmin/internal/calc"
	"fleetadmin/internal/model"
)

// ActGenerate builds a report for the posted kind and range.
const ActGenerate = "generate"

type ReportsView struct {
	State   string
	Error   string
	Kind    string
	Start   string
	End     string
	Kinds   []Option
	Report  *model.Report
	PDFPath string
}

// ReportsPage builds tabular reports for a date range.
type ReportsPage struct {
	client *apiclient.Client

	mu     sync.Mutex
	gen    uint64
	state  LoadState
	err    string
	kind   string
	start  string
	end    string
	report *model.Report
}

// NewReportsPage defaults to the bookings report for the current month.
func NewReportsPage(client *apiclient.Client) *ReportsPage {
	now := nowFunc()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return &ReportsPage{
		client: client,
		kind:   model.ReportBookings,
		start:  first.Format(calc.DateLayout),
		end:    now.Format(calc.DateLayout),
	}
}

func (p *ReportsPage) query() url.Values {
	q := url.Values{}
	if p.start != "" {
		q.Set("start", p.start)
	}
	if p.end != "" {
		q.Set("end", p.end)
	}
	return q
}

func (p *ReportsPage) Enter(ctx context.Context) error {
	return p.generate(ctx)
}

func (p *ReportsPage) Leave() {
	p.mu.Lock()
	p.gen++
	p.mu.Unlock()
}

func validKind(kind string) bool {
	for _, k := range model.ReportKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *ReportsPage) set(kind, start, end string) error {
	if kind != "" && !validKind(kind) {
		return fmt.Errorf("unknown report %q", kind)
	}
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(calc.DateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", d)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if kind != "" {
		p.kind = kind
	}
	p.start, p.end = start, end
	return nil
}

func (p *ReportsPage) generate(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state = StateLoading
	p.err = ""
	path := "/api/reports/" + url.PathEscape(p.kind)
	q := p.query()
	p.mu.Unlock()

	var report model.Report
	err := p.client.Do(ctx, http.MethodGet, path, q, nil, &report)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return nil
	}
	if err != nil {
		p.state = StateFailed
		p.err = apiclient.ErrorMessage(err)
		return err
	}
	p.report = &report
	p.state = StateReady
	return nil
}

func (p *ReportsPage) Handle(ctx context.Context, a Action) error {
	switch a.Name {
	case ActGenerate:
		if err := p.set(a.Values.Get("kind"), a.Values.Get("start"), a.Values.Get("end")); err != nil {
			p.mu.Lock()
			p.state = StateFailed
			p.err = err.Error()
			p.mu.Unlock()
			return err
		}
		return p.generate(ctx)
	case ActReload:
		return p.generate(ctx)
	default:
		return ErrUnknownAction
	}
}

// PDFQuery is the query of the PDF download of the current report.
func (p *ReportsPage) PDFQuery() (string, url.Values) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q := p.query()
	q.Set("format", "pdf")
	return p.kind, q
}

func (p *ReportsPage) View() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	q := p.query()
	q.Set("kind", p.kind)
	rv := &ReportsView{
		State:   p.state.String(),
		Error:   p.err,
		Kind:    p.kind,
		Start:   p.start,
		End:     p.end,
		Kinds:   Options(model.ReportKinds...),
		Report:  p.report,
		PDFPath: "/reports/pdf?" + q.Encode(),
	}
	return PageView{Key: PageReports.String(), Title: PageReports.Label(), Kind: "reports", View: "list", Reports: rv}
}
