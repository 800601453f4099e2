package cmd

import (
	"context"
	"time"

	"zombiezen.com/go/log"

	"github.com/Tiliavir/trackthetime/internal/clierr"
	"github.com/Tiliavir/trackthetime/internal/output"
	"github.com/Tiliavir/trackthetime/internal/report"
	"github.com/Tiliavir/trackthetime/internal/timecalc"
)

type reportRequest struct {
	kind      report.Kind
	from, to  string
	filter    string
	byProject bool
	seconds   bool
}

func (a *app) report(ctx context.Context, req reportRequest) error {
	tasks, _, err := a.read(ctx)
	if err != nil {
		return err
	}
	now := a.now()
	rng, err := timecalc.Resolve(req.from, req.to, now)
	if err != nil {
		return clierr.Wrap(clierr.InvalidInput, err)
	}
	log.Debugf(ctx, "%s report from %s to %s", req.kind, rng.From.Format(timecalc.DateLayout), rng.To.Format(timecalc.DateLayout))

	r := report.New(tasks, now)
	var res report.Result
	if req.byProject {
		res = r.ProjectTime(req.kind, rng.From, rng.To, req.filter)
	} else {
		var opts []report.Option
		if req.seconds {
			opts = append(opts, report.WithSeconds())
		}
		res = r.Time(req.kind, rng.From, rng.To, opts...)
	}
	output.Report(a.out, report.Render(res))
	return nil
}

// summary prints the current week, today and the time to leave.
func (a *app) summary(ctx context.Context) error {
	tasks, _, err := a.read(ctx)
	if err != nil {
		return err
	}
	now := a.now()
	from, to := timecalc.StartOfDay(now), timecalc.Midnight(now)

	r := report.New(tasks, now)
	output.Report(a.out, report.Render(r.Time(report.Week, from, to)))
	output.Report(a.out, report.Render(r.Time(report.Day, from, to)))
	if ttl, ok := r.TodayTimeLeft(a.cfg.DailySeconds(), a.cfg.WeeklySeconds()); ok {
		output.TimeToLeave(a.out, ttl, now.Truncate(time.Minute))
	}
	return nil
}
