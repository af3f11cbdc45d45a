package workers

import (
	"time"

	"marketplace/pkg/logger"

	"github.com/robfig/cron"
)

const issueAutoCloserName = "IssueAutoCloser"

const DefaultAutoCloseSchedule = "@every 1h"

type issueCloser interface {
	AutoClose(age time.Duration) (int64, error)
}

// IssueAutoCloser closes issues that have sat in resolved for longer than age.
type IssueAutoCloser struct {
	issues   issueCloser
	age      time.Duration
	schedule string
	cron     *cron.Cron
}

func NewIssueAutoCloser(issues issueCloser, age time.Duration, schedule string) *IssueAutoCloser {
	if schedule == "" {
		schedule = DefaultAutoCloseSchedule
	}
	return &IssueAutoCloser{
		issues:   issues,
		age:      age,
		schedule: schedule,
		cron:     cron.New(),
	}
}

func (w *IssueAutoCloser) GetServiceName() string {
	return issueAutoCloserName
}

func (w *IssueAutoCloser) StartService() {
	if err := w.cron.AddFunc(w.schedule, func() { w.RunOnce() }); err != nil {
		logger.Default().Errorf(err, "Could not add function to %s", issueAutoCloserName)
		return
	}
	w.cron.Start()
}

func (w *IssueAutoCloser) StopService() {
	w.cron.Stop()
}

// RunOnce performs a single sweep and returns how many issues it closed.
func (w *IssueAutoCloser) RunOnce() int64 {
	closed, err := w.issues.AutoClose(w.age)
	if err != nil {
		logger.Default().Error(err, "Could not auto-close resolved issues")
		return 0
	}
	if closed > 0 {
		logger.Default().Infof("%s closed %d resolved issues", issueAutoCloserName, closed)
	}
	return closed
}
