package workers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeCloser struct {
	ages   []time.Duration
	closed int64
	err    error
}

func (f *fakeCloser) AutoClose(age time.Duration) (int64, error) {
	f.ages = append(f.ages, age)
	return f.closed, f.err
}

func TestIssueAutoCloser_RunOnce(t *testing.T) {
	f := &fakeCloser{closed: 3}
	w := NewIssueAutoCloser(f, 48*time.Hour, "")

	assert.Equal(t, int64(3), w.RunOnce())
	assert.Equal(t, []time.Duration{48 * time.Hour}, f.ages)
	assert.Equal(t, DefaultAutoCloseSchedule, w.schedule)
}

func TestIssueAutoCloser_RunOnceError(t *testing.T) {
	f := &fakeCloser{closed: 5, err: errors.New("db down")}
	w := NewIssueAutoCloser(f, time.Hour, "@every 1m")

	assert.Equal(t, int64(0), w.RunOnce())
}

type fakeWorker struct {
	name string
	log  *[]string
}

func (f fakeWorker) GetServiceName() string { return f.name }
func (f fakeWorker) StartService()          { *f.log = append(*f.log, "start "+f.name) }
func (f fakeWorker) StopService()           { *f.log = append(*f.log, "stop "+f.name) }

func TestRunner_StartStopOrder(t *testing.T) {
	var log []string
	r := NewRunner(fakeWorker{"a", &log}, fakeWorker{"b", &log})

	r.Start()
	r.Stop()

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}

func TestIssueAutoCloser_StartStop(t *testing.T) {
	w := NewIssueAutoCloser(&fakeCloser{}, time.Hour, "")
	w.StartService()
	w.StopService()
	assert.Equal(t, "IssueAutoCloser", w.GetServiceName())
}
