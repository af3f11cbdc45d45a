package workers

import "marketplace/pkg/logger"

type WorkerService interface {
	GetServiceName() string
	StartService()
	StopService()
}

// Runner starts and stops background workers alongside the HTTP server.
type Runner struct {
	workers []WorkerService
}

func NewRunner(workers ...WorkerService) *Runner {
	return &Runner{workers: workers}
}

func (r *Runner) Start() {
	for _, w := range r.workers {
		logger.Default().Infof("Starting %s WorkerService", w.GetServiceName())
		w.StartService()
	}
}

func (r *Runner) Stop() {
	for i := len(r.workers) - 1; i >= 0; i-- {
		logger.Default().Infof("Stopping %s WorkerService", r.workers[i].GetServiceName())
		r.workers[i].StopService()
	}
}
