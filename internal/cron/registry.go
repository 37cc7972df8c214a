package cron

import "context"

// Job is a unit of scheduled maintenance work. Names appear in logs and
// metric labels, so they stay short and stable.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes each cycle, in registration
// order.
type Registry struct {
	jobs []Job
}

// NewRegistry builds a registry preloaded with the provided jobs. Nil
// entries are ignored.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	registry.Register(jobs...)
	return registry
}

// Register appends jobs to the run order.
func (r *Registry) Register(jobs ...Job) {
	for _, job := range jobs {
		if job == nil {
			continue
		}
		r.jobs = append(r.jobs, job)
	}
}

// Jobs returns a copy of the registered jobs in run order.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
