package goJobStats

import "context"

type workerIDContextKey struct{}
type jobIDContextKey struct{}

// WithWorkerID attaches the executing worker's identifier to ctx. The
// Tracker copies it into emitted events so sinks can attribute failures
// to a worker.
func WithWorkerID(ctx context.Context, workerID string) context.Context {
	return context.WithValue(ctx, workerIDContextKey{}, workerID)
}

// WithJobID attaches the job instance identifier to ctx for event
// attribution. The tracker itself never keys any aggregate on it; only
// the class name participates in bucket fields.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDContextKey{}, jobID)
}

func workerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	workerID, _ := ctx.Value(workerIDContextKey{}).(string)
	return workerID
}

func jobIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	jobID, _ := ctx.Value(jobIDContextKey{}).(string)
	return jobID
}
