package tasks

import "context"

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing.
// Start launches the worker pool and the periodic dataset scan; RunOnce
// drains the full pipeline synchronously for one-shot batch runs.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	RunOnce(ctx context.Context) error
}
