package domain

// LifecycleState — состояние экземпляра консьюмера.
// created → running → shutting_down → terminated.
type LifecycleState string

const (
	StateCreated      LifecycleState = "created"
	StateRunning      LifecycleState = "running"
	StateShuttingDown LifecycleState = "shutting_down"
	StateTerminated   LifecycleState = "terminated"
)
