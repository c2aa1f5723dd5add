package mq

import "time"

// Routing keys for the lifecycle events consumers (notification fanout,
// activity feeds) bind to on the topic exchange.
const (
	RoutingProjectCreated = "project.created"
	RoutingProjectDeleted = "project.deleted"
	RoutingTaskCreated    = "task.created"
	RoutingTaskUpdated    = "task.updated"
	RoutingTaskCompleted  = "task.completed"
	RoutingTaskDeleted    = "task.deleted"
)

type ProjectEvent struct {
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Occurred  time.Time `json:"occurred"`
}

type TaskEvent struct {
	TaskID    string    `json:"task_id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	TaskType  string    `json:"task_type"`
	Status    string    `json:"status"`
	Actor     string    `json:"actor"`
	Occurred  time.Time `json:"occurred"`
}
