package types

import "fmt"

// TaskType represents the kind of work a task asks of a department
type TaskType string

const (
	TaskTypeReview        TaskType = "REVIEW"
	TaskTypeApproval      TaskType = "APPROVAL"
	TaskTypeCoordination  TaskType = "COORDINATION"
	TaskTypeVerification  TaskType = "VERIFICATION"
	TaskTypeNotification  TaskType = "NOTIFICATION"
	TaskTypeDocumentation TaskType = "DOCUMENTATION"
)

// AllTaskTypes returns all valid task types
func AllTaskTypes() []TaskType {
	return []TaskType{
		TaskTypeReview,
		TaskTypeApproval,
		TaskTypeCoordination,
		TaskTypeVerification,
		TaskTypeNotification,
		TaskTypeDocumentation,
	}
}

// IsValid checks if the task type is valid
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeReview,
		TaskTypeApproval,
		TaskTypeCoordination,
		TaskTypeVerification,
		TaskTypeNotification,
		TaskTypeDocumentation:
		return true
	default:
		return false
	}
}

// Normalize returns the type, treating empty as TaskTypeReview.
func (t TaskType) Normalize() TaskType {
	if t == "" {
		return TaskTypeReview
	}
	return t
}

// String returns the string representation of the task type
func (t TaskType) String() string {
	return string(t)
}

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// AllTaskPriorities returns all valid task priorities
func AllTaskPriorities() []TaskPriority {
	return []TaskPriority{
		TaskPriorityLow,
		TaskPriorityMedium,
		TaskPriorityHigh,
		TaskPriorityUrgent,
	}
}

// IsValid checks if the task priority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow,
		TaskPriorityMedium,
		TaskPriorityHigh,
		TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// Normalize returns the priority, treating empty as TaskPriorityMedium.
func (p TaskPriority) Normalize() TaskPriority {
	if p == "" {
		return TaskPriorityMedium
	}
	return p
}

// Weight returns a numeric weight for sorting (higher = more urgent)
func (p TaskPriority) Weight() int {
	switch p {
	case TaskPriorityUrgent:
		return 4
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the task priority
func (p TaskPriority) String() string {
	return string(p)
}

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// AllTaskStatuses returns all valid task statuses
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusCompleted,
		TaskStatusCancelled,
		TaskStatusBlocked,
	}
}

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusCompleted,
		TaskStatusCancelled,
		TaskStatusBlocked:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the task still blocks dependents
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusBlocked
}

// String returns the string representation of the task status
func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus parses a string into a TaskStatus
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return status, nil
}
