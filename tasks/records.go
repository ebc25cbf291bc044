package tasks

import (
	"medscribe.io/enrich/redis"
)

const RecordsDB redis.DB = 0

type TaskStatus string

const (
	TaskStatusProcessing       TaskStatus = "processing"
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

func (s TaskStatus) Submitted() bool {
	return s == TaskStatusSubmitted || s == TaskStatusStarted || s == TaskStatusProcessing
}

type RecordTask struct {
	RedisKey          string             `json:"redis_key"`
	JobID             string             `json:"job_id"`
	ExtractionFileKey string             `json:"extraction_file_key"`
	TaskStatuses      RecordTaskStatuses `json:"task_statuses"`
}

type RecordTaskStatuses struct {
	Enrich TaskInfo `json:"enrich"`
}

type TaskInfo struct {
	ResultsFileKey string     `json:"results_file_key"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	Attempts       int        `json:"attempts"`
	Status         TaskStatus `json:"status"`
	ErrorMessages  []string   `json:"error_messages"`
}

type RecordTasks struct {
	client redis.Client
}

func (tasks RecordTasks) Get(redisKey string) (*RecordTask, error) {
	var task RecordTask
	err := tasks.client.GetDocument(redisKey, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks RecordTasks) Update(redisKey string, updateFunc func(task *RecordTask)) error {
	var task RecordTask
	return tasks.client.UpdateDocument(redisKey, &task, func() {
		updateFunc(&task)
	})
}
