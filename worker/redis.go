package worker

import (
	"fmt"

	"medscribe.io/enrich/tasks"
)

type redisTransactions interface {
	getRecordTask(redisKey string) (*tasks.RecordTask, error)
	getJobTask(task *Task) (*tasks.JobTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	err := wrapper.tasksClient.Records.Update(task.redisKey, func(task *tasks.RecordTask) {
		task.TaskStatuses.Enrich.Status = tasks.TaskStatusStarted
		task.TaskStatuses.Enrich.Attempts += 1
		task.TaskStatuses.Enrich.StartedAt = getFormattedNow()
		task.TaskStatuses.Enrich.CompletedAt = nil
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	err := wrapper.tasksClient.Records.Update(task.redisKey, func(recordTask *tasks.RecordTask) {
		recordTask.TaskStatuses.Enrich.Status = tasks.TaskStatusCanceled
		recordTask.TaskStatuses.Enrich.StartedAt = getFormattedNow()
		recordTask.TaskStatuses.Enrich.CompletedAt = getFormattedNow()
		recordTask.TaskStatuses.Enrich.Attempts += 1
		recordTask.TaskStatuses.Enrich.ErrorMessages = append(
			recordTask.TaskStatuses.Enrich.ErrorMessages,
			errorMessages...,
		)
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	err := wrapper.tasksClient.Records.Update(task.redisKey, func(recordTask *tasks.RecordTask) {
		recordTask.TaskStatuses.Enrich.Status = tasks.TaskStatusCompletedFailure
		recordTask.TaskStatuses.Enrich.StartedAt = getFormattedNow()
		recordTask.TaskStatuses.Enrich.CompletedAt = getFormattedNow()
		recordTask.TaskStatuses.Enrich.Attempts += 1
		recordTask.TaskStatuses.Enrich.ErrorMessages = append(
			recordTask.TaskStatuses.Enrich.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				recordTask.TaskStatuses.Enrich.Attempts,
				maxRetries,
			),
		)
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Records.Update(task.redisKey, func(recordTask *tasks.RecordTask) {
		recordTask.TaskStatuses.Enrich.Status = tasks.TaskStatusFailed
		recordTask.TaskStatuses.Enrich.CompletedAt = getFormattedNow()
		recordTask.TaskStatuses.Enrich.ErrorMessages = append(recordTask.TaskStatuses.Enrich.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Records.Update(task.redisKey, func(recordTask *tasks.RecordTask) {
		if !recordTask.TaskStatuses.Enrich.Status.Complete() {
			recordTask.TaskStatuses.Enrich.Status = tasks.TaskStatusCompletedSuccess
		}
		recordTask.TaskStatuses.Enrich.CompletedAt = getFormattedNow()
		recordTask.TaskStatuses.Enrich.ResultsFileKey = getResultsFileKey(task)
	})
}

func (wrapper *redisClientWrapper) getRecordTask(redisKey string) (*tasks.RecordTask, error) {
	return wrapper.tasksClient.Records.Get(redisKey)
}

func (wrapper *redisClientWrapper) getJobTask(task *Task) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.GetCached(task.recordTask.JobID)
}
