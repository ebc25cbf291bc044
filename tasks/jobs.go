package tasks

import (
	"medscribe.io/enrich/redis"
)

const JobsDB redis.DB = 1

type JobTask struct {
	JobID        string `json:"job_id"`
	UserCanceled bool   `json:"user_canceled"`
}

type JobTasks struct {
	client redis.Client
}

func (tasks JobTasks) GetCached(redisKey string) (*JobTask, error) {
	var task JobTask
	key := cachedPropertiesKey(redisKey)
	err := tasks.client.GetDocument(key, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
