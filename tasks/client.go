package tasks

import (
	"fmt"

	"medscribe.io/enrich/redis"
)

type Client struct {
	Records RecordTasks
	Jobs    JobTasks
}

// NewClient is a preferred way for working with TaskInfos
func NewClient() (Client, error) {
	recordsRedisClient, err := redis.NewClient(RecordsDB)
	if err != nil {
		return Client{}, err
	}
	jobsRedisClient, err := redis.NewClient(JobsDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Records: RecordTasks{client: recordsRedisClient},
		Jobs:    JobTasks{client: jobsRedisClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Records.client.Close()
	_ = client.Jobs.client.Close()
}

func cachedPropertiesKey(redisKey string) string {
	return fmt.Sprintf("%s-cached-properties", redisKey)
}
