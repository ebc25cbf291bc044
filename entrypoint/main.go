package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"medscribe.io/enrich/api"
	"medscribe.io/enrich/logger"
	"medscribe.io/enrich/pipeline"
	"medscribe.io/enrich/worker"
)

type Config struct {
	ResourcePath  string `envconfig:"ENRICH_RESOURCE_PATH" required:"true"`
	RestAPIActive bool   `envconfig:"ENRICH_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"ENRICH_REST_API_PORT" default:"10000"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")
	fatalErrLogger := mainLogger.Fatal().Caller()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	//Load Pipeline
	pipelineChannel := make(chan pipeline.Pipeline)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			mainLogger.Info().Msg("Starting pipeline loading")
			pipelineParams := pipeline.Params{ResourcePath: config.ResourcePath}
			ppln, err := pipeline.New(pipelineParams)
			if err != nil {
				mainLogger.Err(err).Msg("Failed to start enrichment pipeline. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			mainLogger.Info().Msg("Pipeline loaded")
			pipelineChannel <- ppln
			return
		}
		fatalErrLogger.Msg("Could not start pipeline after 5 retries, exiting")
		os.Exit(1)
	}()

	// block until pipeline loads
	ppln := <-pipelineChannel

	if config.RestAPIActive {
		go func() {
			mainLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline: ppln,
			}
			http.HandleFunc("/", apiRequest.ProcessData)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			mainLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	mainLogger.Info().Msg("Start Enrich Worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			mainLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}
