package pipeline

import (
	"medscribe.io/enrich/dedup"
	"medscribe.io/enrich/linker"
	"medscribe.io/enrich/logger"
	"medscribe.io/enrich/marker"
	"medscribe.io/enrich/terminology"
	"medscribe.io/enrich/types"
	"medscribe.io/enrich/validate"
)

type Params struct {
	ResourcePath string `json:"resource_path"`
}

type Pipeline func(request Request) <-chan string

// New loads the terminology tables once and returns the record enrichment
// pipeline. A table load failure is fatal to startup, never deferred to
// request time.
func New(params Params) (Pipeline, error) {
	enrichLogger := logger.NewLogger("Enrichment pipeline")
	errLogger := enrichLogger.With().Caller().Logger()
	enrichLogger.Info().
		Interface("params", params).
		Msg("Starting enrichment pipeline (see parameters in 'params' field)")

	tables, err := terminology.Load(params.ResourcePath)
	if err != nil {
		errLogger.Err(err).
			Str("resource_path", params.ResourcePath).
			Msg("Failed to load terminology tables")
		return nil, err
	}

	return func(request Request) <-chan string {
		responseChan := make(chan string)
		pplnLog := enrichLogger.With().Str("tid", request.Tid).Logger()
		pplnLog.Info().Msg("Started record enrichment")
		reqErrLogger := pplnLog.With().Caller().Logger()

		go func() {
			rec := types.ParseRecord([]byte(request.Payload))
			Enrich(rec, tables)

			buf, err := rec.Encode()
			if err != nil {
				reqErrLogger.Err(err).Str("tid", request.Tid).Msg("Failed to marshall enriched record")
			}
			pplnLog.Info().
				Int("audit_notes", len(rec.Audit)).
				Msg("Finished record enrichment")
			responseChan <- string(buf)
		}()

		return responseChan
	}, nil
}

// Enrich runs the stages in dependency order: structure has to be recovered
// and cleaned before the coding stages see it, and conditions have to be
// coded before orders can be linked against them. Audit notes from a previous
// run are replaced with this run's notes, so a record can safely be enriched
// again without the trail growing.
func Enrich(rec *types.ClinicalRecord, tables *terminology.Tables) {
	rec.TagOrderKinds()
	marker.Extract(rec)

	var notes []types.AuditNote
	notes = append(notes, validate.Apply(rec)...)
	notes = append(notes, dedup.Apply(rec)...)
	notes = append(notes, tables.CodeConditions(rec.Conditions)...)
	notes = append(notes, tables.VerifyMedications(rec)...)
	linker.Link(rec, tables)

	rec.Audit = notes
}
