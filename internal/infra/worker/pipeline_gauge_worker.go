package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/infra/http/middleware"
	"github.com/xavierca1/hecms/internal/usecase"
)

// CountSource reports the current pipeline totals.
type CountSource interface {
	PipelineCounts() usecase.PipelineCounts
}

// PipelineGaugeWorker copies the pipeline counts into the leads_by_stage
// and leads_by_temperature gauges on every tick.
type PipelineGaugeWorker struct {
	source       CountSource
	tickInterval time.Duration
	set          func(counts usecase.PipelineCounts)
}

func NewPipelineGaugeWorker(source CountSource, interval time.Duration) *PipelineGaugeWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PipelineGaugeWorker{
		source:       source,
		tickInterval: interval,
		set:          publishGauges,
	}
}

func (w *PipelineGaugeWorker) Start(ctx context.Context) {
	log.Printf("[GAUGES] pipeline gauge worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh()

	for {
		select {
		case <-ctx.Done():
			log.Println("[GAUGES] pipeline gauge worker stopped")
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *PipelineGaugeWorker) refresh() {
	w.set(w.source.PipelineCounts())
}

func publishGauges(counts usecase.PipelineCounts) {
	for _, s := range entity.Stages {
		middleware.SetLeadsByStage(string(s), counts.ByStage[s])
	}
	for _, t := range entity.Temperatures {
		middleware.SetLeadsByTemperature(string(t), counts.ByTemperature[t])
	}
}
