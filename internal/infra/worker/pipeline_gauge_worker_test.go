package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/usecase"
)

type MockCountSource struct {
	mock.Mock
}

func (m *MockCountSource) PipelineCounts() usecase.PipelineCounts {
	args := m.Called()
	return args.Get(0).(usecase.PipelineCounts)
}

func TestPipelineGaugeWorkerRefreshesUntilCancelled(t *testing.T) {
	counts := usecase.PipelineCounts{
		Total:         2,
		ByStage:       map[entity.Stage]int{entity.StageApplied: 2},
		ByTemperature: map[entity.Temperature]int{entity.TemperatureHot: 1, entity.TemperatureCold: 1},
	}
	source := new(MockCountSource)
	source.On("PipelineCounts").Return(counts)

	var mu sync.Mutex
	var seen []usecase.PipelineCounts
	w := NewPipelineGaugeWorker(source, 10*time.Millisecond)
	w.set = func(c usecase.PipelineCounts) {
		mu.Lock()
		seen = append(seen, c)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	mu.Lock()
	assert.Equal(t, counts, seen[0])
	mu.Unlock()
}

func TestNewPipelineGaugeWorkerDefaultsInterval(t *testing.T) {
	w := NewPipelineGaugeWorker(new(MockCountSource), 0)
	assert.Equal(t, time.Minute, w.tickInterval)
}

func TestPublishGaugesAcceptsEmptyCounts(t *testing.T) {
	assert.NotPanics(t, func() {
		publishGauges(usecase.PipelineCounts{})
	})
}
