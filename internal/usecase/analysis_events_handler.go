package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	applogger "MarketDash/pkg/logger"
)

// AnalysisEvent is published by the workflow engine when a run is stored.
type AnalysisEvent struct {
	AnalysisID string `json:"analysis_id"`
	Timestamp  string `json:"timestamp"`
	Action     string `json:"action"`
}

// AnalysisEventsHandler refreshes the monitor when the workflow engine
// reports a completed analysis.
type AnalysisEventsHandler struct {
	topic   string
	monitor *DivergenceMonitor
	log     *applogger.Logger
}

func NewAnalysisEventsHandler(topic string, monitor *DivergenceMonitor, log *applogger.Logger) *AnalysisEventsHandler {
	if log == nil {
		log = applogger.Nop()
	}
	return &AnalysisEventsHandler{topic: topic, monitor: monitor, log: log}
}

func (h *AnalysisEventsHandler) Topic() string { return h.topic }

func (h *AnalysisEventsHandler) Handle(ctx context.Context, b []byte) error {
	var ev AnalysisEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		return fmt.Errorf("decode analysis event: %w", err)
	}

	update, fresh, err := h.monitor.Refresh(ctx)
	if err != nil {
		return err
	}
	if fresh {
		h.log.Info("analysis event evaluated",
			applogger.String("event_id", ev.AnalysisID),
			applogger.String("analysis_id", update.AnalysisID),
		)
	} else {
		h.log.Debug("analysis event without new run", applogger.String("event_id", ev.AnalysisID))
	}
	return nil
}
