package modules

import (
	"context"
	"encoding/json"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/service"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type CorrelationListenerConfig struct {
	Name string
}

// CorrelationListener reacts to completed ingestion passes by running an
// event pass right away, instead of waiting for the next scheduled one.
// The scheduled event pass still runs on its own cadence as a catch-all.
type CorrelationListener struct {
	Config CorrelationListenerConfig

	Service *service.PipelineService

	EventBus *gochannel.GoChannel
}

func NewCorrelationListener(config CorrelationListenerConfig, svc *service.PipelineService, e *gochannel.GoChannel) *CorrelationListener {
	return &CorrelationListener{
		Config:   config,
		Service:  svc,
		EventBus: e,
	}
}

func (l *CorrelationListener) RunModule(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := l.EventBus.Subscribe(ctx, service.TopicIngestionCompleted)
	if err != nil {
		return err
	}

	for msg := range messages {
		msg.Ack()

		var completed service.IngestionCompletedMessage
		if err := json.Unmarshal(msg.Payload, &completed); err != nil {
			Log.Errorf("malformed ingestion completed message: %v", err)
			continue
		}

		Log.Infof("ingestion produced %d new articles, running event pass", completed.NewArticles)
		created, linked, err := l.Service.RunEventPass()
		if err != nil {
			Log.Errorf("event pass after ingestion failed: %v", err)
			continue
		}
		Log.Infof("event pass done: %d events created, %d articles linked", created, linked)
	}

	return nil
}

func (l *CorrelationListener) Name() string {
	return l.Config.Name
}

func (l *CorrelationListener) Shutdown() {}
