package logger

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
	"github.com/rs/zerolog/log"
)

const (
	defaultDataDogTimeout   = 10 * time.Second
	defaultDataDogBatchSize = 100
	defaultDataDogQueueSize = 1000
	dataDogFlushInterval    = 2 * time.Second
	dataDogSource           = "zerolog"
)

// logSubmitter is the part of datadogV2.LogsApi the sink uses.
type logSubmitter interface {
	SubmitLog(
		ctx context.Context,
		body []datadogV2.HTTPLogItem,
		o ...datadogV2.SubmitLogOptionalParameters,
	) (interface{}, *http.Response, error)
}

// datadogSink ships category log lines to the datadog logs intake. Lines are
// queued and sent in batches by a single goroutine; a full queue drops lines.
type datadogSink struct {
	api       logSubmitter
	ctx       context.Context //nolint:containedctx // carries api keys for every submit
	service   string
	hostname  string
	tags      string
	timeout   time.Duration
	batchSize int

	queue    chan string
	flushReq chan chan struct{}
	done     chan struct{}
	closed   atomic.Bool
	once     sync.Once
}

// newDataDogSink builds a sink from config. It returns ErrDataDogNotConfigured
// if datadog is disabled or has no api key.
func newDataDogSink(cfg DataDog, env string) (*datadogSink, error) {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil, ErrDataDogNotConfigured
	}

	ctx := context.WithValue(
		context.Background(),
		datadog.ContextAPIKeys,
		map[string]datadog.APIKey{
			"apiKeyAuth": {Key: cfg.APIKey},
		},
	)

	if cfg.Site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{"site": cfg.Site})
	}

	api := datadogV2.NewLogsApi(datadog.NewAPIClient(datadog.NewConfiguration()))

	return startDataDogSink(ctx, api, cfg, env), nil
}

func startDataDogSink(ctx context.Context, api logSubmitter, cfg DataDog, env string) *datadogSink {
	hostname, _ := os.Hostname()

	s := &datadogSink{
		api:       api,
		ctx:       ctx,
		service:   cfg.ServiceName,
		hostname:  hostname,
		timeout:   cfg.Timeout,
		batchSize: cfg.BatchSize,
		flushReq:  make(chan chan struct{}),
		done:      make(chan struct{}),
	}

	if env != "" {
		s.tags = "env:" + env
	}

	if s.timeout <= 0 {
		s.timeout = defaultDataDogTimeout
	}

	if s.batchSize <= 0 {
		s.batchSize = defaultDataDogBatchSize
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultDataDogQueueSize
	}

	s.queue = make(chan string, queueSize)

	go s.run()

	return s
}

// Write queues one log line. It never blocks.
func (s *datadogSink) Write(p []byte) (int, error) {
	if s.closed.Load() {
		return len(p), nil
	}

	line := string(bytes.TrimSpace(p))

	select {
	case s.queue <- line:
	default:
		observabilityDropped.Inc()
	}

	return len(p), nil
}

// Flush blocks until everything queued so far was submitted.
func (s *datadogSink) Flush() {
	if s.closed.Load() {
		return
	}

	ack := make(chan struct{})

	select {
	case s.flushReq <- ack:
		<-ack
	case <-s.done:
	}
}

// Close submits the remaining lines and stops the worker.
func (s *datadogSink) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.queue)
		<-s.done
	})

	return nil
}

func (s *datadogSink) run() {
	defer close(s.done)

	ticker := time.NewTicker(dataDogFlushInterval)
	defer ticker.Stop()

	batch := make([]string, 0, s.batchSize)

	for {
		select {
		case line, ok := <-s.queue:
			if !ok {
				s.submit(batch)
				return
			}

			batch = append(batch, line)
			if len(batch) >= s.batchSize {
				s.submit(batch)
				batch = batch[:0]
			}
		case ack := <-s.flushReq:
			batch = s.drain(batch)
			s.submit(batch)
			batch = batch[:0]

			close(ack)
		case <-ticker.C:
			s.submit(batch)
			batch = batch[:0]
		}
	}
}

// drain moves whatever is queued right now into batch.
func (s *datadogSink) drain(batch []string) []string {
	for {
		select {
		case line, ok := <-s.queue:
			if !ok {
				return batch
			}

			batch = append(batch, line)
		default:
			return batch
		}
	}
}

func (s *datadogSink) submit(batch []string) {
	if len(batch) == 0 {
		return
	}

	items := make([]datadogV2.HTTPLogItem, 0, len(batch))
	for _, line := range batch {
		item := datadogV2.HTTPLogItem{
			Message:  line,
			Ddsource: datadog.PtrString(dataDogSource),
		}

		if s.service != "" {
			item.Service = datadog.PtrString(s.service)
		}

		if s.hostname != "" {
			item.Hostname = datadog.PtrString(s.hostname)
		}

		if s.tags != "" {
			item.Ddtags = datadog.PtrString(s.tags)
		}

		items = append(items, item)
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	_, resp, err := s.api.SubmitLog(ctx, items)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		observabilitySubmitFailures.Inc()
		// the global logger never routes to this sink, no feedback loop.
		log.Warn().Err(err).Int("lines", len(items)).Msg("failed to submit log batch to datadog")
	}
}
