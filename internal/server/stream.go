package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/sant0-9/healthiq/internal/pipeline"
	"github.com/sant0-9/healthiq/internal/reveal"
	"github.com/sant0-9/healthiq/internal/topic"
)

type streamEvent struct {
	name    string
	Topic   string `json:"topic"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// streamSink queues reveal events for one SSE response. Sends give up once
// the response is gone so a tick never blocks the scheduler forever.
type streamSink struct {
	events chan streamEvent
	done   chan struct{}
	once   sync.Once
}

func newStreamSink(buffer int) *streamSink {
	return &streamSink{
		events: make(chan streamEvent, buffer),
		done:   make(chan struct{}),
	}
}

func (s *streamSink) send(e streamEvent) {
	select {
	case s.events <- e:
	case <-s.done:
	}
}

func (s *streamSink) close() {
	s.once.Do(func() { close(s.done) })
}

func (s *streamSink) OnCharacter(topic, partial string) {
	s.send(streamEvent{name: "character", Topic: topic, Text: partial})
}

func (s *streamSink) OnLineComplete(topic, line string) {
	s.send(streamEvent{name: "line", Topic: topic, Text: line})
}

func (s *streamSink) OnSessionComplete(topic string) {
	s.send(streamEvent{name: "complete", Topic: topic})
}

func (s *streamSink) OnError(topic, message string) {
	s.send(streamEvent{name: "error", Topic: topic, Message: message})
}

// Stream handles GET /api/recommendation/stream?profileId=&topic= and plays
// the reveal of one topic as Server-Sent Events.
func (h *RecommendationHandler) Stream(c *gin.Context) {
	if h.recommender == nil {
		RespondError(c, http.StatusInternalServerError, "generator_unavailable", pipeline.ErrNoGenerator)
		return
	}

	profileID := strings.TrimSpace(c.Query("profileId"))
	if profileID == "" {
		profileID = strings.TrimSpace(c.Query("userId"))
	}
	if profileID == "" {
		RespondError(c, http.StatusBadRequest, "missing_profile_id", pipeline.ErrMissingProfileID)
		return
	}
	t, ok := topic.Lookup(c.Query("topic"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "unknown_topic", fmt.Errorf("unknown topic %q", c.Query("topic")))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", fmt.Errorf("streaming unsupported"))
		return
	}

	ctx := c.Request.Context()
	sink := newStreamSink(64)
	sched := reveal.NewScheduler(h.clock, h.interval, sink)
	ctrl := pipeline.NewController(h.recommender, sched, h.filter, h.log)
	// sink first: a tick blocked on a full buffer must be released before
	// the controller cancels the scheduler
	defer ctrl.Close()
	defer sink.close()

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctrl.SelectTopic(ctx, profileID, t)

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("stream client gone", "topic", t.Name, "error", ctx.Err())
			return
		case e := <-sink.events:
			data, err := json.Marshal(e)
			if err != nil {
				h.log.Warn("failed to marshal stream event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.name, data)
			flusher.Flush()
			if e.name == "complete" || e.name == "error" {
				return
			}
		}
	}
}
