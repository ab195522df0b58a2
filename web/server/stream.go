package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/output"
	"github.com/df07/go-weekend-pathtracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string
	Data string
}

// CompleteEvent is the payload of the final "complete" event
type CompleteEvent struct {
	ImageData string `json:"imageData"` // Base64-encoded PNG
	Stats     Stats  `json:"stats"`
}

// handleRenderStream renders a scene while streaming log lines via SSE,
// finishing with a "complete" event carrying the PNG or an "error" event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()

	// All writes to w happen on the writer goroutine
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()

	consoleChan, logger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	img, stats, renderErr := s.renderScene(r, sceneObj, req, logger)

	// Drain pending log lines before the final event
	close(consoleChan)
	<-consoleDone

	if renderErr != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: renderErr.Error()})
	} else if data, err := s.completeEventData(img, stats); err != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: err.Error()})
	} else {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: data})
	}

	close(sseEventChan)
	<-writerDone
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// writeSSEEvents writes queued events until the channel closes or the client disconnects
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards log lines as "console" events until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			return
		}
	}
}

// sendEvent queues an event unless the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// completeEventData encodes the finished image and stats as the "complete" payload
func (s *Server) completeEventData(img *renderer.Image, stats Stats) (string, error) {
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}

	data, err := json.Marshal(CompleteEvent{ImageData: imageData, Stats: stats})
	if err != nil {
		return "", fmt.Errorf("encoding event: %w", err)
	}
	return string(data), nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
