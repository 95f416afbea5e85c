package wsocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"seo_content_automation_backend/internal/broker"
	"seo_content_automation_backend/internal/models"
	"seo_content_automation_backend/internal/services"

	"github.com/gorilla/websocket"
)

// Handler pushes generation-job progress to a connected client.
type Handler struct {
	workflowService *services.WorkflowService
	upgrader        websocket.Upgrader
	pollInterval    time.Duration
}

type Message struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	JobID   string `json:"jobId"`
}

func NewHandler(workflowService *services.WorkflowService, upgrader websocket.Upgrader, pollInterval time.Duration) *Handler {
	return &Handler{
		workflowService: workflowService,
		upgrader:        upgrader,
		pollInterval:    pollInterval,
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request, user interface{}, messageBroker *broker.Broker) {
	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		http.Error(w, "No jobId provided", http.StatusBadRequest)
		return
	}

	job, err := h.workflowService.GetJob(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if userModel, ok := user.(*models.User); !ok || job.UserID != userModel.ID {
		http.Error(w, "Job belongs to another user", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading connection: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	progressChan := messageBroker.Subscribe(services.JobTopic(jobID))
	defer messageBroker.Unsubscribe(services.JobTopic(jobID), progressChan)

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-progressChan:
				if !ok {
					return
				}
				event, ok := msg.(broker.ProgressEvent)
				if !ok {
					continue
				}
				eventJSON, err := json.Marshal(event)
				if err != nil {
					log.Printf("Error marshaling progress event: %v", err)
					continue
				}
				if err := conn.WriteJSON(Message{
					Type:    "progress",
					Content: string(eventJSON),
					JobID:   jobID,
				}); err != nil {
					log.Printf("Error sending progress event: %v", err)
					return
				}
				if event.Stage == "complete" || event.Stage == "failed" {
					return
				}
			case <-ticker.C:
				// Poll as a fallback for clients that connected after the
				// last event was published.
				if err := h.sendJobStatus(conn, jobID); err != nil {
					log.Printf("Error sending job status: %v", err)
					return
				}
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		switch msg.Type {
		case "get_status":
			if err := h.sendJobStatus(conn, jobID); err != nil {
				log.Printf("Error sending job status: %v", err)
			}
		case "close":
			return
		default:
			log.Printf("Unknown message type: %s", msg.Type)
		}
	}
}

func (h *Handler) sendJobStatus(conn *websocket.Conn, jobID string) error {
	job, err := h.workflowService.GetJob(jobID)
	if err != nil {
		return conn.WriteJSON(Message{Type: "error", Content: "Failed to get job status", JobID: jobID})
	}

	statusJSON, _ := json.Marshal(map[string]interface{}{
		"status":     job.Status,
		"error":      job.ErrorMessage,
		"article_id": job.ArticleID,
	})
	return conn.WriteJSON(Message{
		Type:    "job_status",
		Content: string(statusJSON),
		JobID:   jobID,
	})
}
