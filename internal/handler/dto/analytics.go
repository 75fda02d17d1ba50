package dto

import (
	"time"

	"github.com/waylink/waylink/internal/model"
)

// EventResponse represents one analytics event in API responses.
type EventResponse struct {
	ID           string            `json:"id"`
	Timestamp    time.Time         `json:"timestamp"`
	URL          string            `json:"url"`
	Path         string            `json:"path,omitempty"`
	QueryParams  map[string]string `json:"query_params,omitempty"`
	Handler      string            `json:"handler,omitempty"`
	IsValid      bool              `json:"is_valid"`
	ErrorMessage string            `json:"error_message,omitempty"`
	NavTimeMs    *float64          `json:"nav_time_ms,omitempty"`
	Source       string            `json:"source"`
}

// EventListResponse lists analytics events.
type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

// StatsResponse aggregates the analytics log.
type StatsResponse struct {
	Total        int            `json:"total"`
	Valid        int            `json:"valid"`
	Invalid      int            `json:"invalid"`
	AvgNavTimeMs float64        `json:"avg_nav_time_ms"`
	ByHandler    map[string]int `json:"by_handler"`
	BySource     map[string]int `json:"by_source"`
}

// ToEventResponse converts a DeepLinkEvent to its response DTO.
func ToEventResponse(e model.DeepLinkEvent) EventResponse {
	resp := EventResponse{
		ID:           e.ID,
		Timestamp:    e.Timestamp,
		URL:          e.URL,
		Path:         e.Path,
		QueryParams:  e.QueryParams,
		Handler:      e.Handler.String(),
		IsValid:      e.IsValid,
		ErrorMessage: e.ErrorMessage,
		Source:       string(e.Source),
	}
	if e.NavTime != nil {
		ms := durationMs(*e.NavTime)
		resp.NavTimeMs = &ms
	}
	return resp
}

// ToEventListResponse converts a slice of events to a list response.
func ToEventListResponse(events []model.DeepLinkEvent) *EventListResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, ToEventResponse(e))
	}
	return &EventListResponse{
		Events: responses,
		Count:  len(responses),
	}
}

// ToStatsResponse converts DeepLinkStats to its response DTO.
func ToStatsResponse(s model.DeepLinkStats) *StatsResponse {
	byHandler := make(map[string]int, len(s.ByHandler))
	for handler, count := range s.ByHandler {
		byHandler[handler.String()] = count
	}
	bySource := make(map[string]int, len(s.BySource))
	for source, count := range s.BySource {
		bySource[string(source)] = count
	}
	return &StatsResponse{
		Total:        s.Total,
		Valid:        s.Valid,
		Invalid:      s.Invalid,
		AvgNavTimeMs: durationMs(s.AvgNavTime),
		ByHandler:    byHandler,
		BySource:     bySource,
	}
}
