package controllers

import (
	"net/http"

	"github.com/gptx-exchange/gptx-backend/api/responses"
)

const (
	serviceName        = "GPTX Exchange API"
	serviceVersion     = "0.1.0"
	serviceDescription = "Decentralized AI Token Exchange with Carbon Offsetting"
)

type infoResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

// Info describes the service and its top-level endpoint groups.
func Info() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, infoResponse{
			Name:        serviceName,
			Version:     serviceVersion,
			Description: serviceDescription,
			Endpoints: map[string]string{
				"tokens":   "/api/tokens",
				"exchange": "/api/exchange",
				"carbon":   "/api/carbon",
			},
		})
	}
}
