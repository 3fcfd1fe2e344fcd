package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Popov85/challenge-graph/internal/engine"
	"github.com/Popov85/challenge-graph/internal/graph"
)

// okBody is the apply success response.
const okBody = "Ok"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// ComponentResponse is the body of GET /task/components/:node.
type ComponentResponse struct {
	Node    string   `json:"node"`
	Members []string `json:"members"`
}

// HandleListConnections returns every connection sorted by (connectFrom, connectTo).
func HandleListConnections(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Connections())
	}
}

// HandleApply connects the path node to every node in the JSON array body.
//
// Entries may be null; null and "" are both dropped before validation.
// The body is decoded with encoding/json rather than ShouldBindJSON so no
// struct validator runs over the nullable entries.
func HandleApply(svc Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		anchor := c.Param("connectFrom")

		var raw []*string
		if err := json.NewDecoder(c.Request.Body).Decode(&raw); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "BAD_REQUEST",
				Reason:  "malformed_body",
				Message: "body must be a JSON array of node names",
			})
			return
		}

		targets := make([]string, len(raw))
		for i, t := range raw {
			if t != nil {
				targets[i] = *t
			}
		}

		logger.Debug("apply request",
			"request", engine.RequestIDFrom(c.Request.Context()),
			"connect_from", anchor,
			"targets", len(targets),
		)

		if _, err := svc.Apply(c.Request.Context(), anchor, targets); err != nil {
			writeError(c, err)
			return
		}
		c.String(http.StatusOK, okBody)
	}
}

// HandleComponent returns the sorted component of a known node, 404 otherwise.
func HandleComponent(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		node := c.Param("node")
		members, ok := svc.Component(node)
		if !ok {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    "NOT_FOUND",
				Message: "unknown node " + node,
			})
			return
		}
		c.JSON(http.StatusOK, ComponentResponse{Node: node, Members: members})
	}
}

// HandleStats returns node, connection and component counts.
func HandleStats(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Stats())
	}
}

// HandleHealth reports liveness.
func HandleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func writeError(c *gin.Context, err error) {
	var ve *graph.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    string(ve.Code),
			Reason:  string(ve.Reason),
			Message: ve.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL",
		Message: "internal error",
	})
}
