package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/listenlabs/swapindexer-engine/internal/engine"
	"github.com/listenlabs/swapindexer-engine/internal/pipeline"
)

// APIHandler is a thin Gin surface over the engine's control channel:
// every mutation is a Command sent to the engine's goroutine and
// waited on via its Reply channel, so no pipeline state is ever
// touched outside the engine's own locking discipline.
type APIHandler struct {
	commands chan<- engine.Command
	wsHub    *Hub
}

func SetupRouter(commands chan<- engine.Command, wsHub *Hub) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{commands: commands, wsHub: wsHub}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	auth.Use(NewRateLimiter(60, 10).Middleware())
	{
		pl := auth.Group("/pipelines")
		{
			pl.POST("", handler.handleAddPipeline)
			pl.GET("/:id", handler.handleGetPipeline)
			pl.DELETE("/:id", handler.handleDeletePipeline)
		}
	}

	return r
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "swap-indexer-engine",
	})
}

// handleAddPipeline accepts a fully-formed pipeline graph and hands it
// to the engine's control channel.
func (h *APIHandler) handleAddPipeline(c *gin.Context) {
	var p pipeline.Pipeline
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pipeline body", "details": err.Error()})
		return
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = pipeline.StatusPending
	}

	reply := make(chan engine.Result, 1)
	h.commands <- engine.AddPipeline{Pipeline: &p, Reply: reply}
	result := <-reply
	if result.Err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result.Pipeline)
}

func (h *APIHandler) handleGetPipeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pipeline id"})
		return
	}
	userID := c.GetHeader("X-User-Id")

	reply := make(chan engine.Result, 1)
	h.commands <- engine.GetPipeline{UserID: userID, PipelineID: id, Reply: reply}
	result := <-reply
	if result.Err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": result.Err.Error()})
		return
	}
	c.JSON(http.StatusOK, result.Pipeline)
}

func (h *APIHandler) handleDeletePipeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pipeline id"})
		return
	}
	userID := c.GetHeader("X-User-Id")

	reply := make(chan engine.Result, 1)
	h.commands <- engine.DeletePipeline{UserID: userID, PipelineID: id, Reply: reply}
	result := <-reply
	if result.Err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
