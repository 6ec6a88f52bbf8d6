// Package server exposes a running simulation over HTTP and websockets.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/stat"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/sim"
	"github.com/mindurka/overdrive/storage"
	"github.com/mindurka/overdrive/systems"
	"github.com/mindurka/overdrive/telemetry"
)

// Simulation is the part of sim.Sim the server drives. Reads go through
// published snapshots; writes are queued onto the simulation goroutine.
type Simulation interface {
	Latest() *telemetry.Snapshot
	Enqueue(fn func(*sim.Sim))
}

// Status summarises the latest snapshot.
type Status struct {
	Map                   string               `json:"map"`
	Gamemode              string               `json:"gamemode"`
	Tick                  int32                `json:"tick"`
	OverdriveIgnoresCheat bool                 `json:"overdrive_ignores_cheat"`
	Buildings             int                  `json:"buildings"`
	Projectors            int                  `json:"projectors"`
	ProjectorEffMean      float64              `json:"projector_eff_mean"`
	Graphs                []systems.GraphStats `json:"graphs"`
	Clients               int                  `json:"clients"`
}

// Settings is the session settings payload.
type Settings struct {
	Gamemode              string `json:"gamemode"`
	OverdriveIgnoresCheat bool   `json:"overdrive_ignores_cheat"`
}

// toggle is the body of every boolean POST endpoint.
type toggle struct {
	Value *bool `json:"value" binding:"required"`
}

// Server routes HTTP requests to a simulation.
type Server struct {
	sim         Simulation
	store       *storage.Store
	broadcaster *Broadcaster
	engine      *gin.Engine
}

// New creates a server. store may be nil, in which case the run history
// endpoints are not registered.
func New(s Simulation, store *storage.Store, b *Broadcaster) *Server {
	srv := &Server{
		sim:         s,
		store:       store,
		broadcaster: b,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api")
	api.GET("/status", srv.status)
	api.GET("/settings", srv.settings)
	api.POST("/settings/overdrive-ignores-cheat", srv.setOverdriveIgnoresCheat)
	api.POST("/teams/:team/cheat", srv.setTeamCheat)
	api.GET("/buildings", srv.buildings)
	api.GET("/buildings/:id", srv.building)
	api.POST("/buildings/:id/enabled", srv.setEnabled)
	api.POST("/pause", srv.togglePause)

	if store != nil {
		api.GET("/runs", srv.runs)
		api.GET("/runs/:id/windows", srv.windows)
	}

	if b != nil {
		r.GET("/ws", b.Handle())
	}

	srv.engine = r
	return srv
}

// Handler returns the HTTP handler.
func (srv *Server) Handler() http.Handler {
	return srv.engine
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (srv *Server) status(c *gin.Context) {
	snap := srv.sim.Latest()
	projectors := snap.Projectors()

	st := Status{
		Map:                   snap.Map,
		Gamemode:              snap.Gamemode,
		Tick:                  snap.Tick,
		OverdriveIgnoresCheat: snap.OverdriveIgnoresCheat,
		Buildings:             len(snap.Buildings),
		Projectors:            len(projectors),
		Graphs:                snap.Graphs,
	}
	if len(projectors) > 0 {
		st.ProjectorEffMean = stat.Mean(projectors, nil)
	}
	if srv.broadcaster != nil {
		st.Clients = srv.broadcaster.Clients()
	}
	c.JSON(http.StatusOK, st)
}

func (srv *Server) settings(c *gin.Context) {
	snap := srv.sim.Latest()
	c.JSON(http.StatusOK, Settings{
		Gamemode:              snap.Gamemode,
		OverdriveIgnoresCheat: snap.OverdriveIgnoresCheat,
	})
}

func (srv *Server) setOverdriveIgnoresCheat(c *gin.Context) {
	var body toggle
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	srv.apply(c, Command{Action: ActionSetOverdriveIgnoresCheat, Value: *body.Value})
}

func (srv *Server) setTeamCheat(c *gin.Context) {
	team, err := strconv.ParseUint(c.Param("team"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team"})
		return
	}
	var body toggle
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	srv.apply(c, Command{Action: ActionSetTeamCheat, Team: components.TeamID(team), Value: *body.Value})
}

func (srv *Server) setEnabled(c *gin.Context) {
	id, ok := srv.buildingID(c)
	if !ok {
		return
	}
	var body toggle
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	srv.apply(c, Command{Action: ActionSetEnabled, ID: id, Value: *body.Value})
}

func (srv *Server) togglePause(c *gin.Context) {
	srv.apply(c, Command{Action: ActionTogglePause})
}

// apply queues a command. It takes effect before the next update, so the
// response is 202 rather than the new state.
func (srv *Server) apply(c *gin.Context, cmd Command) {
	if err := cmd.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	srv.sim.Enqueue(cmd.Apply)
	c.JSON(http.StatusAccepted, cmd)
}

func (srv *Server) buildings(c *gin.Context) {
	snap := srv.sim.Latest()
	kind := c.Query("kind")
	if kind == "" {
		c.JSON(http.StatusOK, snap.Buildings)
		return
	}
	out := make([]telemetry.BuildingState, 0)
	for _, b := range snap.Buildings {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (srv *Server) building(c *gin.Context) {
	id, ok := srv.buildingID(c)
	if !ok {
		return
	}
	for _, b := range srv.sim.Latest().Buildings {
		if b.ID == id {
			c.JSON(http.StatusOK, b)
			return
		}
	}
}

// buildingID parses the :id parameter and checks it against the latest
// snapshot. It writes the error response itself.
func (srv *Server) buildingID(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid building id"})
		return 0, false
	}
	for _, b := range srv.sim.Latest().Buildings {
		if b.ID == uint32(id) {
			return uint32(id), true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": sim.ErrUnknownBuilding.Error()})
	return 0, false
}

func (srv *Server) runs(c *gin.Context) {
	runs, err := srv.store.Runs(c.Request.Context())
	if err != nil {
		slog.Error("listing runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing runs failed"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (srv *Server) windows(c *gin.Context) {
	runID := c.Param("id")
	if _, err := srv.store.Run(c.Request.Context(), runID); err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		slog.Error("loading run", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "loading run failed"})
		return
	}
	windows, err := srv.store.Windows(c.Request.Context(), runID)
	if err != nil {
		slog.Error("listing windows", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing windows failed"})
		return
	}
	c.JSON(http.StatusOK, windows)
}
