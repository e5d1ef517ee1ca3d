package dashboard

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/henrietta/dispatch/internal/filter"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	router.GET("/healthz", handleHealth(opts))
	router.GET("/api/jobs", handleJobs(opts))
	router.GET("/api/purchasing", handlePurchasing(opts))
	router.GET("/api/diagnostics", handleDiagnostics(opts))
	router.POST("/api/refresh", handleRefresh(opts))

	router.GET("/api/jobs/:job/notes", handleListNotes(opts))
	router.POST("/api/jobs/:job/notes", handleAddNote(opts))
	router.DELETE("/api/notes/:id", handleDeleteNote(opts))
}

func handleHealth(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := opts.Store.Current()
		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"loaded": state.Snapshot != nil,
			"stale":  state.Stale,
		})
	}
}

func handleJobs(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, rejected := parseFilters(c)

		var noteCounts map[string]int64
		if opts.Notes != nil {
			counts, err := opts.Notes.Counts()
			if err != nil {
				log.Printf("dashboard: note counts: %v", err)
			} else {
				noteCounts = counts
			}
		}

		resp := BuildJobsView(opts.Store.Current(), f, rejected, noteCounts)
		c.JSON(http.StatusOK, resp)
	}
}

// parseFilters builds Filters from query parameters. An invalid value
// rejects that one filter: it is reported back, never applied, and never
// fails the request.
func parseFilters(c *gin.Context) (filter.Filters, []string) {
	var f filter.Filters
	var rejected []string

	f.Unengineered = c.Query("unengineered") == "1"
	f.InWork = c.Query("in_work") == "1"
	f.CanShip = c.Query("can_ship") == "1"

	esi, err := filter.ParseESI(c.Query("esi"))
	if err != nil {
		rejected = append(rejected, "esi")
	}
	f.ESI = esi

	f.Customer = c.Query("customer")
	f.Substring = c.Query("match") == "contains"

	from, to, err := filter.ParseDateRange(c.Query("due_from"), c.Query("due_to"))
	if err != nil {
		rejected = append(rejected, "due_range")
	} else {
		f.DueFrom = from
		f.DueTo = to
	}

	return f, rejected
}

func handlePurchasing(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, BuildPurchasingView(opts.Store.Current()))
	}
}

func handleDiagnostics(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := opts.Store.Current()
		resp := gin.H{
			"stale":        state.Stale,
			"last_error":   state.LastError,
			"last_attempt": state.LastAttempt,
		}
		if state.Snapshot != nil {
			resp["built_at"] = state.Snapshot.BuiltAt
			resp["diagnostics"] = state.Snapshot.Diag
		}
		c.JSON(http.StatusOK, resp)
	}
}

func handleRefresh(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Refresher == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh not available"})
			return
		}
		ran, err := opts.Refresher.Refresh()
		if !ran {
			// A refresh was already in flight; this trigger coalesced into it.
			c.JSON(http.StatusAccepted, gin.H{"coalesced": true})
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"refreshed": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"refreshed": true})
	}
}

func handleListNotes(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Notes == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notes store not available"})
			return
		}
		list, err := opts.Notes.ListFor(c.Param("job"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"job_id": c.Param("job"), "notes": list})
	}
}

type addNoteRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

func handleAddNote(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Notes == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notes store not available"})
			return
		}
		var req addNoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id, err := opts.Notes.Append(c.Param("job"), req.Text, req.Author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"note_id": id})
	}
}

func handleDeleteNote(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Notes == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notes store not available"})
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
			return
		}
		if err := opts.Notes.Delete(uint(id)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	}
}
