package api

import (
	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/internal/api/handlers"
	"github.com/courtlog/handball-tracker/internal/api/middleware"
	"github.com/courtlog/handball-tracker/internal/services"
	"github.com/courtlog/handball-tracker/pkg/config"
	"github.com/courtlog/handball-tracker/pkg/database"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, db *database.DB, cache *services.CacheService, wsHub *services.WebSocketHub, matches *services.MatchService, cfg *config.Config) {
	exportService := services.NewExportService()

	matchHandler := handlers.NewMatchHandler(matches)
	rosterHandler := handlers.NewRosterHandler(matches)
	inputHandler := handlers.NewInputHandler(matches)
	eventHandler := handlers.NewEventHandler(matches)
	statsHandler := handlers.NewStatsHandler(matches)
	clockHandler := handlers.NewClockHandler(matches)
	exportHandler := handlers.NewExportHandler(matches, exportService)

	// Session endpoints
	group.POST("/matches", matchHandler.CreateMatch)
	group.GET("/matches", matchHandler.ListMatches)
	group.GET("/matches/:id", matchHandler.GetMatch)
	group.POST("/matches/:id/save", matchHandler.SaveMatch)
	group.POST("/matches/:id/finish", matchHandler.FinishMatch)

	// Roster endpoints
	group.POST("/matches/:id/roster/:team/players", rosterHandler.AddPlayer)
	group.DELETE("/matches/:id/roster/:team/players/:no", rosterHandler.RemovePlayer)
	group.PUT("/matches/:id/roster/:team/goalkeeper", rosterHandler.SetGoalkeeper)

	// Entry machine endpoints. Each stages one selection; confirm
	// commits the whole entry to the log.
	input := group.Group("/matches/:id/input")
	{
		input.GET("", inputHandler.GetState)
		input.POST("/team", inputHandler.SelectTeam)
		input.POST("/phase", inputHandler.SelectPhase)
		input.POST("/player", inputHandler.SelectPlayer)
		input.POST("/area", inputHandler.SelectArea)
		input.POST("/action", inputHandler.SelectAction)
		input.POST("/detail", inputHandler.SelectPSDetail)
		input.POST("/fixed", inputHandler.SelectFixed)
		input.POST("/sanction-player", inputHandler.SelectSanctionPlayer)
		input.POST("/course", inputHandler.SelectCourse)
		input.POST("/result", inputHandler.SetResult)
		input.POST("/sequence/start", inputHandler.StartSequence)
		input.POST("/sequence/sanction", inputHandler.SequenceSanction)
		input.POST("/sequence/abort", inputHandler.AbortSequence)
		input.POST("/reset", inputHandler.Reset)
		input.POST("/confirm", inputHandler.Confirm)
	}

	// Event log endpoints
	group.GET("/matches/:id/events", eventHandler.ListEvents)
	group.PUT("/matches/:id/events/:index", eventHandler.EditEvent)
	group.DELETE("/matches/:id/events/:index", eventHandler.DeleteEvent)

	// Analysis endpoints
	group.GET("/matches/:id/stats", statsHandler.GetStats)
	group.GET("/matches/:id/summary", statsHandler.GetSummary)
	group.GET("/matches/:id/heatmap", statsHandler.GetHeatmap)
	group.GET("/matches/:id/keepers", statsHandler.GetKeepers)
	group.GET("/matches/:id/ranking", statsHandler.GetRanking)
	group.GET("/matches/:id/flow", statsHandler.GetFlow)

	// Clock endpoints
	clock := group.Group("/matches/:id/clock")
	{
		clock.GET("", clockHandler.GetClock)
		clock.POST("/start", clockHandler.Start)
		clock.POST("/pause", clockHandler.Pause)
		clock.POST("/half-end", clockHandler.EndHalf)
		clock.POST("/period-end", clockHandler.EndPeriod)
		clock.PUT("/elapsed", clockHandler.SetElapsed)
	}

	// Export endpoints
	group.GET("/matches/:id/export", exportHandler.ExportMatch)

	// Team config is read openly but only written by an authenticated
	// coach, same for deleting a session.
	group.GET("/team-config", rosterHandler.GetTeamConfig)

	auth := group.Group("")
	auth.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		auth.PUT("/team-config", rosterHandler.SaveTeamConfig)
		auth.DELETE("/matches/:id", matchHandler.DeleteMatch)
	}
}
