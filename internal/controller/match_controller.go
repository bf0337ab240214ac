package controller

import (
	"strings"

	"github.com/benbeisheim/lockstep-chess/internal/service"
	"github.com/gofiber/fiber/v2"
)

type MatchController struct {
	gameService *service.GameService
	hub         *SpectatorHub
}

func NewMatchController(gameService *service.GameService, hub *SpectatorHub) *MatchController {
	return &MatchController{gameService: gameService, hub: hub}
}

type matchResponse struct {
	service.Status
	Spectators int `json:"spectators"`
}

// Register mounts the status routes under /api.
func (mc *MatchController) Register(router fiber.Router) {
	api := router.Group("/api")
	api.Get("/match", mc.GetMatch)
	api.Get("/history", mc.GetHistory)
	api.Get("/console", mc.GetConsole)
	api.Post("/command", mc.PostCommand)
}

func (mc *MatchController) GetMatch(c *fiber.Ctx) error {
	return c.JSON(matchResponse{Status: mc.gameService.Status(), Spectators: mc.hub.Count()})
}

func (mc *MatchController) GetHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"plies": mc.gameService.History(),
	})
}

// GetConsole returns console lines after the optional ?since= sequence number.
func (mc *MatchController) GetConsole(c *fiber.Ctx) error {
	since := c.QueryInt("since", 0)
	return c.JSON(fiber.Map{
		"lines": mc.gameService.ConsoleSince(since),
	})
}

type commandRequest struct {
	Command string `json:"command"`
}

// PostCommand runs a command as if typed at the local console.
func (mc *MatchController) PostCommand(c *fiber.Ctx) error {
	var req commandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if strings.TrimSpace(req.Command) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "command is required",
		})
	}
	return c.JSON(fiber.Map{
		"lines": mc.gameService.ExecuteLocal(req.Command),
	})
}
