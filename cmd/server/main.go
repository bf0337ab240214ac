package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/lockstep-chess/internal/config"
	"github.com/benbeisheim/lockstep-chess/internal/controller"
	"github.com/benbeisheim/lockstep-chess/internal/logger"
	"github.com/benbeisheim/lockstep-chess/internal/middleware"
	"github.com/benbeisheim/lockstep-chess/internal/model"
	"github.com/benbeisheim/lockstep-chess/internal/network"
	"github.com/benbeisheim/lockstep-chess/internal/service"
	"github.com/chzyer/readline"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	settings := loadSettings()

	// Flags override the settings file and LOCKSTEP_* variables.
	httpAddr := flag.String("addr", settings.HTTPAddr, "spectator HTTP listen address")
	peerHost := flag.String("peer-host", settings.PeerHost, "default host for ChessConnect")
	peerPort := flag.Int("peer-port", settings.PeerPort, "default port for ChessListen and ChessConnect")
	boundary := flag.String("boundary", settings.Boundary, "message boundary: null-terminated, raw or length-prefixed")
	layoutFile := flag.String("layout", settings.LayoutFile, "XML board layout (standard chess when empty)")
	player := flag.String("name", settings.PlayerName, "local player display name")
	origins := flag.String("origins", getenv("LOCKSTEP_CORS_ORIGINS", "http://localhost:5173"), "allowed CORS origins")
	headless := flag.Bool("headless", getenb("LOCKSTEP_HEADLESS", false), "run without the interactive console")
	flag.Parse()

	settings.HTTPAddr = *httpAddr
	settings.PeerHost = *peerHost
	settings.PeerPort = *peerPort
	settings.Boundary = *boundary
	settings.LayoutFile = *layoutFile
	settings.PlayerName = *player

	var rl *readline.Instance
	var out io.Writer = os.Stdout
	if !*headless {
		var err error
		rl, err = readline.NewEx(&readline.Config{
			Prompt:          "chess> ",
			HistoryFile:     ".lockstep_history",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		fatalIf(err, "readline")
		defer rl.Close()
		out = rl.Stdout()
	}

	log, err := logger.New(settings.LogLevel, settings.LogPretty, os.Stderr)
	fatalIf(err, "logger")

	netCfg, err := settings.Network()
	fatalIf(err, "network settings")

	layout := model.StandardLayout()
	if settings.LayoutFile != "" {
		layout, err = config.LoadLayout(settings.LayoutFile)
		fatalIf(err, "layout")
		log.Info().Str("file", settings.LayoutFile).Int("factions", len(layout.Factions)).
			Int("pieces", len(layout.Placements)).Msg("loaded board layout")
	}

	hub := controller.NewSpectatorHub(log)
	svc, err := service.NewGameService(service.Options{
		Layout:    layout,
		LocalName: settings.PlayerName,
		Transport: network.NewWSTransport(netCfg, log),
		Observer:  hub,
		Output:    out,
		Logger:    log,
	})
	fatalIf(err, "game service")
	hub.SetSnapshotSource(svc.Snapshot)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins: *origins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Connection-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Use("/api", middleware.EnsureConnectionID())
	controller.NewMatchController(svc, hub).Register(app)
	hub.Register(app)

	go func() {
		log.Info().Str("addr", settings.HTTPAddr).Msg("spectator API listening")
		if err := app.Listen(settings.HTTPAddr); err != nil {
			log.Error().Err(err).Msg("spectator API stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svc.Run(ctx, settings.FrameInterval())
	go hub.Run(ctx)

	if *headless {
		<-ctx.Done()
	} else {
		prompt(ctx, rl, svc)
		stop()
	}

	if err := svc.Close(); err != nil {
		log.Warn().Err(err).Msg("disconnect on shutdown")
	}
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Warn().Err(err).Msg("spectator API shutdown")
	}
	log.Info().Msg("bye")
}

func prompt(ctx context.Context, rl *readline.Instance, svc *service.GameService) {
	fmt.Fprintln(rl.Stdout(), "Lockstep chess. Type 'help' for commands, 'exit' to quit.")
	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return
		}
		if err != nil {
			continue
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		}
		svc.ExecuteLocal(line)
	}
}

// loadSettings reads lockstep.json from the working directory or any parent,
// then applies LOCKSTEP_* overrides.
func loadSettings() config.Settings {
	settings := config.Default()
	if cwd, err := os.Getwd(); err == nil {
		if path, err := config.FindConfigPath(cwd); err == nil {
			settings, err = config.Load(path)
			fatalIf(err, "settings")
		}
	}
	fatalIf(settings.ApplyEnv(os.Getenv), "environment")
	return settings
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

func fatalIf(err error, what string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
		os.Exit(1)
	}
}
