package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/benbeisheim/lockstep-chess/internal/network"
)

const FileName = "lockstep.json"

var (
	ErrConfigNotFound = errors.New(FileName + " not found")
	ErrInvalidSetting = errors.New("invalid setting")
)

type Settings struct {
	HTTPAddr       string `json:"httpAddr"`
	PeerHost       string `json:"peerHost"`
	PeerPort       int    `json:"peerPort"`
	Boundary       string `json:"boundary"`
	Delimiter      int    `json:"delimiter"`
	MaxMessageSize int    `json:"maxMessageSize"`
	FrameMillis    int    `json:"frameMillis"`
	LogLevel       string `json:"logLevel"`
	LogPretty      bool   `json:"logPretty"`
	LayoutFile     string `json:"layoutFile"`
	PlayerName     string `json:"playerName"`
}

func Default() Settings {
	net := network.DefaultConfig()
	return Settings{
		HTTPAddr:       ":3000",
		PeerHost:       net.Host,
		PeerPort:       net.Port,
		Boundary:       net.Mode.String(),
		Delimiter:      int(net.Delimiter),
		MaxMessageSize: net.MaxMessageSize,
		FrameMillis:    16,
		LogLevel:       "info",
		LogPretty:      true,
	}
}

// FindConfigPath walks from start up to the filesystem root looking for FileName.
func FindConfigPath(start string) (string, error) {
	dir := start
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w from %s", ErrConfigNotFound, start)
}

// Load reads a settings file over the defaults. A relative layoutFile is
// resolved against the settings file's directory.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.LayoutFile != "" && !filepath.IsAbs(s.LayoutFile) {
		s.LayoutFile = filepath.Join(filepath.Dir(path), s.LayoutFile)
	}
	return s, nil
}

// ApplyEnv overrides settings from LOCKSTEP_* variables. lookup is usually os.Getenv.
func (s *Settings) ApplyEnv(lookup func(string) string) error {
	str := func(key string, dst *string) {
		if v := lookup(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := lookup(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidSetting, key, v)
		}
		*dst = n
		return nil
	}

	str("LOCKSTEP_HTTP_ADDR", &s.HTTPAddr)
	str("LOCKSTEP_PEER_HOST", &s.PeerHost)
	str("LOCKSTEP_BOUNDARY", &s.Boundary)
	str("LOCKSTEP_LOG_LEVEL", &s.LogLevel)
	str("LOCKSTEP_LAYOUT", &s.LayoutFile)
	str("LOCKSTEP_PLAYER", &s.PlayerName)
	if v := lookup("LOCKSTEP_LOG_PRETTY"); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			s.LogPretty = true
		case "0", "false", "f", "no", "n", "off":
			s.LogPretty = false
		default:
			return fmt.Errorf("%w: LOCKSTEP_LOG_PRETTY=%q", ErrInvalidSetting, v)
		}
	}
	for key, dst := range map[string]*int{
		"LOCKSTEP_PEER_PORT":        &s.PeerPort,
		"LOCKSTEP_DELIMITER":        &s.Delimiter,
		"LOCKSTEP_MAX_MESSAGE_SIZE": &s.MaxMessageSize,
		"LOCKSTEP_FRAME_MS":         &s.FrameMillis,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Network converts the peer settings for the transport.
func (s Settings) Network() (network.Config, error) {
	mode, err := network.ParseBoundaryMode(s.Boundary)
	if err != nil {
		return network.Config{}, err
	}
	if s.Delimiter < 0 || s.Delimiter > 255 {
		return network.Config{}, fmt.Errorf("%w: delimiter %d is not a byte", ErrInvalidSetting, s.Delimiter)
	}
	if s.PeerPort < 1 || s.PeerPort > 65535 {
		return network.Config{}, fmt.Errorf("%w: peer port %d", ErrInvalidSetting, s.PeerPort)
	}
	return network.Config{
		Host:           s.PeerHost,
		Port:           s.PeerPort,
		Mode:           mode,
		Delimiter:      byte(s.Delimiter),
		MaxMessageSize: s.MaxMessageSize,
	}, nil
}

func (s Settings) FrameInterval() time.Duration {
	return time.Duration(s.FrameMillis) * time.Millisecond
}
