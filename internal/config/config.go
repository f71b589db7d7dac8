package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// RuntimeConfig holds the effective settings for one exporter process.
// Values come from WAEX_* environment variables layered over an optional
// JSON config file; environment always wins.
type RuntimeConfig struct {
	Bind         string `envconfig:"BIND" default:"127.0.0.1"`
	Port         string `envconfig:"PORT" default:"9876"`
	Token        string `envconfig:"TOKEN"`
	StateDir     string `envconfig:"STATE_DIR"`
	OutputDir    string `envconfig:"OUTPUT_DIR"`
	CdpURL       string `envconfig:"CDP_URL"`
	ChromeBinary string `envconfig:"CHROME_BINARY"`
	ProfileDir   string `envconfig:"PROFILE"`
	Headless     bool   `envconfig:"HEADLESS" default:"false"`

	// WhatsAppURL is the page the exporter attaches to. OpenTab controls
	// whether a missing tab is created and navigated there on demand.
	WhatsAppURL string `envconfig:"WHATSAPP_URL" default:"https://web.whatsapp.com"`
	OpenTab     bool   `envconfig:"OPEN_TAB" default:"true"`

	// Panel driving bounds. These mirror the host UI's observed lazy-load
	// behavior; raising them only makes failures slower, not rarer.
	PanelTimeout        time.Duration `envconfig:"PANEL_TIMEOUT" default:"2s"`
	ParticipantsTimeout time.Duration `envconfig:"PARTICIPANTS_TIMEOUT" default:"5s"`
	ScrollSettle        time.Duration `envconfig:"SCROLL_SETTLE" default:"800ms"`
	ScrollMaxAttempts   int           `envconfig:"SCROLL_MAX_ATTEMPTS" default:"20"`
	ScrollStableRounds  int           `envconfig:"SCROLL_STABLE_ROUNDS" default:"3"`

	ActionTimeout   time.Duration `envconfig:"ACTION_TIMEOUT" default:"90s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// FileConfig is the subset of settings that may live in the config file.
type FileConfig struct {
	Port      string `json:"port,omitempty"`
	Token     string `json:"token,omitempty"`
	CdpURL    string `json:"cdpUrl,omitempty"`
	StateDir  string `json:"stateDir,omitempty"`
	OutputDir string `json:"outputDir,omitempty"`
	Headless  *bool  `json:"headless,omitempty"`
}

func homeDir() string {
	h, _ := os.UserHomeDir()
	return h
}

func (c *RuntimeConfig) ListenAddr() string {
	return c.Bind + ":" + c.Port
}

// Load builds the runtime configuration from the environment and the
// optional config file at WAEX_CONFIG (default ~/.waexport/config.json).
func Load() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}
	if err := envconfig.Process("waex", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.StateDir == "" {
		cfg.StateDir = filepath.Join(homeDir(), ".waexport")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.StateDir, "exports")
	}
	if cfg.ProfileDir == "" {
		cfg.ProfileDir = filepath.Join(cfg.StateDir, "chrome-profile")
	}

	configPath := os.Getenv("WAEX_CONFIG")
	if configPath == "" {
		configPath = filepath.Join(homeDir(), ".waexport", "config.json")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, nil
	}

	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return cfg, nil
	}
	applyFile(cfg, &fc)
	return cfg, nil
}

// applyFile overlays file values onto cfg for fields whose environment
// variable is unset. Environment always takes precedence.
func applyFile(cfg *RuntimeConfig, fc *FileConfig) {
	if fc.Port != "" && os.Getenv("WAEX_PORT") == "" {
		cfg.Port = fc.Port
	}
	if fc.Token != "" && os.Getenv("WAEX_TOKEN") == "" {
		cfg.Token = fc.Token
	}
	if fc.CdpURL != "" && os.Getenv("WAEX_CDP_URL") == "" {
		cfg.CdpURL = fc.CdpURL
	}
	if fc.StateDir != "" && os.Getenv("WAEX_STATE_DIR") == "" {
		cfg.StateDir = fc.StateDir
	}
	if fc.OutputDir != "" && os.Getenv("WAEX_OUTPUT_DIR") == "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.Headless != nil && os.Getenv("WAEX_HEADLESS") == "" {
		cfg.Headless = *fc.Headless
	}
}

func DefaultFileConfig() FileConfig {
	h := false
	return FileConfig{
		Port:      "9876",
		StateDir:  filepath.Join(homeDir(), ".waexport"),
		OutputDir: filepath.Join(homeDir(), ".waexport", "exports"),
		Headless:  &h,
	}
}

func HandleConfigCommand(cfg *RuntimeConfig) {
	if len(os.Args) < 3 {
		fmt.Println("Usage: waexport config <command>")
		fmt.Println("Commands:")
		fmt.Println("  init    - Create default config file")
		fmt.Println("  show    - Show current configuration")
		return
	}

	switch os.Args[2] {
	case "init":
		configPath := filepath.Join(homeDir(), ".waexport", "config.json")

		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Config file already exists at %s\n", configPath)
			fmt.Print("Overwrite? (y/N): ")
			var response string
			_, _ = fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				return
			}
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			fmt.Printf("Error creating directory: %v\n", err)
			os.Exit(1)
		}

		fc := DefaultFileConfig()
		data, _ := json.MarshalIndent(fc, "", "  ")
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			fmt.Printf("Error writing config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Config file created at %s\n", configPath)

	case "show":
		fmt.Println("Current configuration:")
		fmt.Printf("  Listen:      %s\n", cfg.ListenAddr())
		fmt.Printf("  Token:       %s\n", MaskToken(cfg.Token))
		fmt.Printf("  CDP URL:     %s\n", cfg.CdpURL)
		fmt.Printf("  State Dir:   %s\n", cfg.StateDir)
		fmt.Printf("  Output Dir:  %s\n", cfg.OutputDir)
		fmt.Printf("  Profile:     %s\n", cfg.ProfileDir)
		fmt.Printf("  Headless:    %v\n", cfg.Headless)
		fmt.Printf("  WhatsApp:    %s\n", cfg.WhatsAppURL)
		fmt.Printf("  Timeouts:    panel=%v participants=%v action=%v\n",
			cfg.PanelTimeout, cfg.ParticipantsTimeout, cfg.ActionTimeout)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[2])
		os.Exit(1)
	}
}

func MaskToken(t string) string {
	if t == "" {
		return "(none)"
	}
	if len(t) <= 8 {
		return "***"
	}
	return t[:4] + "..." + t[len(t)-4:]
}
