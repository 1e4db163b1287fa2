package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/netkin/internal/adapter"
	"github.com/mmcdole/netkin/internal/catalog"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/mmcdole/netkin/internal/playback"
	"github.com/mmcdole/netkin/internal/profile"
	"github.com/mmcdole/netkin/internal/remix"
	"github.com/mmcdole/netkin/internal/service"
	"github.com/mmcdole/netkin/internal/store"
	"github.com/mmcdole/netkin/internal/tui"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		signOut     bool
		initConfig  bool
		configPath  string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&signOut, "signout", false, "forget the signed-in account and exit")
	flag.BoolVar(&initConfig, "init-config", false, "write the default config file and exit")
	flag.StringVar(&configPath, "config", "", "path to a config file")
	flag.Parse()

	if showVersion {
		fmt.Printf("netkin %s\n", Version)
		return
	}

	if initConfig {
		if err := adapter.SaveConfig(adapter.DefaultConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Configuration saved!")
		return
	}

	if err := run(configPath, signOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, signOut bool) error {
	// Load configuration
	var cfg *adapter.Config
	var err error
	if configPath != "" {
		cfg, err = adapter.LoadConfigFrom(configPath)
	} else {
		cfg, err = adapter.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting netkin", "version", Version)

	db, err := store.New(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer db.Close()

	account := service.NewAccount(db, logger)
	if signOut {
		if err := account.SignOut(); err != nil {
			return err
		}
		fmt.Println("✓ Signed out")
		return nil
	}

	user, err := account.Current()
	if err != nil {
		return fmt.Errorf("failed to read account: %w", err)
	}
	if user == nil {
		signed, err := runSignInFlow(account)
		if err != nil {
			return err
		}
		user = &signed
	}
	logger.Info("signed in", "email", user.Email)

	cat := catalog.Builtin()
	if cfg.Catalog.File != "" {
		if cat, err = catalog.LoadFile(cfg.Catalog.File); err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	profiles := profile.NewStore(db, logger)
	profiles.LoadOrDefault()

	notes := tui.NewNotifications()
	coordinator := service.NewCoordinator(profiles, cat, playbackConfig(cfg), notes, logger)

	remixClient := remix.NewClient(remix.Config{
		BaseURL:      cfg.Remix.BaseURL,
		APIKey:       cfg.Remix.APIKey,
		Timeout:      cfg.Remix.Timeout,
		PollInterval: cfg.Remix.PollInterval,
	}, logger)

	model := tui.NewModel(coordinator, cat, notes, tui.Options{
		Account:             account,
		Remix:               remixClient,
		RemixFS:             afero.NewOsFs(),
		RemixDir:            cfg.Remix.OutputDir,
		NotificationTimeout: cfg.UI.NotificationTimeout,
		Logger:              logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	final, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	coordinator.Close()
	if m, ok := final.(tui.Model); ok && m.SignedOut {
		fmt.Println("✓ Signed out")
	}

	logger.Info("shutting down")
	return nil
}

// playbackConfig maps file configuration onto session timings
func playbackConfig(cfg *adapter.Config) playback.Config {
	return playback.Config{
		LoadInterval:      cfg.Playback.LoadInterval,
		MaxLoadStep:       cfg.Playback.MaxLoadStep,
		TickInterval:      cfg.Playback.TickInterval,
		CountdownInterval: cfg.Playback.CountdownInterval,
		NextUpThreshold:   cfg.Playback.NextUpThreshold,
		NextUpCountdown:   cfg.Playback.NextUpCountdown,
		DefaultDuration:   cfg.Playback.DefaultDuration,
		PIN:               cfg.Parental.PIN,
		KidMaxRating:      domain.ContentRating(cfg.Parental.KidMaxRating).Normalize(),
	}
}

// runSignInFlow prompts until the account accepts a set of credentials
func runSignInFlow(account *service.Account) (domain.User, error) {
	fmt.Println()
	fmt.Println("Welcome to Netkin!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Email: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return domain.User{}, fmt.Errorf("failed to read input: %w", err)
		}
		email := strings.TrimSpace(input)

		fmt.Print("Password: ")
		password, err := readPassword(reader)
		if err != nil {
			return domain.User{}, fmt.Errorf("failed to read password: %w", err)
		}

		user, err := account.SignIn(email, password)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			fmt.Printf("\n✗ %v\n\n", err)
			continue
		}
		if err != nil {
			return domain.User{}, err
		}

		fmt.Printf("✓ Signed in as %s\n", user.Email)
		return user, nil
	}
}

// readPassword reads without echo on a terminal, plainly otherwise
func readPassword(reader *bufio.Reader) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		input, err := reader.ReadString('\n')
		return strings.TrimSpace(input), err
	}
	b, err := term.ReadPassword(fd)
	fmt.Println()
	return string(b), err
}
