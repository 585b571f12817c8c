package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/grtech/pilates/internal/auth"
	"github.com/grtech/pilates/internal/config"
	"github.com/grtech/pilates/internal/keystore"
	"github.com/grtech/pilates/internal/payment"
	"github.com/grtech/pilates/internal/tui"
	"github.com/grtech/pilates/pkg/backend"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes structured logs to a file. Stdout belongs to the TUI, so
// logging never goes there.
func openLogger(path string) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() { _ = f.Close() }, nil
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("pilates " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "reset":
			return runReset()
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info().Str("version", version).Msg("starting")

	store, err := keystore.Open(cfg.StoragePath())
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}

	client := backend.New(cfg.BackendURL, cfg.BackendAnonKey, log)
	sessions := auth.NewManager(client, store, log)
	sessions.Restore(context.Background())

	sheet := payment.NewBrowserSheet(cfg.StripePublishableKey, cfg.PaymentPageURL, log)
	purchase := payment.NewWorkflow(sessions, client, sheet, client, cfg.MerchantDisplayName, log)

	app := tui.NewApp(tui.Deps{
		Sessions: sessions,
		Backend:  client,
		Purchase: purchase,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runReset is the command-line variant of the in-app session fix: wipe every
// cached credential without starting the TUI.
func runReset() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := keystore.Open(cfg.StoragePath())
	if err != nil {
		return fmt.Errorf("open local storage: %w", err)
	}
	client := backend.New(cfg.BackendURL, cfg.BackendAnonKey, log)
	sessions := auth.NewManager(client, store, log)
	sessions.Restore(context.Background())
	sessions.HardReset(context.Background())

	fmt.Println("Sesión local borrada. Inicia sesión de nuevo en la app.")
	return nil
}

func printHelp() {
	fmt.Println(`pilates, cliente del estudio

Uso:
  pilates            abrir la aplicación
  pilates reset      borrar credenciales locales
  pilates version    mostrar versión
  pilates help       mostrar esta ayuda

Configuración (variables de entorno o .env):
  BACKEND_URL, BACKEND_ANON_KEY       obligatorias
  STRIPE_PUBLISHABLE_KEY              pagos
  PAYMENT_PAGE_URL                    pagos
  MERCHANT_DISPLAY_NAME               nombre en la hoja de pago
  PILATES_DATA_DIR, PILATES_LOG_FILE  rutas locales`)
}
