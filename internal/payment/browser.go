package payment

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/grtech/pilates/internal/browser"
)

// ErrCanceled is returned by Present when the user abandons the payment.
var ErrCanceled = errors.New("payment canceled")

// presentTimeout bounds how long Present waits for the hosted page to call
// back. Card entry takes minutes, not hours.
const presentTimeout = 10 * time.Minute

// BrowserSheet presents payments through the studio's hosted payment page:
// it opens the page in the default browser with the client-secret and
// publishable key, then waits on a loopback callback for the outcome.
type BrowserSheet struct {
	publishableKey string
	pageURL        string
	log            zerolog.Logger

	cfg   SheetConfig
	ready bool
}

// NewBrowserSheet creates the sheet. publishableKey and pageURL may be empty
// here; Init rejects the attempt instead, so a misconfigured payment layer
// fails at purchase time with a clear message rather than at startup.
func NewBrowserSheet(publishableKey, pageURL string, log zerolog.Logger) *BrowserSheet {
	return &BrowserSheet{publishableKey: publishableKey, pageURL: pageURL, log: log}
}

// Init validates the attempt configuration. No side effects on failure.
func (s *BrowserSheet) Init(cfg SheetConfig) error {
	if s.publishableKey == "" {
		return errors.New("payment layer not configured: missing publishable key")
	}
	if s.pageURL == "" {
		return errors.New("payment layer not configured: missing payment page URL")
	}
	if cfg.ClientSecret == "" {
		return errors.New("payment sheet: missing client secret")
	}
	s.cfg = cfg
	s.ready = true
	return nil
}

// Present opens the hosted payment page and blocks until it redirects back to
// the loopback callback, the context ends, or the attempt times out.
func (s *BrowserSheet) Present(ctx context.Context) error {
	if !s.ready {
		return errors.New("payment sheet: Present called before Init")
	}
	s.ready = false

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("payment sheet: start callback listener: %w", err)
	}
	defer listener.Close() //nolint:errcheck

	port := listener.Addr().(*net.TCPAddr).Port
	state := uuid.NewString()
	resultCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/return", returnHandler(state, resultCh))

	srv := &http.Server{Handler: mux}
	go srv.Serve(listener) //nolint:errcheck // closed via listener on return

	params := url.Values{}
	params.Set("client_secret", s.cfg.ClientSecret)
	params.Set("pk", s.publishableKey)
	params.Set("merchant", s.cfg.MerchantDisplayName)
	params.Set("return_url", "http://127.0.0.1:"+strconv.Itoa(port)+"/return")
	params.Set("state", state)
	if s.cfg.AllowsDelayedPaymentMethods {
		params.Set("delayed", "true")
	}
	payURL := s.pageURL + "?" + params.Encode()

	s.log.Info().Int("port", port).Msg("opening payment page")
	if err := browser.Open(payURL); err != nil {
		s.log.Warn().Err(err).Msg("could not open browser for payment page")
		// The URL still works if the user opens it by hand; keep waiting.
	}

	select {
	case res := <-resultCh:
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx) //nolint:errcheck
		return res
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(presentTimeout):
		return errors.New("payment timed out waiting for completion")
	}
}

// returnHandler serves the payment page's redirect back to the app. Only the
// first valid callback is delivered; a reloaded return page gets the same HTML
// but must not block its handler goroutine on the full channel.
func returnHandler(state string, resultCh chan error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "invalid state", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, returnHTML) //nolint:errcheck
		var res error
		switch r.URL.Query().Get("status") {
		case "succeeded":
			res = nil
		case "canceled":
			res = ErrCanceled
		default:
			res = fmt.Errorf("payment failed: %s", r.URL.Query().Get("message"))
		}
		select {
		case resultCh <- res:
		default:
		}
	}
}

const returnHTML = `<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><title>Pilates Studio</title>
<style>
body{background:#F5F1E8;color:#2C3E2E;font-family:Georgia,serif;
height:100vh;display:flex;align-items:center;justify-content:center;margin:0}
.card{text-align:center}
h1{color:#6B7D63;letter-spacing:2px}
p{color:#9AA99E}
</style></head>
<body><div class="card">
<h1>Pilates Studio</h1>
<p>Listo. Vuelve a la aplicación.</p>
</div></body></html>`
