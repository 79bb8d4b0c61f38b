package actions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/majormguarde-bit/megre-guard-db/helper"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms"
	"github.com/majormguarde-bit/megre-guard-db/transfer"
	"github.com/pkg/errors"
)

const (
	urlContext4Transfer = "/api/transfer"
	urlContext4Settings = "/api/settings"
	muxVarTransferId    = "transferId"
	requestTimeout      = time.Second * 15
)

type WebServerConfig struct {
	LogLevel                  string `errorTxt:"log level" mandatory:"yes"`
	Scheme                    string `errorTxt:"scheme" mandatory:"no"`
	Addr                      net.IP `errorTxt:"address" mandatory:"no"`
	Port                      int    `errorTxt:"port" mandatory:"yes"`
	Settings                  SettingsLoaderSaver
	Engine                    transfer.Config
	StatsDumpFrequencySeconds int
	StackDumpOnPanic          bool
}

// webServer holds everything the handlers share.
type webServer struct {
	log            logger.Logger
	engine         *transfer.Engine
	runs           *transfer.SafeMapRunInfo
	settings       SettingsLoaderSaver
	chanStopServer chan string
}

func RunWebServer(web *WebServerConfig) error {
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	// Check if we have valid input params.
	if err := helper.ValidateStructIsPopulated(web); err != nil {
		return err
	}
	log, err := logger.NewWebLogger("mgdb", web.LogLevel, web.StackDumpOnPanic)
	if err != nil {
		return errors.Wrap(err, "error setting up logging")
	}
	// Start the web server.
	srv, ws, cancelRuns := runServer(log, web)
	// Block & wait for completion.
	return waitForServer(log, srv, ws, cancelRuns)
}

// newWebServer builds the shared handler state, with a fresh run registry.
func newWebServer(log logger.Logger, web *WebServerConfig) *webServer {
	cfg := web.Engine
	cfg.Log = log
	cfg.StatsDumpFrequencySeconds = web.StatsDumpFrequencySeconds
	return &webServer{
		log:            log,
		engine:         transfer.NewEngine(cfg, &rdbms.Provisioner{Log: log, Credentials: cfg.Credentials}),
		runs:           transfer.NewSafeMapRunInfo(),
		settings:       web.Settings,
		chanStopServer: make(chan string, 1),
	}
}

// newRouter registers all routes.
// The transfer stream route has no timeout; all others are limited to requestTimeout.
func (ws *webServer) newRouter() *mux.Router {
	r := mux.NewRouter()
	limit := func(h http.HandlerFunc) http.Handler {
		return http.TimeoutHandler(h, requestTimeout, `{"status":"error","message":"timeout"}`)
	}
	r.Path("/stop").Handler(limit(GetHandlerStopServer(ws.log, ws.chanStopServer)))
	r.Path("/health").Handler(limit(GetHandlerHealth(ws.log)))
	r.Path(urlContext4Transfer).Methods(http.MethodPost).HandlerFunc(GetHandlerTransferLaunch(ws.log, ws.engine, ws.runs, ws.settings))
	r.Path(urlContext4Settings).Methods(http.MethodGet).Handler(limit(GetHandlerSettings(ws.log, ws.settings)))
	r.Path("/transfers").Methods(http.MethodGet).Handler(limit(GetHandlerTransferList(ws.log, ws.runs)))
	r.Path("/transfers/{" + muxVarTransferId + "}/stats").Methods(http.MethodGet).Handler(limit(GetHandlerTransferStats(ws.log, ws.runs)))
	r.Path("/transfers/{" + muxVarTransferId + "}/status").Methods(http.MethodGet).Handler(limit(GetHandlerTransferStatus(ws.log, ws.runs)))
	r.Path("/transfers/{" + muxVarTransferId + "}/stop").Methods(http.MethodGet, http.MethodPost).Handler(limit(GetHandlerTransferStop(ws.log, ws.runs)))
	return r
}

// runServer starts a web server and returns:
// 1) the server;
// 2) the handler state holding the stop channel and the run registry; and
// 3) a function that cancels every run started by the server.
func runServer(log logger.Logger, web *WebServerConfig) (*http.Server, *webServer, context.CancelFunc) {
	ws := newWebServer(log, web)
	baseCtx, cancelRuns := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              fmt.Sprintf("%v:%v", web.Addr, web.Port),
		ReadHeaderTimeout: time.Second * 15,
		ReadTimeout:       time.Second * 15,
		IdleTimeout:       time.Second * 60,
		Handler:           ws.newRouter(),
		// Requests, and so the runs they launch, are cancelled on shutdown.
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	// Run HTTP server non-blocking.
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err == http.ErrServerClosed {
				log.Info(err)
			} else {
				log.Panic(err)
			}
		}
	}()
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(web.Scheme), web.Addr, web.Port))
	return srv, ws, cancelRuns
}

func waitForServer(log logger.Logger, srv *http.Server, ws *webServer, cancelRuns context.CancelFunc) error {
	// Accept graceful shutdowns when quit via SIGINT (Ctrl+C).
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt)
	defer signal.Stop(chanOS)
	select {
	case <-ws.chanStopServer:
	case <-chanOS:
	}
	log.Info("Shutting down web server...")
	// Cancel live runs first so their streams end with an error event and their transactions roll back.
	cancelRuns()
	ws.runs.StopAll()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	return srv.Shutdown(ctx) // waits for streaming handlers to drain.
}
