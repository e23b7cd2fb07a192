package main

import (
	"context"
	"crypto/tls"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fcendesu/poke-deck/auth"
	"github.com/fcendesu/poke-deck/battle"
	"github.com/fcendesu/poke-deck/config"
	"github.com/fcendesu/poke-deck/database"
	"github.com/fcendesu/poke-deck/draw"
	"github.com/fcendesu/poke-deck/leaderboard"
	"github.com/fcendesu/poke-deck/logger"
	"github.com/fcendesu/poke-deck/pokeapi"
	"github.com/fcendesu/poke-deck/server"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

func main() {
	appCtx, stopApp := context.WithCancel(context.Background())

	// Load config
	var configPath string = "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	log.Default().Printf("Config path: %s\n", configPath)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Default().Printf("Creating sample config: %s\n", configPath)
		err = config.CreateSample(configPath)
		if err != nil {
			log.Fatalf("CreateSample: %v", err)
		}
	}
	log.Default().Println("Reading config...")
	configRaw, err := os.ReadFile(configPath)
	if err != nil {
		log.Fatalf("ReadFile %q: %v", configPath, err)
	}
	log.Default().Println("Parsing config...")
	cfg, err := config.ParseConfig(configRaw)
	if err != nil {
		log.Fatalf("ParseConfig: %v", err)
	}
	log.Default().Println("Loading TLS...")
	err = cfg.TLS.Configurate()
	if err != nil {
		log.Fatalf("Configurate: %v", err)
	}

	// Logger
	log.Default().Println("Setting log level:", cfg.LogLevel.String())
	logConf := zap.NewDevelopmentConfig()
	logConf.Level = cfg.LogLevel.Zap()
	l, err := logConf.Build()
	if err != nil {
		log.Fatalf("zap.NewDevelopment: %v", err)
	}
	logger.Initialize(l)
	defer l.Sync()

	// Database
	logger.Sugar().Info("Loading database...")
	db, err := database.New(appCtx, cfg.Database)
	if err != nil {
		logger.Sugar().Fatalf("database.New: %v", err)
	}

	// Species catalog import runs in the background; battles and draws
	// become available once it completes.
	go func() {
		client := pokeapi.NewClient(cfg.PokeAPI.BaseURL)
		if err := db.SeedSpecies(appCtx, client, cfg.PokeAPI.Limit); err != nil {
			logger.Sugar().Errorf("Species import failed: %v", err)
		}
	}()

	// Leaderboard (optional)
	var board *leaderboard.Leaderboard
	if cfg.Redis.Address != "" {
		logger.Sugar().Info("Loading leaderboard...")
		board, err = leaderboard.New(appCtx, cfg.Redis)
		if err != nil {
			logger.Sugar().Fatalf("leaderboard.New: %v", err)
		}
		defer board.Close()
		stats, err := db.TopRatings(appCtx, config.LEADERBOARD_SIZE)
		if err != nil {
			logger.Sugar().Errorf("Loading ratings failed: %v", err)
		} else if err := board.Rebuild(appCtx, stats); err != nil {
			logger.Sugar().Errorf("Leaderboard rebuild failed: %v", err)
		}
	}

	// Auth
	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		logger.Sugar().Fatalf("auth.NewVerifier: %v", err)
	}

	// Game services
	logger.Sugar().Info("Loading Server...")
	rng := battle.NewRand(time.Now().UnixNano())
	var ranker battle.Ranker
	if board != nil {
		ranker = board
	}
	tracker := battle.NewTracker(db, ranker)
	engine := battle.NewEngine(db, tracker, rng)
	allocator := draw.NewAllocator(db, rng)
	srv := server.New(db, engine, tracker, allocator, board, verifier)

	// Create mux
	mux := http.NewServeMux()

	// HTTP
	httpServer := http.Server{
		Handler: mux,
		Addr:    cfg.Server.HttpAddress,
	}

	// HTTP2
	httpsServer := http.Server{
		Handler: mux,
		Addr:    cfg.Server.HttpsAddress,
		TLSConfig: &tls.Config{
			GetCertificate: cfg.TLS.GetCertificate,
			ClientAuth:     tls.NoClientCert,
			NextProtos:     []string{"h2", "http/1.1"}, // Enable HTTP/2
		},
	}
	err = http2.ConfigureServer(&httpsServer, &http2.Server{})
	if err != nil {
		logger.Sugar().Fatalf("http2.Server: %v", err)
	}

	// Decompression middleware
	middlewareDecompression := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Content-Encoding"), "zstd") {
				h.ServeHTTP(w, r)
				return
			}
			reader, err := zstd.NewReader(r.Body, zstd.WithDecoderLowmem(true))
			if err != nil {
				logger.Sugar().Errorf("Failed to create zstd reader: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			defer reader.Close()
			r.Body = &zstdRequestReader{ReadCloser: r.Body, Reader: reader}
			h.ServeHTTP(w, r)
		})
	}

	// Compression middleware
	middlewareCompression := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "zstd") {
				h.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Encoding", "zstd")
			encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
			if err != nil {
				logger.Sugar().Errorf("Failed to create zstd encoder: %v", err)
				h.ServeHTTP(w, r)
				return
			}
			defer encoder.Close()
			zstrw := &zstdResponseWriter{ResponseWriter: w, Writer: encoder}
			h.ServeHTTP(zstrw, r)
		})
	}
	api := func(h http.HandlerFunc) http.Handler {
		return middlewareDecompression(middlewareCompression(h))
	}

	// Routes: API
	mux.Handle("/api/pokemon", api(srv.HandlePokemonList))
	mux.Handle("/api/pokemon/", api(srv.HandlePokemon))
	mux.Handle("/api/collection", api(srv.HandleCollection))
	mux.Handle("/api/draw", api(srv.HandleDraw))
	mux.Handle("/api/draw/status", api(srv.HandleDrawStatus))
	mux.Handle("/api/battle", api(srv.HandleBattle))
	mux.Handle("/api/battle/move", api(srv.HandleBattleMove))
	mux.Handle("/api/battle/stats", api(srv.HandleBattleStats))
	mux.Handle("/api/leaderboard", api(srv.HandleLeaderboard))
	mux.HandleFunc("/health", srv.HandleHealth)
	mux.HandleFunc("/swagger", srv.HandleSwagger)
	mux.HandleFunc("/swagger/", srv.HandleSwagger)

	// Routes: Static. Clients that accept zstd get the precompressed copy.
	staticPlain := http.FileServer(http.FS(dist))
	staticZstd := http.FileServer(http.FS(distZstd))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Accept-Encoding"), "zstd") {
			w.Header().Set("Content-Encoding", "zstd")
			staticZstd.ServeHTTP(w, r)
			return
		}
		staticPlain.ServeHTTP(w, r)
	}))

	// Start servers
	serverDone := make(chan struct{})
	go func() {
		logger.Sugar().Infof("HTTP server starting on %s", cfg.Server.HttpAddress)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Sugar().Errorf("ListenAndServe http: %v", err)
		}
		close(serverDone)
	}()
	server2Done := make(chan struct{})
	go func() {
		logger.Sugar().Infof("HTTP2 server starting on %s", cfg.Server.HttpsAddress)
		err := httpsServer.ListenAndServeTLS("", "")
		if err != nil && err != http.ErrServerClosed {
			logger.Sugar().Errorf("ListenAndServe https (http2): %v", err)
		}
		close(server2Done)
	}()

	// Interrupt signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Wait for servers to finish
	select {
	case <-interrupt:
		logger.Sugar().Info("Interrupt signal received")
	case <-appCtx.Done():
		logger.Sugar().Info("App stopped")
	case <-serverDone:
		logger.Sugar().Info("HTTP server stopped")
	case <-server2Done:
		logger.Sugar().Info("HTTP2 server stopped")
	}
	logger.Sugar().Info("Server shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(appCtx, 3*time.Second)
	defer cancelShutdown()
	httpServer.Shutdown(shutdownCtx)
	httpsServer.Shutdown(shutdownCtx)
	httpServer.Close()
	httpsServer.Close()
	stopApp()
	db.Close()
	logger.Sugar().Info("Server stopped")
}

// zstdResponseWriter wraps the http.ResponseWriter to provide zstd compression
type zstdResponseWriter struct {
	http.ResponseWriter
	Writer *zstd.Encoder
}

func (w *zstdResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

// zstdRequestReader wraps the io.ReadCloser to provide zstd decompression
type zstdRequestReader struct {
	io.ReadCloser
	Reader *zstd.Decoder
}

func (r *zstdRequestReader) Read(p []byte) (int, error) {
	return r.Reader.Read(p)
}
