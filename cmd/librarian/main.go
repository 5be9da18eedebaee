package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/librarian/internal/config"
	"github.com/kailas-cloud/librarian/internal/corpus"
	dbRedis "github.com/kailas-cloud/librarian/internal/db/redis"
	"github.com/kailas-cloud/librarian/internal/domain"
	logpkg "github.com/kailas-cloud/librarian/internal/logger"
	"github.com/kailas-cloud/librarian/internal/metrics"
	chatrepo "github.com/kailas-cloud/librarian/internal/repository/chat"
	chiTransport "github.com/kailas-cloud/librarian/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/librarian/internal/transport/openai"
	qdrantTransport "github.com/kailas-cloud/librarian/internal/transport/qdrant"
	answeruc "github.com/kailas-cloud/librarian/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/librarian/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/librarian/internal/usecase/ingest"
	"github.com/kailas-cloud/librarian/internal/version"
)

const usage = `librarian — retrieval-augmented chat over a book corpus

Usage:
  librarian <command> [flags]

Commands:
  serve            run the HTTP API server
  ask              answer a single question from the command line
  chat             interactive question loop
  ingest           load the corpus into the vector index
  init-collection  create the vector collection
  embed            embed a text and print the vector (diagnostics)
`

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterRemoteMetrics()

	app := &app{cfg: cfg, env: env, logger: logger}

	switch os.Args[1] {
	case "serve":
		app.serve(os.Args[2:])
	case "ask":
		app.ask(os.Args[2:])
	case "chat":
		app.chat(os.Args[2:])
	case "ingest":
		app.ingest(os.Args[2:])
	case "init-collection":
		app.initCollection(os.Args[2:])
	case "embed":
		app.embed(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

type app struct {
	cfg    config.Config
	env    string
	logger *zap.Logger
}

func (a *app) newAIClient() *openaiTransport.Client {
	client, err := openaiTransport.New(openaiTransport.Config{
		APIKey:         a.cfg.AI.APIKey,
		BaseURL:        a.cfg.AI.BaseURL,
		ChatModel:      a.cfg.AI.ChatModel,
		EmbeddingModel: a.cfg.AI.EmbeddingModel,
		ChatTimeout:    time.Duration(a.cfg.AI.ChatTimeoutSec) * time.Second,
		EmbedTimeout:   time.Duration(a.cfg.AI.EmbedTimeoutSec) * time.Second,
		Logger:         a.logger,
	})
	if err != nil {
		a.logger.Fatal("Failed to create inference API client", zap.Error(err))
	}
	return client
}

func (a *app) newQdrantClient() *qdrantTransport.Client {
	client, err := qdrantTransport.New(qdrantTransport.Config{
		URL:     a.cfg.Qdrant.URL,
		APIKey:  a.cfg.Qdrant.APIKey,
		Timeout: time.Duration(a.cfg.Qdrant.TimeoutSec) * time.Second,
		Logger:  a.logger,
	})
	if err != nil {
		a.logger.Fatal("Failed to create vector index client", zap.Error(err))
	}
	return client
}

func (a *app) newAnswerService(ai *openaiTransport.Client, qd *qdrantTransport.Client, turns answeruc.TurnStore, collection string, topK int) *answeruc.Service {
	return answeruc.New(ai, qd, ai, turns, answeruc.Config{
		Collection:   collection,
		TopK:         topK,
		SystemPrompt: a.cfg.Chat.SystemPrompt,
		Logger:       a.logger,
	})
}

// serve runs the HTTP API with Redis-backed chat persistence.
func (a *app) serve(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	_ = fs.Parse(args)

	a.logger.Info("Starting librarian API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", a.cfg.HTTP.Port),
		zap.Strings("redis_addrs", a.cfg.Redis.Addrs),
	)

	ai := a.newAIClient()
	qd := a.newQdrantClient()

	var (
		chats    chiTransport.ChatRepository
		turns    answeruc.TurnStore
		dbPinger healthuc.DBPinger
	)
	if len(a.cfg.Redis.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    a.cfg.Redis.Addrs,
			Password: a.cfg.Redis.Password,
		})
		if err != nil {
			a.logger.Fatal("Failed to create Redis store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(context.Background(), 30*time.Second); err != nil {
			a.logger.Fatal("Redis not ready", zap.Error(err))
		}
		a.logger.Info("Connected to Redis")

		repo := chatrepo.New(store, a.cfg.Redis.KeyPrefix)
		chats, turns, dbPinger = repo, repo, store
	} else {
		// No Redis configured: sessions live for the process lifetime only.
		a.logger.Warn("Redis not configured, chat history is in-memory")
		repo := chatrepo.NewMemory()
		chats, turns = repo, repo
	}

	answerSvc := a.newAnswerService(ai, qd, turns, a.cfg.Qdrant.Collection, a.cfg.Chat.TopK)
	healthSvc := healthuc.New(dbPinger, qd)
	server := chiTransport.NewServer(answerSvc, chats, healthSvc, a.logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(a.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(a.logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	a.logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
	}

	a.logger.Info("Server stopped gracefully")
}

// ask answers one question and exits.
func (a *app) ask(args []string) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	question := fs.String("q", "", "question to answer")
	collection := fs.String("collection", a.cfg.Qdrant.Collection, "collection to search")
	topK := fs.Int("top-k", a.cfg.Chat.TopK, "number of documents to retrieve")
	_ = fs.Parse(args)

	if *question == "" {
		fmt.Fprintln(os.Stderr, "ask: -q is required")
		os.Exit(2)
	}

	ai := a.newAIClient()
	qd := a.newQdrantClient()
	repo := chatrepo.NewMemory()
	svc := a.newAnswerService(ai, qd, repo, *collection, *topK)

	ctx := context.Background()
	session, err := repo.Create(ctx, *question)
	if err != nil {
		a.logger.Fatal("Failed to create session", zap.Error(err))
	}

	outcome, err := svc.Answer(ctx, session.ID, *question)
	if err != nil {
		a.logger.Fatal("Failed to answer", zap.Error(err))
	}

	fmt.Println(outcome.Answer)
	if outcome.Status.Failed() {
		os.Exit(1)
	}
}

// chat runs an interactive question loop on stdin.
func (a *app) chat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	collection := fs.String("collection", a.cfg.Qdrant.Collection, "collection to search")
	topK := fs.Int("top-k", a.cfg.Chat.TopK, "number of documents to retrieve")
	_ = fs.Parse(args)

	ai := a.newAIClient()
	qd := a.newQdrantClient()
	repo := chatrepo.NewMemory()
	svc := a.newAnswerService(ai, qd, repo, *collection, *topK)

	ctx := context.Background()
	session, err := repo.Create(ctx, "cli session")
	if err != nil {
		a.logger.Fatal("Failed to create session", zap.Error(err))
	}

	fmt.Println("librarian chat — ask about the corpus, 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		outcome, err := svc.Answer(ctx, session.ID, question)
		if err != nil {
			a.logger.Error("Failed to answer", zap.Error(err))
			continue
		}
		fmt.Println(outcome.Answer)
	}
}

// ingest loads the corpus into the vector index, creating the collection
// first so a fresh index works out of the box.
func (a *app) ingest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	file := fs.String("file", "", "JSON file with records (default: built-in book corpus)")
	collection := fs.String("collection", a.cfg.Qdrant.Collection, "target collection")
	chunkSize := fs.Int("chunk-size", a.cfg.Ingest.ChunkSize, "records per upsert batch")
	workers := fs.Int("workers", a.cfg.Ingest.Workers, "concurrent batches")
	_ = fs.Parse(args)

	records := corpus.Books()
	if *file != "" {
		var err error
		records, err = corpus.LoadFile(*file)
		if err != nil {
			a.logger.Fatal("Failed to load records", zap.String("file", *file), zap.Error(err))
		}
	}

	ai := a.newAIClient()
	qd := a.newQdrantClient()

	ctx := context.Background()
	if err := qd.CreateCollection(ctx, *collection,
		a.cfg.Qdrant.VectorSize, domain.Distance(a.cfg.Qdrant.Distance)); err != nil {
		a.logger.Fatal("Failed to create collection", zap.Error(err))
	}

	svc := ingestuc.New(ai, qd, ingestuc.Config{
		ChunkSize: *chunkSize,
		Workers:   *workers,
		Logger:    a.logger,
	})

	report, err := svc.Run(ctx, *collection, records)
	if err != nil {
		a.logger.Fatal("Ingestion aborted", zap.Error(err))
	}

	fmt.Printf("ingested %d/%d records (%d skipped, %d failed batches)\n",
		report.Processed, report.Total, report.Skipped, report.FailedBatches)
	if report.Skipped > 0 || report.FailedBatches > 0 {
		os.Exit(1)
	}
}

// initCollection creates the vector collection.
func (a *app) initCollection(args []string) {
	fs := flag.NewFlagSet("init-collection", flag.ExitOnError)
	collection := fs.String("collection", a.cfg.Qdrant.Collection, "collection name")
	size := fs.Int("size", a.cfg.Qdrant.VectorSize, "vector dimensionality")
	distance := fs.String("distance", a.cfg.Qdrant.Distance, "distance metric (Cosine, Euclid, Dot)")
	_ = fs.Parse(args)

	qd := a.newQdrantClient()

	if err := qd.CreateCollection(context.Background(), *collection, *size, domain.Distance(*distance)); err != nil {
		a.logger.Fatal("Failed to create collection", zap.Error(err))
	}
	fmt.Printf("collection %q ready (size=%d, distance=%s)\n", *collection, *size, *distance)
}

// embed vectorizes one text and prints the result, for checking the
// embedding endpoint and model dimensionality.
func (a *app) embed(args []string) {
	fs := flag.NewFlagSet("embed", flag.ExitOnError)
	text := fs.String("text", "", "text to embed")
	full := fs.Bool("full", false, "print the full vector instead of a preview")
	_ = fs.Parse(args)

	if *text == "" {
		fmt.Fprintln(os.Stderr, "embed: -text is required")
		os.Exit(2)
	}

	ai := a.newAIClient()

	vector, err := ai.Embed(context.Background(), *text)
	if err != nil {
		a.logger.Fatal("Failed to embed", zap.Error(err))
	}

	fmt.Printf("dimensions: %d\n", len(vector))
	if *full {
		out, _ := json.Marshal(vector)
		fmt.Println(string(out))
		return
	}
	preview := vector
	if len(preview) > 8 {
		preview = preview[:8]
	}
	out, _ := json.Marshal(preview)
	fmt.Printf("preview: %s...\n", out)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain
// text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates
// X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
