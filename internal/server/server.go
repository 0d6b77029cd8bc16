package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ahui21/PokerNow-Analyzer/internal/application"
)

// Server exposes the analyzer over HTTP: upload log files, read back
// per-player statistics and the import history.
type Server struct {
	svc  *application.Service
	addr string
}

func New(svc *application.Service, addr string) *Server {
	return &Server{svc: svc, addr: addr}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/upload", s.handleUpload)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/stats/{player}", s.handlePlayerStats)
	r.Get("/api/imports", s.handleImports)
	return r
}

// ListenAndServe runs the HTTP server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleUpload accepts one or more CSV exports as multipart files. Each
// file is staged to a temp path preserving its original name (the name
// is the duplicate-detection key) and imported independently, so one bad
// file never blocks the rest.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	stageDir, err := os.MkdirTemp("", "pokernow-upload-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "staging failed")
		return
	}
	defer os.RemoveAll(stageDir)

	var processed, skipped []string
	var failed []map[string]string

	for _, fh := range files {
		path, err := stageUpload(stageDir, fh)
		if err == nil {
			var res application.ImportResult
			res, err = s.svc.ImportFile(r.Context(), path)
			if err == nil && res.Status == application.StatusSkipped {
				skipped = append(skipped, fh.Filename)
				continue
			}
		}
		if err != nil {
			slog.Error("upload import failed", "file", fh.Filename, "err", err)
			failed = append(failed, map[string]string{
				"filename": fh.Filename,
				"error":    err.Error(),
			})
			continue
		}
		processed = append(processed, fh.Filename)
	}

	status := "success"
	if len(processed) == 0 {
		status = "error"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"processed": processed,
		"skipped":   skipped,
		"failed":    failed,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	reports, err := s.svc.PlayerReports(r.Context())
	if err != nil {
		slog.Error("stats query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "stats query failed")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	reports, err := s.svc.PlayerReports(r.Context())
	if err != nil {
		slog.Error("stats query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "stats query failed")
		return
	}
	for _, rep := range reports {
		if rep.Name == player {
			writeJSON(w, http.StatusOK, rep)
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown player")
}

func (s *Server) handleImports(w http.ResponseWriter, r *http.Request) {
	imports, err := s.svc.Imports(r.Context())
	if err != nil {
		slog.Error("imports query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "imports query failed")
		return
	}
	writeJSON(w, http.StatusOK, imports)
}

func stageUpload(dir string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, filepath.Base(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
