package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"songbook/internal/build"
	"songbook/internal/domain/config"
	"songbook/internal/index"
)

// Server 是开发服务器：起动时跑一轮完整构建，之后监听源目录，文件一变
// 就重跑整轮（载入→链接→渲染→调和），再通过 SSE 通知浏览器刷新。
type Server struct {
	cfg     config.Config
	builder *build.Builder
	st      *index.Store
	log     *log.Logger

	buildMu sync.Mutex // 一次只跑一轮

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, st *index.Store, logger *log.Logger) *Server {
	return &Server{
		cfg:      cfg,
		builder:  &build.Builder{Cfg: cfg, Store: st, Log: logger},
		st:       st,
		log:      logger,
		sseConns: make(map[chan string]struct{}),
	}
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.rebuild(ctx); err != nil {
		return err
	}

	if err := s.startWatch(ctx); err != nil {
		return err
	}

	dest := s.cfg.Destination()
	fileServer := http.FileServer(http.Dir(dest))

	mux := http.NewServeMux()
	mux.HandleFunc("/songs/", s.handleSong(dest, fileServer))
	mux.HandleFunc("/api/songs", s.handleListSongs)
	mux.HandleFunc("/api/categories", s.handleListCategories)
	mux.HandleFunc("/dev/events", s.handleSSE)
	mux.Handle("/", fileServer)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Info("listening", "addr", addr, "destination", dest)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// handleSong 先按文件直出；404 的话试一把 AKA 别名，能解析就跳转到
// 正主的页面。
func (s *Server) handleSong(dest string, fileServer http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, "/")
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}

		slug := strings.TrimPrefix(r.URL.Path, "/songs/")
		slug = strings.TrimSuffix(strings.TrimSuffix(slug, "/"), ".html")
		if slug != "" && !strings.Contains(slug, "/") {
			if canonical, err := s.st.ResolveAlias(slug); err == nil && canonical != slug {
				http.Redirect(w, r, "/songs/"+canonical+".html", http.StatusFound)
				return
			}
		}
		fileServer.ServeHTTP(w, r)
	}
}

// /api/* 直接吐索引库里的内容，开发时看链接结果用。
func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.st.ListSongs()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, songs)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.st.ListCategories()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, cats)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	res, err := s.builder.Run(ctx)
	if err != nil {
		return err
	}
	s.log.Info("rebuild complete",
		"songs", res.Songs,
		"categories", res.Categories,
		"generated", len(res.Generated),
		"copied", len(res.Copied),
		"deleted", res.Deleted,
	)
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		err = filepath.Walk(s.cfg.Build.SourceDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			// 索引库每轮都写，监听它就死循环了
			if info.Name() == ".songbook" {
				return filepath.SkipDir
			}
			// 别监听输出目录，不然构建自己会触发自己
			if abs, e := filepath.Abs(path); e == nil {
				if dest, e := filepath.Abs(s.cfg.Destination()); e == nil {
					if abs == dest || strings.HasPrefix(abs, dest+string(os.PathSeparator)) {
						return filepath.SkipDir
					}
				}
			}
			return w.Add(path)
		})
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching for file changes")
	debounce := time.NewTicker(time.Hour)
	debounce.Stop()

	trigger := func() {
		select {
		case <-debounce.C:
		default:
		}
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "err", err)
		case <-debounce.C:
			debounce.Stop()
			ctx2, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := s.rebuild(ctx2); err != nil {
				s.log.Error("rebuild error", "err", err)
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}
