package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"curator/internal/api"
	"curator/internal/daemon"
	"curator/internal/enrich"
	"curator/internal/library"
	"curator/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Curator", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path), logging.Error(err))
	}
}

// SocketPath returns the daemon's control socket location.
func SocketPath(dataDir string) string {
	return filepath.Join(dataDir, "curatord.sock")
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String("component", "ipc"))
}

func (s *service) jobPayload(job *enrich.Job) Job {
	return api.FromJob(job,
		enrich.EstimateProgress(job, time.Now().UTC()),
		s.daemon.Config().Enrichment.MaxErrorsDisplayed)
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.DatabasePath = status.DatabasePath
	resp.LockPath = status.LockFilePath
	if status.ActiveJob != nil {
		job := s.jobPayload(status.ActiveJob)
		resp.ActiveJob = &job
	}
	return nil
}

func (s *service) EnrichStart(req EnrichStartRequest, resp *EnrichStartResponse) error {
	opts := req.Options.Options()
	notes := opts.Normalize()
	job, err := s.daemon.Controller().Start(s.ctx, opts)
	if err != nil {
		return err
	}
	s.log().Info("enrichment job started via ipc", logging.String(logging.FieldJobID, job.ID))
	resp.Job = s.jobPayload(job)
	resp.Notes = notes
	return nil
}

func (s *service) EnrichStatus(req JobRequest, resp *JobResponse) error {
	view, err := s.daemon.Controller().Status(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Job = api.FromJob(view.Job, view.Estimate, s.daemon.Config().Enrichment.MaxErrorsDisplayed)
	return nil
}

func (s *service) EnrichPause(req JobRequest, resp *JobResponse) error {
	job, err := s.daemon.Controller().Pause(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Job = s.jobPayload(job)
	return nil
}

func (s *service) EnrichResume(req JobRequest, resp *JobResponse) error {
	job, err := s.daemon.Controller().Resume(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Job = s.jobPayload(job)
	return nil
}

func (s *service) EnrichCancel(req JobRequest, resp *JobResponse) error {
	job, err := s.daemon.Controller().Cancel(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Job = s.jobPayload(job)
	return nil
}

func (s *service) EnrichDelete(req JobRequest, resp *JobDeleteResponse) error {
	if err := s.daemon.Controller().Delete(s.ctx, req.ID); err != nil {
		return err
	}
	resp.Deleted = true
	return nil
}

func (s *service) EnrichList(_ JobListRequest, resp *JobListResponse) error {
	jobs, err := s.daemon.Controller().List(s.ctx)
	if err != nil {
		return err
	}
	resp.Jobs = make([]Job, 0, len(jobs))
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, s.jobPayload(job))
	}
	return nil
}

func (s *service) EnrichOnce(req EnrichOnceRequest, resp *EnrichOnceResponse) error {
	s.log().Info("single-item enrichment requested",
		logging.Int64(logging.FieldItemID, req.ItemID))
	outcome, item, err := s.daemon.Controller().RunOnce(s.ctx, req.ItemID)
	if err != nil {
		return err
	}
	resp.Item = api.FromItem(item)
	resp.Outcome = api.FromOutcome(outcome)
	return nil
}

func (s *service) Stats(_ StatsRequest, resp *StatsResponse) error {
	stats, err := s.daemon.Library().EnrichmentStats(s.ctx)
	if err != nil {
		return err
	}
	resp.Stats = api.FromStats(stats)
	return nil
}

func (s *service) ItemList(req ItemListRequest, resp *ItemListResponse) error {
	sel := library.Selection{
		Sources:         library.SourcesForScope(req.Source),
		ExcludeArchived: true,
		Limit:           req.Limit,
	}
	items, err := s.daemon.Library().List(s.ctx, sel)
	if err != nil {
		return err
	}
	resp.Items = make([]api.Item, 0, len(items))
	for _, item := range items {
		resp.Items = append(resp.Items, api.FromItem(item))
	}
	return nil
}

func (s *service) ItemAdd(req ItemAddRequest, resp *ItemAddResponse) error {
	item := &library.Item{
		Source:      library.Source(req.Source),
		URL:         req.URL,
		Title:       req.Title,
		Author:      req.Author,
		ChannelName: req.ChannelName,
		ExternalID:  req.ExternalID,
		UploadDate:  req.UploadDate,
	}
	stored, err := s.daemon.Library().Add(s.ctx, item)
	if err != nil {
		return err
	}
	s.log().Info("library item added via ipc", logging.Int64(logging.FieldItemID, stored.ID))
	resp.Item = api.FromItem(stored)
	return nil
}

func (s *service) ItemGet(req ItemGetRequest, resp *ItemGetResponse) error {
	item, err := s.daemon.Library().GetByID(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: %d", enrich.ErrItemNotFound, req.ID)
	}
	resp.Item = api.FromItem(item)
	resp.Transcript = item.Transcript
	return nil
}
