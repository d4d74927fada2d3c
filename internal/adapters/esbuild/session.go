package esbuild

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
	"github.com/calder-build/calder/internal/hashing"
	"go.trai.ch/zerr"
)

// session is one running bundler process holding an assembled module
// graph. It implements domain.BuildHandle.
type session struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	logger ports.Logger

	// mu serializes request/response round trips: generation passes for
	// multiple targets run concurrently but share one pipe pair.
	mu     sync.Mutex
	closed bool
}

type request struct {
	Action             string          `json:"action"`
	Input              string          `json:"input,omitempty"`
	Plugins            []pluginPayload `json:"plugins,omitempty"`
	External           []string        `json:"external,omitempty"`
	PreserveSignatures string          `json:"preserveSignatures,omitempty"`
	Format             string          `json:"format,omitempty"`
	Name               string          `json:"name,omitempty"`
	Sourcemap          string          `json:"sourcemap,omitempty"`
	Exports            string          `json:"exports,omitempty"`
}

type pluginPayload struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options,omitempty"`
}

type response struct {
	Kind     string          `json:"kind"`
	Code     string          `json:"code,omitempty"`
	Message  string          `json:"message,omitempty"`
	ID       string          `json:"id,omitempty"`
	Importer string          `json:"importer,omitempty"`
	Plugin   string          `json:"plugin,omitempty"`
	Loc      *locPayload     `json:"loc,omitempty"`
	Frame    string          `json:"frame,omitempty"`
	Outputs  []outputPayload `json:"outputs,omitempty"`
}

type locPayload struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type outputPayload struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

func startSession(ctx context.Context, binary string, logger ports.Logger) (*session, error) {
	cmd := exec.CommandContext(ctx, binary, "--service") //nolint:gosec // binary resolved from configuration
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open bundler stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open bundler stdout")
	}

	if err := cmd.Start(); err != nil {
		return nil, zerr.Wrap(err, "failed to start bundler process")
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	return &session{
		cmd:    cmd,
		stdin:  stdin,
		stdout: scanner,
		logger: logger,
	}, nil
}

// assemble sends the assemble request and pumps events until the graph is
// complete. Each warning goes through spec.OnWarn; an error return aborts
// the phase with that error, matching the engine contract.
func (s *session) assemble(spec ports.AssembleSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plugins := make([]pluginPayload, len(spec.Plugins))
	for i, p := range spec.Plugins {
		plugins[i] = pluginPayload{Name: p.Name, Options: p.Options}
	}

	if err := s.send(request{
		Action:             "assemble",
		Input:              spec.Input,
		Plugins:            plugins,
		External:           spec.External,
		PreserveSignatures: string(spec.PreserveSignatures),
	}); err != nil {
		return err
	}

	for {
		resp, err := s.receive()
		if err != nil {
			return err
		}
		switch resp.Kind {
		case "assembled":
			return nil
		case "warning":
			if spec.OnWarn == nil {
				continue
			}
			if err := spec.OnWarn(warningFromResponse(resp)); err != nil {
				return err
			}
		case "error":
			return buildErrorFromResponse(resp)
		default:
			s.logger.Warn("ignoring unknown bundler event", "kind", resp.Kind)
		}
	}
}

// generate runs one generation pass. The bundler returns raw chunk and
// asset contents; the session expands the target's naming templates
// (content hash included) and, in write mode, materializes the files
// below target.Dir.
func (s *session) generate(_ context.Context, target domain.OutputTarget, write bool) (*domain.BuildResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrEngineClosed
	}

	if err := s.send(request{
		Action:    "generate",
		Format:    string(target.Format),
		Name:      target.Name,
		Sourcemap: string(target.Sourcemap),
		Exports:   target.Exports,
	}); err != nil {
		return nil, err
	}

	for {
		resp, err := s.receive()
		if err != nil {
			return nil, err
		}
		switch resp.Kind {
		case "outputs":
			return s.materialize(resp.Outputs, target, write)
		case "error":
			return nil, buildErrorFromResponse(resp)
		case "warning":
			s.logger.Warn(resp.Message, "plugin", resp.Plugin)
		default:
			s.logger.Warn("ignoring unknown bundler event", "kind", resp.Kind)
		}
	}
}

func (s *session) materialize(outputs []outputPayload, target domain.OutputTarget, write bool) (*domain.BuildResult, error) {
	result := &domain.BuildResult{Outputs: make([]domain.BuildOutput, 0, len(outputs))}

	for _, out := range outputs {
		content, err := base64.StdEncoding.DecodeString(out.Content)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "bundler returned undecodable output"), "name", out.Name)
		}

		kind := domain.OutputKind(out.Kind)
		name := hashing.ExpandTemplate(template(target, kind), out.Name, content)

		if write {
			path := filepath.Join(target.Dir, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to create output subdirectory"), "name", name)
			}
			if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // bundle output is world-readable
				return nil, zerr.With(zerr.Wrap(err, "failed to write output file"), "name", name)
			}
		}

		result.Outputs = append(result.Outputs, domain.BuildOutput{
			Name: name,
			Kind: kind,
			Size: int64(len(content)),
		})
	}
	return result, nil
}

func template(target domain.OutputTarget, kind domain.OutputKind) string {
	switch kind {
	case domain.OutputEntry:
		if target.EntryFileNames != "" {
			return target.EntryFileNames
		}
	case domain.OutputChunk:
		if target.ChunkFileNames != "" {
			return target.ChunkFileNames
		}
	case domain.OutputAsset:
		if target.AssetFileNames != "" {
			return target.AssetFileNames
		}
	}
	return "[name].[ext]"
}

func (s *session) send(req request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return zerr.Wrap(err, "failed to encode bundler request")
	}
	data = append(data, '\n')
	if _, err := s.stdin.Write(data); err != nil {
		return zerr.Wrap(err, "failed to send bundler request")
	}
	return nil
}

func (s *session) receive() (*response, error) {
	if !s.stdout.Scan() {
		if err := s.stdout.Err(); err != nil {
			return nil, zerr.Wrap(err, "failed to read bundler response")
		}
		return nil, zerr.New("bundler terminated unexpectedly")
	}
	var resp response
	if err := json.Unmarshal(s.stdout.Bytes(), &resp); err != nil {
		return nil, zerr.Wrap(err, "failed to decode bundler response")
	}
	return &resp, nil
}

// Close terminates the bundler process. Invoked only by the parallel-build
// tracker once no build is in flight.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	_ = s.send(request{Action: "close"})
	_ = s.stdin.Close()

	if err := s.cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return zerr.With(zerr.Wrap(err, "bundler exited abnormally"), "exit_code", exitErr.ExitCode())
		}
		return zerr.Wrap(err, "failed to wait for bundler")
	}
	return nil
}

func warningFromResponse(resp *response) domain.WarningEvent {
	return domain.WarningEvent{
		Code:     domain.WarningCode(resp.Code),
		Message:  resp.Message,
		ID:       resp.ID,
		Importer: resp.Importer,
		Plugin:   resp.Plugin,
		Loc:      locFromPayload(resp.Loc),
		Frame:    resp.Frame,
	}
}

func buildErrorFromResponse(resp *response) error {
	return &domain.BuildError{
		Err:    zerr.New(resp.Message),
		Plugin: resp.Plugin,
		ID:     resp.ID,
		Loc:    locFromPayload(resp.Loc),
		Frame:  resp.Frame,
	}
}

func locFromPayload(loc *locPayload) *domain.SourceLocation {
	if loc == nil {
		return nil
	}
	return &domain.SourceLocation{File: loc.File, Line: loc.Line, Column: loc.Column}
}
