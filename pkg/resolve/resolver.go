// Package resolve materializes an operation's requires list into a
// directory: URL sources are fetched, verified and optionally
// unpacked; operation references select artifacts out of the latest
// completed run of the referenced operation.
package resolve

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docker/go-units"
	"github.com/guildai/guild-cli/pkg/guildfile"
	"github.com/guildai/guild-cli/pkg/run"
	"github.com/guildai/guild-cli/pkg/storage"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option configures a Resolver
type Option func(*Resolver)

// WithHTTPClient overrides the http client fetching URL sources
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithCache stores fetched sources by digest for reuse across runs
func WithCache(cache storage.Store) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithRuns points the resolver at recorded runs for operation
// dependencies
func WithRuns(store storage.Store) Option {
	return func(r *Resolver) {
		r.runs = store
	}
}

// WithLogger sets the resolver logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver materializes dependencies onto a file system.
type Resolver struct {
	fs     afero.Fs
	client *http.Client
	cache  storage.Store
	runs   storage.Store
	logger *zap.Logger
}

// New builds a resolver writing through fs
func New(fs afero.Fs, opts ...Option) *Resolver {
	r := &Resolver{
		fs:     fs,
		client: http.DefaultClient,
		logger: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// Resolve materializes every dependency of op under targetDir.
func (r *Resolver) Resolve(ctx context.Context, op *guildfile.OpDef, targetDir string) error {
	for i, dep := range op.Requires {
		if err := r.resolveDep(ctx, dep, targetDir); err != nil {
			return fmt.Errorf("operation %q, requires[%d]: %w", op.Name, i, err)
		}
	}
	return nil
}

func (r *Resolver) resolveDep(ctx context.Context, dep *guildfile.DepDef, targetDir string) error {
	dir := targetDir
	if dep.TargetPath != "" {
		dir = filepath.Join(targetDir, dep.TargetPath)
	}
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if dep.IsOperation() {
		return r.resolveOpDep(ctx, dep, dir)
	}
	for _, src := range dep.Sources {
		if err := r.resolveSource(ctx, src, dep.DefaultUnpack, dir); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveSource(ctx context.Context, src guildfile.DepSource, unpack bool, dir string) error {
	name, err := sourceFileName(src.URL)
	if err != nil {
		return err
	}
	data, err := r.fetch(ctx, src)
	if err != nil {
		return err
	}
	r.logger.Info("resolved source",
		zap.String("url", src.URL),
		zap.String("size", units.HumanSize(float64(len(data)))))
	if unpack && isArchive(name) {
		return r.unpack(name, data, dir)
	}
	return afero.WriteFile(r.fs, filepath.Join(dir, name), data, 0644)
}

func (r *Resolver) fetch(ctx context.Context, src guildfile.DepSource) ([]byte, error) {
	if data, ok := r.cachedSource(ctx, src); ok {
		return data, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", src.URL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.URL, err)
	}
	if src.SHA256 != "" {
		sum := sha256.Sum256(data)
		if digest := hex.EncodeToString(sum[:]); digest != src.SHA256 {
			return nil, fmt.Errorf("%s: sha256 mismatch: expected %s, got %s", src.URL, src.SHA256, digest)
		}
		r.cacheSource(ctx, src.SHA256, data)
	}
	return data, nil
}

func (r *Resolver) cachedSource(ctx context.Context, src guildfile.DepSource) ([]byte, bool) {
	if r.cache == nil || src.SHA256 == "" {
		return nil, false
	}
	rdr, err := r.cache.Get(ctx, cacheKey(src.SHA256))
	if err != nil {
		return nil, false
	}
	defer rdr.Close()
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, false
	}
	r.logger.Debug("source cache hit", zap.String("url", src.URL))
	return data, true
}

func (r *Resolver) cacheSource(ctx context.Context, digest string, data []byte) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Put(ctx, cacheKey(digest), bytes.NewReader(data)); err != nil {
		r.logger.Warn("caching source", zap.Error(err))
	}
}

func cacheKey(digest string) string {
	return "sha256/" + digest
}

// resolveOpDep copies artifacts from the latest completed run of the
// referenced operation, filtered by the dependency's select pattern.
func (r *Resolver) resolveOpDep(ctx context.Context, dep *guildfile.DepDef, dir string) error {
	if r.runs == nil {
		return fmt.Errorf("operation dependency %q: no runs store configured", dep.Operation)
	}
	runID, err := r.latestRunFor(ctx, dep.Operation)
	if err != nil {
		return err
	}
	selector, err := compileSelect(dep.Select)
	if err != nil {
		return fmt.Errorf("operation dependency %q: %v", dep.Operation, err)
	}
	prefix := runID + "/output/"
	keys, err := r.runs.Keys(ctx)
	if err != nil {
		return err
	}
	copied := 0
	for _, key := range keys {
		rel, found := strings.CutPrefix(key, prefix)
		if !found {
			continue
		}
		if selector != nil && !selector.MatchString(rel) {
			continue
		}
		if err := r.copyArtifact(ctx, key, filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			return err
		}
		copied++
	}
	if copied == 0 {
		return fmt.Errorf("operation dependency %q: no artifacts matched in run %s", dep.Operation, runID)
	}
	r.logger.Info("resolved operation dependency",
		zap.String("operation", dep.Operation),
		zap.String("run", runID),
		zap.Int("artifacts", copied))
	return nil
}

func (r *Resolver) latestRunFor(ctx context.Context, opName string) (string, error) {
	keys, err := r.runs.Keys(ctx)
	if err != nil {
		return "", err
	}
	var best *run.Run
	for _, key := range keys {
		runID, found := strings.CutSuffix(key, "/attrs/operation")
		if !found {
			continue
		}
		candidate := run.New(runID, r.runs)
		val, err := candidate.Attr(ctx, "operation")
		if err != nil || val != opName {
			continue
		}
		if candidate.Status(ctx) != run.StatusCompleted {
			continue
		}
		if best == nil || candidate.Started(ctx).After(best.Started(ctx)) {
			best = candidate
		}
	}
	if best == nil {
		return "", fmt.Errorf("no completed run for operation %q", opName)
	}
	return best.ID, nil
}

func (r *Resolver) copyArtifact(ctx context.Context, key, dest string) error {
	rdr, err := r.runs.Get(ctx, key)
	if err != nil {
		return err
	}
	defer rdr.Close()
	if err := r.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	f, err := r.fs.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := storage.PipeIO(f, rdr); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func compileSelect(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid select pattern %q: %v", pattern, err)
	}
	return re, nil
}

func sourceFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid source url %q: %v", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("cannot derive a file name from %q", rawURL)
	}
	return name, nil
}
