package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/okuznetsov/reqguard/internal/config"
	"github.com/okuznetsov/reqguard/internal/constants"
	"github.com/okuznetsov/reqguard/internal/guard"
	"github.com/okuznetsov/reqguard/internal/logger"
	http_transport "github.com/okuznetsov/reqguard/internal/transport/http"
	"github.com/okuznetsov/reqguard/internal/utils"
)

// RequestOptions describes the single dispatch requested on the command line.
type RequestOptions struct {
	// Method is the HTTP method to use.
	Method string
	// URL is the request URL.
	URL string
	// Headers are raw "Name: value" pairs from repeated -H flags.
	Headers []string
	// Body is the request body.
	Body string
	// OutputPath is the file to write the response body to; empty prints to stdout.
	OutputPath string
	// DumpLogPath is the file to dump the request log to as YAML; empty skips the dump.
	DumpLogPath string
}

// ErrMalformedHeader indicates a -H flag value without a "Name: value" shape.
var ErrMalformedHeader = errors.New("header must have the form 'Name: value'")

// ExecuteRootCommand is the entry point for the application.
// It builds the guard client from the configuration, dispatches the
// requested HTTP call through it, and reports the outcome.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, opts *RequestOptions) {
	client, err := newGuardClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize client: %v", err)
	}

	header, err := parseHeaderFlags(opts.Headers)
	if err != nil {
		logger.Fatalf(ctx, "Failed to parse headers: %v", err)
	}

	request := &guard.Request{
		Method: strings.ToUpper(opts.Method),
		URL:    opts.URL,
		Header: header,
		Body:   []byte(opts.Body),
	}

	// Ensure the summary and the log dump are ALWAYS produced, even on panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		printDispatchSummary(ctx, client)

		if opts.DumpLogPath != "" {
			if dumpErr := dumpRequestLog(client, opts.DumpLogPath); dumpErr != nil {
				logger.Errorf(ctx, "Failed to dump request log: %v", dumpErr)
			}
		}
	}()

	response, err := client.Dispatch(ctx, request)
	if err != nil {
		logger.Errorf(ctx, "Request failed: %v", err)

		return
	}

	logger.Infof(ctx, "%s %s [%d %s] %s from %s",
		request.Method, request.URL, response.Status, response.StatusText,
		humanize.Bytes(uint64(len(response.Body))), response.Source)

	if err = writeResponseBody(ctx, response, opts.OutputPath); err != nil {
		logger.Errorf(ctx, "Failed to write response body: %v", err)
	}
}

// newGuardClient wires the configuration into the transport chain and
// the resilience layer: header injection, then wire-level debug logging,
// then the stock HTTP transport.
func newGuardClient(cfg *config.Config) (*guard.Client, error) {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = http_transport.DefaultUserAgent
	}

	chain := http_transport.NewLogTransport(http.DefaultTransport, cfg.ParsedMaxLogBodySize)
	chain = http_transport.NewHeaderInjector(chain, "User-Agent", utils.NewStaticValueProvider(userAgent))

	httpClient := &http.Client{Transport: chain}

	client, err := guard.FromConfig(cfg, guard.NewHTTPTransport(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create guard client: %w", err)
	}

	if len(cfg.Headers) > 0 {
		if err = client.AddRequestInterceptor(configHeadersInterceptor(cfg.Headers)); err != nil {
			return nil, fmt.Errorf("failed to register header interceptor: %w", err)
		}
	}

	return client, nil
}

// configHeadersInterceptor applies the configured extra headers to every
// request that does not already carry them.
func configHeadersInterceptor(headers map[string]string) guard.RequestInterceptor {
	return guard.RequestInterceptorFunc("config-headers",
		func(_ context.Context, request *guard.Request) (*guard.Request, error) {
			for name, value := range headers {
				if request.Header.Get(name) == "" {
					request.Header.Set(name, value)
				}
			}

			return request, nil
		})
}

// parseHeaderFlags converts repeated -H values into an http.Header.
func parseHeaderFlags(raw []string) (http.Header, error) {
	header := make(http.Header, len(raw))

	for _, pair := range raw {
		name, value, found := strings.Cut(pair, ":")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: '%s'", ErrMalformedHeader, pair)
		}

		header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return header, nil
}

// writeResponseBody prints the body to stdout, or streams it to the
// output file when one is requested.
func writeResponseBody(ctx context.Context, response *guard.Response, outputPath string) error {
	if outputPath == "" {
		if len(response.Body) == 0 {
			return nil
		}

		if !utils.IsTextContentType(response.Header.Get("Content-Type")) {
			logger.Infof(ctx, "Binary response body (%s), use -o to save it to a file",
				humanize.Bytes(uint64(len(response.Body))))

			return nil
		}

		_, err := os.Stdout.Write(append(response.Body, '\n'))

		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, constants.DefaultFolderPermissions); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	defer f.Close() //nolint:errcheck // Write errors are surfaced by io.Copy below.

	// Progress bars are suppressed below info level to keep debug dumps readable.
	var writer io.Writer = f

	if logger.Level() <= zap.InfoLevel {
		bar := progressbar.DefaultBytes(
			int64(len(response.Body)),
			"Saving",
		)

		writer = io.MultiWriter(f, bar)
	}

	if _, err = io.Copy(writer, bytes.NewReader(response.Body)); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

// printDispatchSummary prints the aggregate outcome of the run.
func printDispatchSummary(ctx context.Context, client *guard.Client) {
	stats := client.Stats()
	if stats.Total == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "=== Dispatch Summary ===")
	logger.Infof(ctx, "Requests:     %d", stats.Total)
	logger.Infof(ctx, "Successful:   %d", stats.Successful)

	if stats.Failed > 0 {
		logger.Infof(ctx, "Failed:       %d", stats.Failed)
	}

	logger.Infof(ctx, "Success Rate: %.1f%%", stats.SuccessRate*100)
}

// dumpRequestLog writes the request log to a YAML file.
func dumpRequestLog(client *guard.Client, path string) error {
	data, err := yaml.Marshal(client.Log())
	if err != nil {
		return fmt.Errorf("failed to marshal request log: %w", err)
	}

	if err = os.WriteFile(path, data, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write request log: %w", err)
	}

	return nil
}
