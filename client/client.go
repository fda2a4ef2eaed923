package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/engine/physical"
	"github.com/aleph-zero/tinysql/telemetry"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	serviceName       = "tinysql-cli"
	serviceVersion    = "0.0.1"
	readlineConfigDir = ".config/tinysql"
)

type Config struct {
	RemoteAddr        string
	RemotePort        int
	Format            physical.Format
	TelemetryEndpoint string
}

type Option func(*Config)

func NewConfig(options ...Option) *Config {
	cfg := &Config{Format: physical.Table}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithRemoteAddr(addr string) Option {
	return func(cfg *Config) {
		cfg.RemoteAddr = addr
	}
}

func WithRemotePort(port uint16) Option {
	return func(cfg *Config) {
		cfg.RemotePort = int(port)
	}
}

func WithFormat(format physical.Format) Option {
	return func(cfg *Config) {
		cfg.Format = format
	}
}

func WithTelemetryEndpoint(endpoint string) Option {
	return func(cfg *Config) {
		cfg.TelemetryEndpoint = endpoint
	}
}

func Bootstrap(config *Config) error {
	ctx := context.Background()

	rl, err := setupReadline()
	if err != nil {
		return fmt.Errorf("setting up readline: %w", err)
	}
	defer rl.Close()

	shutdown, err := telemetry.New(serviceName, serviceVersion, config.TelemetryEndpoint)
	if err != nil {
		return err
	}
	defer shutdown()

	client := New(fmt.Sprintf("http://%s:%d", config.RemoteAddr, config.RemotePort))
	failure := color.New(color.FgRed, color.Bold)
	summary := color.New(color.Faint)

	var statement strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 && statement.Len() == 0 {
				break
			}
			statement.Reset()
			rl.SetPrompt(prompt)
			continue
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if statement.Len() > 0 {
			statement.WriteByte(' ')
		}
		statement.WriteString(line)

		// keep reading until the statement is terminated
		if !strings.HasSuffix(line, ";") {
			rl.SetPrompt(continuation)
			continue
		}
		stmt := statement.String()
		statement.Reset()
		rl.SetPrompt(prompt)

		response, err := client.Query(ctx, stmt)
		if err != nil {
			failure.Fprintf(os.Stderr, "error: %s\n", err)
			continue
		}
		if err := response.Result().Render(os.Stdout, config.Format); err != nil {
			failure.Fprintf(os.Stderr, "error: %s\n", err)
			continue
		}
		summary.Fprintf(os.Stdout, "(%d rows in %s)\n", len(response.Rows), response.Duration)
	}
	return nil
}

// Client submits statements to a tinysql server.
type Client struct {
	endpoint string
	http     *http.Client
}

func New(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   time.Second * 30,
		},
	}
}

type Response struct {
	QueryId  string         `json:"queryId"`
	Duration time.Duration  `json:"duration"`
	Header   []string       `json:"header"`
	Rows     []engine.Tuple `json:"rows"`
}

func (r *Response) Result() *physical.Result {
	return &physical.Result{Header: r.Header, Rows: r.Rows}
}

// RemoteError is a failure reported by the server.
type RemoteError struct {
	StatusCode int
	Kind       string `json:"kind"`
	Message    string `json:"error"`
}

func (e RemoteError) Error() string {
	if e.Kind == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (c *Client) Query(ctx context.Context, statement string) (*Response, error) {
	ctx, span := telemetry.StartSpan(ctx, "client.sql", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/sql", nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = url.Values{"q": {statement}}.Encode()

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		remote := RemoteError{StatusCode: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(&remote); err != nil || remote.Message == "" {
			remote.Message = res.Status
		}
		span.RecordError(remote)
		return nil, remote
	}

	var response Response
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &response, nil
}

var (
	prompt       = color.New(color.FgRed).Sprint("tinysql> ")
	continuation = "      -> "
)

func setupReadline() (rl *readline.Instance, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(home, readlineConfigDir)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		return nil, err
	}

	return readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       filepath.Join(dir, "tinysql.history"),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
}
