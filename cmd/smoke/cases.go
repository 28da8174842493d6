// README: Smoke cases: health, validation and auth contracts, search shape, DB schema, Redis quota keys, load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  Status
	Latency time.Duration
	Note    string
}

type Case struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 20 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	cases := r.cases()
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		res := c.Run(ctx, r)
		res.Name = c.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, c.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) cases() []Case {
	base := r.cfg.BaseURL
	validSearch := map[string]any{"origin": "NYC", "destination": "LON", "date": time.Now().AddDate(0, 1, 0).Format("2006-01-02"), "travellers": 1}
	return []Case{
		httpCase("Health", http.MethodGet, base+"/health", nil, "", http.StatusOK),
		httpCase("Search: missing origin → 400", http.MethodPost, base+"/api/search",
			map[string]any{"destination": "LON", "date": "2025-06-01", "travellers": 1}, "", http.StatusBadRequest),
		httpCase("Search: bad date → 400", http.MethodPost, base+"/api/search",
			map[string]any{"origin": "NYC", "destination": "LON", "date": "01/06/2025", "travellers": 1}, "", http.StatusBadRequest),
		httpCase("Activities: missing destination → 400", http.MethodPost, base+"/api/amadeus/activities",
			map[string]any{}, "", http.StatusBadRequest),
		httpCase("Chat: empty transcript → 400", http.MethodPost, base+"/api/chat",
			map[string]any{"messages": []any{}}, "", http.StatusBadRequest),
		httpCase("Trips: no token → 401", http.MethodGet, base+"/api/trips", nil, "", http.StatusUnauthorized),
		httpCase("Profile: forged token → 401", http.MethodGet, base+"/api/profile", nil, "not-a-token", http.StatusUnauthorized),
		{
			Name: "Search: response shape (live)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Live {
					return Result{Status: StatusSkip, Note: "enable with -live"}
				}
				return searchShape(ctx, r, base+"/api/search", validSearch)
			},
		},
		{
			Name: "Trips: list with token",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.IDToken == "" {
					return Result{Status: StatusSkip, Note: "set WAYFARE_SMOKE_ID_TOKEN"}
				}
				return doCheck(ctx, r, http.MethodGet, base+"/api/trips", nil, r.cfg.IDToken, http.StatusOK)
			},
		},
		{
			Name: "Postgres: schema present",
			Run:  dbSchema,
		},
		{
			Name: "Redis: reachable for chat quota",
			Run:  redisPing,
		},
		{
			Name: "Load: /health",
			Run: func(ctx context.Context, r *Runner) Result {
				return loadHealth(ctx, r, base+"/health")
			},
		},
	}
}

func httpCase(name, method, url string, body any, token string, want int) Case {
	return Case{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			return doCheck(ctx, r, method, url, body, token, want)
		},
	}
}

func doCheck(ctx context.Context, r *Runner, method, url string, body any, token string, want int) Result {
	status, _, latency, err := r.do(ctx, method, url, body, token)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != want {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", status, want)}
	}
	return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
}

func (r *Runner) do(ctx context.Context, method, url string, body any, token string) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, time.Since(start), err
}

func searchShape(ctx context.Context, r *Runner, url string, body any) Result {
	status, raw, latency, err := r.do(ctx, http.MethodPost, url, body, "")
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != http.StatusOK {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
	}
	var got map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &got); err != nil {
		return Result{Status: StatusFail, Latency: latency, Note: "body is not an object of arrays"}
	}
	missing := lo.Filter([]string{"flights", "hotels", "activities"}, func(k string, _ int) bool {
		v, ok := got[k]
		return !ok || v == nil
	})
	if len(missing) > 0 || len(got) != 3 {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("missing=%v keys=%v", missing, lo.Keys(got))}
	}
	return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("flights=%d hotels=%d activities=%d",
		len(got["flights"]), len(got["hotels"]), len(got["activities"]))}
}

func dbSchema(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusSkip, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.Query(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public'
	`)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	defer rows.Close()
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	missing, _ := lo.Difference([]string{"users", "trips", "trip_members", "itinerary_items"}, tables)
	if len(missing) > 0 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("missing tables %v", missing)}
	}
	return Result{Status: StatusPass}
}

func redisPing(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	keys, err := r.redis.Keys(ctx, "wayfare:chat_usage:*").Result()
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("usage keys=%d", len(keys))}
}

func loadHealth(ctx context.Context, r *Runner, url string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var ok, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		g.Go(func() error {
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, _, err := r.do(ctx, http.MethodGet, url, nil, "")
				if err != nil || status != http.StatusOK {
					failed.Add(1)
					continue
				}
				ok.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if ok.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(ok.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, failed.Load())}
}
